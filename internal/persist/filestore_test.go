package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "identities.yaml")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := s.LoadAll(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("LoadAll = %v, %v", got, err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identities.yaml")
	ctx := context.Background()

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(ctx, "id-1", "kara"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "id-2", "finn"); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Re-save under a new name overwrites.
	if err := s.Save(ctx, "id-1", "kara_1"); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Fresh store over the same file sees everything.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 || got["id-1"] != "kara_1" || got["id-2"] != "finn" {
		t.Fatalf("LoadAll = %v", got)
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file survived the rename")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identities.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Fatalf("corrupt file accepted")
	}
}
