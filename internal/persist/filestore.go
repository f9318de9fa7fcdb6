package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// fileDoc is the on-disk shape of the identity file.
type fileDoc struct {
	Identities map[string]string `yaml:"identities"`
}

// FileStore keeps the identity mapping in a single YAML file, rewritten
// atomically (temp file + rename) on every save. Suitable for single-node
// deployments without a database.
type FileStore struct {
	path string

	mu      sync.Mutex
	records map[string]string
}

// NewFileStore opens (or prepares to create) the identity file. A missing
// file is an empty mapping, not an error — first boot has nothing saved.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read identity file %s: %w", path, err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse identity file %s: %w", path, err)
	}
	for id, name := range doc.Identities {
		s.records[id] = name
	}
	return s, nil
}

// LoadAll returns a copy of the current mapping.
func (s *FileStore) LoadAll(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.records))
	for id, name := range s.records {
		out[id] = name
	}
	return out, nil
}

// Save records one identity and rewrites the file.
func (s *FileStore) Save(ctx context.Context, playerID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[playerID] = username
	return s.flush()
}

func (s *FileStore) flush() error {
	doc := fileDoc{Identities: s.records}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode identity file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write identity file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace identity file: %w", err)
	}
	return nil
}
