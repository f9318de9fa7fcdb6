package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network.BindAddress != "0.0.0.0:8888" {
		t.Fatalf("bind address %q", cfg.Network.BindAddress)
	}
	if cfg.Session.SweepInterval != 5*time.Second || cfg.Session.InactivityTimeout != 60*time.Second {
		t.Fatalf("session defaults: %+v", cfg.Session)
	}
	if cfg.Movement.ToleranceMeters != 0.5 {
		t.Fatalf("tolerance %v", cfg.Movement.ToleranceMeters)
	}
	if cfg.Identity.Backend != "file" {
		t.Fatalf("backend %q", cfg.Identity.Backend)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatalf("start time not stamped")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[network]
bind_address = "127.0.0.1:9999"

[session]
sweep_interval = "2s"
inactivity_timeout = "30s"

[movement]
tolerance_m = 1.5
max_delta = "10s"

[identity]
backend = "postgres"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network.BindAddress != "127.0.0.1:9999" {
		t.Fatalf("bind address %q", cfg.Network.BindAddress)
	}
	if cfg.Session.SweepInterval != 2*time.Second {
		t.Fatalf("sweep interval %v", cfg.Session.SweepInterval)
	}
	if cfg.Movement.ToleranceMeters != 1.5 || cfg.Movement.MaxDelta != 10*time.Second {
		t.Fatalf("movement: %+v", cfg.Movement)
	}
	if cfg.Identity.Backend != "postgres" {
		t.Fatalf("backend %q", cfg.Identity.Backend)
	}
	// Untouched sections keep their defaults.
	if cfg.Network.MaxDatagramSize != 2048 {
		t.Fatalf("datagram size %d", cfg.Network.MaxDatagramSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("missing config accepted")
	}
}
