package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("PARTICIPANT_SELF", "2")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
participant:
  self: "${PARTICIPANT_SELF}"
  relayEndpoint: "${RELAY_ENDPOINT:http://localhost:8080}"
  roundTimeout: "5s"
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Participant.Self != "2" {
		t.Fatalf("self = %q, want 2", cfg.Participant.Self)
	}
	if cfg.Participant.RelayEndpoint != "http://localhost:8080" {
		t.Fatalf("relayEndpoint = %q, want default", cfg.Participant.RelayEndpoint)
	}
	if cfg.Participant.RoundTimeout.Duration.String() != "5s" {
		t.Fatalf("roundTimeout = %v, want 5s", cfg.Participant.RoundTimeout.Duration)
	}
	if cfg.Relay.Listen != ":8080" {
		t.Fatalf("relay.listen default = %q, want :8080", cfg.Relay.Listen)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("logLevel default = %q, want info", cfg.LogLevel)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
