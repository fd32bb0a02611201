package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("unexpected server address: %s", cfg.Server.Address)
	}
	if cfg.Ingest.SamplingRate != 250 {
		t.Fatalf("unexpected sampling rate: %f", cfg.Ingest.SamplingRate)
	}
	if cfg.Ingest.DefaultLead != "II" {
		t.Fatalf("unexpected default lead: %s", cfg.Ingest.DefaultLead)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  address: ":9090"
ingest:
  samplingRate: 500
  durationSeconds: 8
mapper:
  seed: 42
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("unexpected address: %s", cfg.Server.Address)
	}
	if cfg.Ingest.SamplingRate != 500 {
		t.Fatalf("unexpected sampling rate: %f", cfg.Ingest.SamplingRate)
	}
	if cfg.Mapper.Seed != 42 {
		t.Fatalf("unexpected seed: %d", cfg.Mapper.Seed)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EKG_ENGINE_SERVER_ADDRESS", ":7070")
	t.Setenv("EKG_ENGINE_SAMPLING_RATE", "360")
	t.Setenv("EKG_ENGINE_LOG_FORMAT", "json")
	t.Setenv("EKG_ENGINE_GRACEFUL_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Address != ":7070" {
		t.Fatalf("env override not applied: %s", cfg.Server.Address)
	}
	if cfg.Ingest.SamplingRate != 360 {
		t.Fatalf("env override not applied: %f", cfg.Ingest.SamplingRate)
	}
	if !cfg.Logging.JSON {
		t.Fatalf("expected JSON logging")
	}
	if cfg.Server.GracefulTimeout != 5*time.Second {
		t.Fatalf("unexpected graceful timeout: %v", cfg.Server.GracefulTimeout)
	}
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	t.Setenv("EKG_ENGINE_SAMPLING_RATE", "-1")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-positive sampling rate")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
