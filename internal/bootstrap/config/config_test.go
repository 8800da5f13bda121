package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contractd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return path
}

func TestLoadFromPathMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9999"
  gzip: false
  maxPageSize: 50
  rateLimit:
    rps: 5
    burst: 10
`)
	cfg := LoadFromPath(path)
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("addr = %s", cfg.Addr)
	}
	if cfg.GzipEnabled {
		t.Fatal("gzip should be disabled by file")
	}
	if cfg.MaxPageSize != 50 {
		t.Fatalf("maxPageSize = %d", cfg.MaxPageSize)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("rate limit = %v/%v", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.RateLimitEnabled {
		t.Fatal("rate limit enabled default lost")
	}
}

func TestLoadFromPathMissingFileFallsBack(t *testing.T) {
	cfg := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	want := Default()
	if cfg != want {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFromPathUnparsableFileFallsBack(t *testing.T) {
	path := writeConfig(t, "{not yaml: [")
	cfg := LoadFromPath(path)
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9999"
`)
	t.Setenv("CONTRACTD_ADDR", "127.0.0.1:7777")
	t.Setenv("CONTRACTD_GZIP", "off")
	t.Setenv("CONTRACTD_RATE_LIMIT_RPS", "2.5")
	cfg := LoadFromPath(path)
	if cfg.Addr != "127.0.0.1:7777" {
		t.Fatalf("addr = %s, env override lost", cfg.Addr)
	}
	if cfg.GzipEnabled {
		t.Fatal("gzip env override lost")
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("rps = %v", cfg.RateLimitRPS)
	}
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("CONTRACTD_MAX_PAGE_SIZE", "-3")
	t.Setenv("CONTRACTD_RATE_LIMIT_BURST", "zero")
	cfg := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if cfg.MaxPageSize != Default().MaxPageSize {
		t.Fatalf("maxPageSize = %d", cfg.MaxPageSize)
	}
	if cfg.RateLimitBurst != Default().RateLimitBurst {
		t.Fatalf("burst = %d", cfg.RateLimitBurst)
	}
}
