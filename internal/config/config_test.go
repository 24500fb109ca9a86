package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL || cfg.Timeout != DefaultTimeout || cfg.FilterOnReload != FilterKeep {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, `
api_url: https://items.example.com/
timeout: 3s
data_dir: /tmp/itemdesk
log_level: debug
theme: neon
filter_on_reload: reset
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://items.example.com" {
		t.Errorf("APIURL = %q, trailing slash should be trimmed", cfg.APIURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.FilterOnReload != FilterReset || cfg.Theme != "neon" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	if cfg.StorePath() != filepath.Join("/tmp/itemdesk", "local.db") {
		t.Errorf("StorePath = %q", cfg.StorePath())
	}
	if cfg.Path() != p {
		t.Errorf("Path = %q, want %q", cfg.Path(), p)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://env:9000")
	t.Setenv(EnvDataDir, "/env/data")
	p := writeConfig(t, "api_url: http://file:1\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://env:9000" || cfg.DataDir != "/env/data" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "api_url: [unterminated"},
		{name: "bad scheme", body: "api_url: ftp://x"},
		{name: "bad policy", body: "filter_on_reload: sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("Load error = %v, want *config.Error", err)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	cfg := Default()
	b, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), "api_url: http://localhost:5000") {
		t.Errorf("Marshal output missing api_url:\n%s", b)
	}
}
