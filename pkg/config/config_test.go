package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.DPI != 100 {
		t.Errorf("Export.DPI = %d, want 100", cfg.Export.DPI)
	}
	if len(cfg.Export.Formats) != 1 || cfg.Export.Formats[0] != "png" {
		t.Errorf("Export.Formats = %v, want [png]", cfg.Export.Formats)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Duration != 7*24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 168h", cfg.Cache.TTL.Duration)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Export.DPI != Default().Export.DPI {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[export]
dir = "/srv/charts"
dpi = 300
formats = ["png", "pdf"]
append_timestamp = false

[cache]
backend = "redis"
ttl = "48h"

[cache.redis]
addr = "localhost:6379"
db = 2

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Export.Dir != "/srv/charts" || cfg.Export.DPI != 300 {
		t.Errorf("Export = %+v", cfg.Export)
	}
	if cfg.Export.AppendTimestamp {
		t.Error("append_timestamp = false not applied")
	}
	if len(cfg.Export.Formats) != 2 {
		t.Errorf("Export.Formats = %v", cfg.Export.Formats)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 48*time.Hour {
		t.Errorf("Cache.TTL = %v, want 48h", cfg.Cache.TTL.Duration)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad backend", content: "[cache]\nbackend = \"memcached\"\n"},
		{name: "bad dpi", content: "[export]\ndpi = -1\n"},
		{name: "malformed toml", content: "[export\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile error: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() = nil error, want failure")
			}
		})
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	// none
	c, err := OpenCache(ctx, CacheConfig{Backend: BackendNone})
	if err != nil {
		t.Fatalf("OpenCache(none) error: %v", err)
	}
	c.Close()

	// file
	c, err = OpenCache(ctx, CacheConfig{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenCache(file) error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q hit=%v err=%v", data, hit, err)
	}
}
