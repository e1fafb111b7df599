package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"plaza/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Media.MaxImageWidth != 1024 {
		t.Fatalf("expected default max image width, got %d", cfg.Media.MaxImageWidth)
	}
	if cfg.Media.MaxVideoHeight != 720 {
		t.Fatalf("expected default max video height, got %d", cfg.Media.MaxVideoHeight)
	}
	if cfg.ScrollTTL() != 5*time.Minute {
		t.Fatalf("expected 5m scroll TTL, got %s", cfg.ScrollTTL())
	}
	if cfg.PreviewTTL() != time.Hour {
		t.Fatalf("expected 1h preview TTL, got %s", cfg.PreviewTTL())
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[backend]
base_url = "https://backend.example.com/"
request_timeout = 30

[media]
max_image_width = 2048
ffmpeg_binary = " ffmpeg6 "

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Backend.BaseURL != "https://backend.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.BackendTimeout() != 30*time.Second {
		t.Fatalf("unexpected backend timeout %s", cfg.BackendTimeout())
	}
	if cfg.Media.MaxImageWidth != 2048 {
		t.Fatalf("expected overridden width, got %d", cfg.Media.MaxImageWidth)
	}
	if cfg.FFmpegBinary() != "ffmpeg6" {
		t.Fatalf("expected trimmed binary name, got %q", cfg.FFmpegBinary())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging values, got %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*config.Config)
		fragment string
	}{
		{
			name:     "bad backend url",
			mutate:   func(c *config.Config) { c.Backend.BaseURL = "ftp://example.com" },
			fragment: "backend.base_url",
		},
		{
			name:     "tiny image width",
			mutate:   func(c *config.Config) { c.Media.MaxImageWidth = 4 },
			fragment: "max_image_width",
		},
		{
			name:     "zero ad weight",
			mutate:   func(c *config.Config) { c.Ads.Weight = 0 },
			fragment: "ads.weight",
		},
		{
			name:     "bad log format",
			mutate:   func(c *config.Config) { c.Logging.Format = "yaml" },
			fragment: "logging.format",
		},
		{
			name:     "bare ntfy topic",
			mutate:   func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" },
			fragment: "ntfy_topic",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected %q in error, got %v", tc.fragment, err)
			}
		})
	}
}

func TestDefaultBinaries(t *testing.T) {
	cfg := config.Default()
	if cfg.FFmpegBinary() != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.FFmpegBinary())
	}
	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary %q", cfg.FFprobeBinary())
	}
	if cfg.HeifBinary() != "heif-convert" {
		t.Fatalf("unexpected heif binary %q", cfg.HeifBinary())
	}
}
