package config

import (
	"testing"
	"time"

	"github.com/mmcdole/cinematch/internal/request"
)

func TestDefaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.URL != request.DefaultBaseURL {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.API.Timeout != 10*time.Second || cfg.API.MaxRetries != 3 || cfg.API.BaseDelay != time.Second {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Hover.Dwell != 300*time.Millisecond || cfg.Hover.Hide != 200*time.Millisecond {
		t.Errorf("Hover = %+v", cfg.Hover)
	}
	if cfg.Suggest.MinInterval != 0 {
		t.Errorf("Suggest.MinInterval = %v, want 0", cfg.Suggest.MinInterval)
	}
	if cfg.List.VisibilityThreshold != 0.1 || cfg.List.ScrollMargin != 50 {
		t.Errorf("List = %+v", cfg.List)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CINEMATCH_API_URL", "http://localhost:5000/")
	t.Setenv("CINEMATCH_API_MAX_RETRIES", "5")
	t.Setenv("CINEMATCH_API_TIMEOUT", "2s")
	t.Setenv("CINEMATCH_SUGGEST_MIN_INTERVAL", "150ms")

	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.URL != "http://localhost:5000" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.API.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.API.MaxRetries)
	}
	if cfg.API.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Suggest.MinInterval != 150*time.Millisecond {
		t.Errorf("MinInterval = %v", cfg.Suggest.MinInterval)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.API.URL = "https://staging.example.com"
	cfg.Hover.Dwell = 450 * time.Millisecond
	cfg.Metrics.Listen = "127.0.0.1:9464"

	if err := saveTo(dir, cfg); err != nil {
		t.Fatalf("saveTo: %v", err)
	}

	got, err := load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.API.URL != "https://staging.example.com" {
		t.Errorf("API.URL = %q", got.API.URL)
	}
	if got.Hover.Dwell != 450*time.Millisecond {
		t.Errorf("Hover.Dwell = %v", got.Hover.Dwell)
	}
	if got.Metrics.Listen != "127.0.0.1:9464" {
		t.Errorf("Metrics.Listen = %q", got.Metrics.Listen)
	}
}
