package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Monitor.PollInterval != 5*time.Second {
		t.Errorf("poll interval = %v", cfg.Monitor.PollInterval)
	}
	if cfg.Monitor.Cooldown != 30*time.Second {
		t.Errorf("cooldown = %v", cfg.Monitor.Cooldown)
	}
	if cfg.Monitor.DispatchAttempts != 3 {
		t.Errorf("dispatch attempts = %d", cfg.Monitor.DispatchAttempts)
	}
	if cfg.Monitor.FetchWindow != 5 {
		t.Errorf("fetch window = %d", cfg.Monitor.FetchWindow)
	}
	if len(cfg.Media.CalmingLinks) == 0 {
		t.Error("calming links must never be empty")
	}
}

func TestLoadServerAddrForms(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	t.Setenv("PORT", "9191")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9191" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadMonitorOverrides(t *testing.T) {
	t.Setenv("MONITOR_POLL_INTERVAL", "2s")
	t.Setenv("MONITOR_COOLDOWN", "1m")
	t.Setenv("MONITOR_DEDUP_CAPACITY", "64")
	t.Setenv("MEDIA_IMAGES", "a.jpg, b.jpg,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Monitor.PollInterval != 2*time.Second {
		t.Errorf("poll interval = %v", cfg.Monitor.PollInterval)
	}
	if cfg.Monitor.Cooldown != time.Minute {
		t.Errorf("cooldown = %v", cfg.Monitor.Cooldown)
	}
	if cfg.Monitor.DedupCapacity != 64 {
		t.Errorf("dedup capacity = %d", cfg.Monitor.DedupCapacity)
	}
	if len(cfg.Media.Images) != 2 || cfg.Media.Images[1] != "b.jpg" {
		t.Errorf("images = %v", cfg.Media.Images)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("MONITOR_POLL_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unparseable duration")
	}
}

func TestAIConfigEnabled(t *testing.T) {
	if (AIConfig{}).Enabled() {
		t.Error("empty config must not be enabled")
	}
	if !(AIConfig{APIKey: "k", Model: "m"}).Enabled() {
		t.Error("api key + model should enable")
	}
	if (AIConfig{AccessKey: "ak", Model: "m"}).Enabled() {
		t.Error("access key without secret must not enable")
	}
}
