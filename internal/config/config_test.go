package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %s", cfg.HTTP.Addr)
	}
	if cfg.Lifecycle.AcceptDelay != 4*time.Second {
		t.Errorf("accept delay = %s", cfg.Lifecycle.AcceptDelay)
	}
	if cfg.Lifecycle.SegmentStep != 0.2 {
		t.Errorf("segment step = %f", cfg.Lifecycle.SegmentStep)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KART_HTTP_ADDR", ":9999")
	t.Setenv("KART_ACCEPT_DELAY", "250ms")
	t.Setenv("KART_SEGMENT_STEP", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("addr = %s", cfg.HTTP.Addr)
	}
	if cfg.Lifecycle.AcceptDelay != 250*time.Millisecond {
		t.Errorf("accept delay = %s", cfg.Lifecycle.AcceptDelay)
	}
	if cfg.Lifecycle.SegmentStep != 0.5 {
		t.Errorf("segment step = %f", cfg.Lifecycle.SegmentStep)
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("KART_PREPARE_DELAY", "soon")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Lifecycle.PrepareDelay != 8*time.Second {
		t.Errorf("prepare delay = %s, want default", cfg.Lifecycle.PrepareDelay)
	}
}
