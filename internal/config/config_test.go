package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPPort != "8082" {
		t.Fatalf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.Timezone != "Asia/Seoul" {
		t.Fatalf("Timezone = %q", cfg.Timezone)
	}
	if cfg.SlotWindow != 10*time.Minute {
		t.Fatalf("SlotWindow = %v", cfg.SlotWindow)
	}
	if cfg.CronSecret != "" {
		t.Fatalf("CronSecret = %q, want empty by default", cfg.CronSecret)
	}
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SLOT_WINDOW", "5m")
	t.Setenv("CRON_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "memory")

	cfg := Load()
	if cfg.Timezone != "UTC" {
		t.Fatalf("Timezone = %q", cfg.Timezone)
	}
	if cfg.SlotWindow != 5*time.Minute {
		t.Fatalf("SlotWindow = %v", cfg.SlotWindow)
	}
	if cfg.CronSecret != "s3cret" || cfg.StoreBackend != "memory" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SLOT_WINDOW", "ten minutes")
	if cfg := Load(); cfg.SlotWindow != 10*time.Minute {
		t.Fatalf("SlotWindow = %v, want fallback", cfg.SlotWindow)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	if loc := Load().Location(); loc != time.UTC {
		t.Fatalf("Location = %v, want UTC", loc)
	}
}
