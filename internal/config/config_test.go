package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults failed: %v", err)
	}
	if cfg.Console.NotificationDuration() != 5*time.Second {
		t.Fatalf("unexpected notification duration: %v", cfg.Console.NotificationDuration())
	}
	if cfg.Console.HideGrace() != 300*time.Millisecond || cfg.Console.RedirectDelay() != 2*time.Second {
		t.Fatalf("unexpected console timings: %+v", cfg.Console)
	}
	if cfg.Console.ListPath("category") != "/categories" {
		t.Fatalf("unexpected category list path: %s", cfg.Console.ListPath("category"))
	}
	if cfg.Catalog.Timeout() != 15*time.Second {
		t.Fatalf("unexpected catalog timeout: %v", cfg.Catalog.Timeout())
	}
}

func TestConsoleFallbacks(t *testing.T) {
	var c ConsoleConfig
	if c.NotificationDuration() != 5*time.Second || c.IdleTimeout() != 30*time.Minute {
		t.Fatalf("expected fallbacks for zero config")
	}
	if c.ListPath("product") != "/products" {
		t.Fatalf("expected derived list path, got %s", c.ListPath("product"))
	}
}
