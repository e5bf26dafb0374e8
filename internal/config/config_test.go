package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LISTING_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,,")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ListingTTL != 720*time.Hour {
		t.Errorf("ListingTTL = %v, want 720h fallback", cfg.ListingTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.EmissionFactorKwh != 0.85 || cfg.CombustionPpmToKgFactor != 0.0018 {
		t.Errorf("unexpected emission defaults: %v %v", cfg.EmissionFactorKwh, cfg.CombustionPpmToKgFactor)
	}
	if cfg.MarketplaceMinPricePerKg != 5 {
		t.Errorf("MarketplaceMinPricePerKg = %v", cfg.MarketplaceMinPricePerKg)
	}
}

func TestStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	if !Load().UsesMemoryStore() {
		t.Fatal("expected memory store")
	}
}
