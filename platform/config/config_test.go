package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetSteamStoreBaseURL() != "https://store.steampowered.com" {
		t.Fatalf("unexpected base url %q", cfg.GetSteamStoreBaseURL())
	}
	if cfg.GetSteamLanguage() != "english" || cfg.GetSteamCountryCode() != "US" {
		t.Fatalf("expected english/US, got %s/%s", cfg.GetSteamLanguage(), cfg.GetSteamCountryCode())
	}
	if cfg.IsDetailsCacheEnabled() {
		t.Fatal("details cache should be off by default")
	}
	if cfg.IsPrefetchEnabled() {
		t.Fatal("prefetch should be off by default")
	}
	if cfg.GetPanelSessionIdleTTL() != 30*time.Minute {
		t.Fatalf("unexpected idle ttl %s", cfg.GetPanelSessionIdleTTL())
	}
}

func TestLoadTrimsTrailingSlashFromBaseURL(t *testing.T) {
	t.Setenv("STEAM_STORE_BASE_URL", "http://127.0.0.1:9999/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetSteamStoreBaseURL() != "http://127.0.0.1:9999" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", cfg.GetSteamStoreBaseURL())
	}
}

func TestLoadRejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("STEAM_STORE_BASE_URL", "store.steampowered.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected relative base url to be rejected")
	}
}

func TestLoadRejectsPrefetchWithoutRedis(t *testing.T) {
	t.Setenv("PREFETCH_ENABLED", "true")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected prefetch without redis to be rejected")
	}
}

func TestLoadRejectsWildcardCORSWithCredentials(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected wildcard origins with credentials to be rejected")
	}
}

func TestPrefetchNeedsRedisAndCache(t *testing.T) {
	cfg := &Config{PrefetchEnabled: true, RedisURL: "redis://localhost:6379/0"}
	if cfg.IsPrefetchEnabled() {
		t.Fatal("prefetch without a details cache has nothing to warm")
	}

	cfg.DetailsCacheTTL = time.Hour
	if !cfg.IsPrefetchEnabled() {
		t.Fatal("expected prefetch to be enabled with redis and cache")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" http://a.test, ,http://b.test ")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected split result %v", got)
	}
}
