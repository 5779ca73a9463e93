package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" || !cfg.App.IsDev() {
		t.Fatalf("expected dev env, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.Storage.Backend() != StorageMemory {
		t.Fatalf("expected memory backend by default, got %q", cfg.Storage.Backend())
	}
	if cfg.Catalog.Source != "data/products.json" {
		t.Fatalf("unexpected catalog source %q", cfg.Catalog.Source)
	}
	if got := cfg.Analytics.SinkNames(); len(got) != 1 || got[0] != SinkLog {
		t.Fatalf("unexpected default sinks %v", got)
	}
	if cfg.Redis.DialTimeout != 5*time.Second {
		t.Fatalf("unexpected redis dial timeout %v", cfg.Redis.DialTimeout)
	}
	if cfg.Redis.CartChannel != "cart:updated" {
		t.Fatalf("unexpected cart channel %q", cfg.Redis.CartChannel)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend() != StorageRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Storage.Backend())
	}
}

func TestLoad_SQLBackendRequiresDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "SQL")

	if _, err := Load(); err == nil {
		t.Fatal("expected sql backend without dsn to fail")
	}

	t.Setenv(EnvDBDSN, "file:storefront.db")
	t.Setenv(EnvDBDriver, "sqlite")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DB.IsSQLite() {
		t.Fatalf("expected sqlite driver")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "floppy")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}

func TestLoad_AnalyticsSinks(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvAnalyticsSinks, "log, DataLayer,log,pubsub")

	if _, err := Load(); err == nil {
		t.Fatal("expected pubsub sink without project/topic to fail")
	}

	t.Setenv(EnvGCPProjectID, "project-123")
	t.Setenv(EnvPubSubAnalyticsTopic, "analytics")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := cfg.Analytics.SinkNames()
	want := []string{SinkLog, SinkDataLayer, SinkPubSub}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	t.Setenv(EnvAnalyticsSinks, "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown sink to fail")
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCORSAllowedOrigins, "https://shop.example,https://admin.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://admin.example" {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		EnvStorageBackend, EnvDBDSN, EnvDBDriver, EnvRedisURL, EnvRedisAddr,
		EnvAnalyticsSinks, EnvGCPProjectID, EnvPubSubAnalyticsTopic, EnvCORSAllowedOrigins,
		EnvCatalogSource, EnvPort,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(EnvAppEnv, "dev")
}
