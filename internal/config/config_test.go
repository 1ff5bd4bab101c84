package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("RANKING_STAT_SOURCE", "")
	t.Setenv("MODEL_CACHE_ENABLED", "")
	t.Setenv("SITE_MIN_MATCHES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageDriverPostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.RankingStatSource != "match_glory_stats" {
		t.Fatalf("unexpected stat source: %q", cfg.RankingStatSource)
	}
	if cfg.ModelCacheEnabled {
		t.Fatalf("expected model cache disabled by default")
	}
	if cfg.ModelCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected model cache ttl: %s", cfg.ModelCacheTTL)
	}
	if cfg.SiteMinMatches != 5 {
		t.Fatalf("unexpected site minimum matches: %d", cfg.SiteMinMatches)
	}
	if cfg.RankingMinMatches != 0 {
		t.Fatalf("unexpected ranking minimum matches: %d", cfg.RankingMinMatches)
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("memory accepted", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", " Memory ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverMemory {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("unknown rejected", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})
}

func TestLoad_StatSourceMustBeIdentifier(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("RANKING_STAT_SOURCE", "stats; drop table matches")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsafe RANKING_STAT_SOURCE")
	}
}

func TestLoad_RankingThresholds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("negative minimum rejected", func(t *testing.T) {
		t.Setenv("RANKING_MIN_MATCHES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative RANKING_MIN_MATCHES")
		}
	})

	t.Run("non numeric rejected", func(t *testing.T) {
		t.Setenv("RANKING_MIN_MATCHES", "five")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non numeric RANKING_MIN_MATCHES")
		}
	})

	t.Run("zero ingest workers rejected", func(t *testing.T) {
		t.Setenv("RANKING_MIN_MATCHES", "")
		t.Setenv("INGEST_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for INGEST_WORKERS=0")
		}
	})
}

func TestLoad_DBBreakerSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBBreakerEnabled || cfg.DBBreakerThreshold != 5 || cfg.DBBreakerOpenTimeout != 15*time.Second {
			t.Fatalf("unexpected breaker defaults: enabled=%v threshold=%d timeout=%s",
				cfg.DBBreakerEnabled, cfg.DBBreakerThreshold, cfg.DBBreakerOpenTimeout)
		}
	})

	t.Run("threshold must be positive", func(t *testing.T) {
		t.Setenv("DB_BREAKER_FAILURE_THRESHOLD", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero breaker threshold")
		}
	})
}

func TestLoad_ModelCacheParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("enabled with ttl", func(t *testing.T) {
		t.Setenv("MODEL_CACHE_ENABLED", "true")
		t.Setenv("MODEL_CACHE_TTL", "90s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.ModelCacheEnabled {
			t.Fatalf("expected ModelCacheEnabled=true")
		}
		if cfg.ModelCacheTTL != 90*time.Second {
			t.Fatalf("unexpected ModelCacheTTL: %s", cfg.ModelCacheTTL)
		}
	})

	t.Run("non positive ttl rejected", func(t *testing.T) {
		t.Setenv("MODEL_CACHE_TTL", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for MODEL_CACHE_TTL=0s")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "prometheus-rankings-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "prometheus-rankings-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
	}
	if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"debug":   "debug",
		"WARNING": "warn",
		"error":   "error",
		"":        "info",
		"verbose": "info",
	}
	for input, want := range cases {
		if got := parseLogLevel(input).String(); got != want {
			t.Fatalf("parseLogLevel(%q)=%s, want %s", input, got, want)
		}
	}
}
