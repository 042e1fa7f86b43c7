package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "STOCK_LENGTH", "MAX_STOCK_UNITS", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.StockLength != 2200 {
		t.Fatalf("expected default stock length 2200, got %d", cfg.StockLength)
	}
	if cfg.MaxStockUnits != defaultMaxStockUnits {
		t.Fatalf("unexpected max stock units: %d", cfg.MaxStockUnits)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STOCK_LENGTH", " 2400 ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_STOCK_UNITS", "50")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.StockLength != 2400 {
		t.Fatalf("expected stock length 2400, got %d", cfg.StockLength)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.MaxStockUnits != 50 {
		t.Fatalf("expected max stock units 50, got %d", cfg.MaxStockUnits)
	}
}

func TestLoadIgnoresInvalidEnvStockLength(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOCK_LENGTH", "0")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StockLength != 2200 {
		t.Fatalf("expected default stock length, got %d", cfg.StockLength)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("STOCK_LENGTH", "1800")

	path := writeConfigFile(t, `
port: "7100"
stock_length: 2440
max_stock_units: 0
write_timeout: 2s
enable_request_logging: false
rate_limit:
  rps: 3
  burst: 4
`)

	stock := uint(3050)
	cfg, err := Load(&CLIOverrides{ConfigFile: path, StockLength: &stock})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7100" {
		t.Fatalf("expected YAML port to beat env, got %s", cfg.Port)
	}
	if cfg.StockLength != 3050 {
		t.Fatalf("expected CLI stock length to win, got %d", cfg.StockLength)
	}
	if cfg.MaxStockUnits != 0 {
		t.Fatalf("expected YAML to disable max stock units, got %d", cfg.MaxStockUnits)
	}
	if cfg.WriteTimeout != 2*time.Second {
		t.Fatalf("unexpected write timeout %s", cfg.WriteTimeout)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled")
	}
	if cfg.RateLimitRPS != 3 || cfg.RateLimitBurst != 4 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadPartialRateLimitKeepsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(&CLIOverrides{ConfigFile: writeConfigFile(t, "rate_limit:\n  burst: 100\n")})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RateLimitRPS != defaultRateLimitRPS {
		t.Fatalf("expected rps to stay %v, got %v", defaultRateLimitRPS, cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 100 {
		t.Fatalf("expected burst 100, got %d", cfg.RateLimitBurst)
	}

	t.Setenv("RATE_LIMIT_BURST", "7")
	cfg, err = Load(&CLIOverrides{ConfigFile: writeConfigFile(t, "rate_limit:\n  rps: 2.5\n")})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rps 2.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 7 {
		t.Fatalf("expected env burst 7 to survive, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)

	if _, err := Load(&CLIOverrides{ConfigFile: writeConfigFile(t, "write_timeout: soon\n")}); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
	if _, err := Load(&CLIOverrides{ConfigFile: writeConfigFile(t, "port: [\n")}); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseStockLength(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := ParseStockLength(" 2200 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 2200 {
			t.Fatalf("unexpected stock length: %d", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{"", "0", "-5", "abc"} {
			if _, err := ParseStockLength(raw); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		}
	})
}
