package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Upstream.APIBase != "http://localhost:5000" {
		t.Errorf("Upstream.APIBase = %q, want http://localhost:5000", cfg.Upstream.APIBase)
	}
	if cfg.Upstream.BinanceBase != "https://api.binance.com" {
		t.Errorf("Upstream.BinanceBase = %q, want https://api.binance.com", cfg.Upstream.BinanceBase)
	}
	if cfg.Watcher.PollInterval != 30*time.Second {
		t.Errorf("Watcher.PollInterval = %v, want 30s", cfg.Watcher.PollInterval)
	}
	if cfg.Watcher.FetchTimeout != 10*time.Second {
		t.Errorf("Watcher.FetchTimeout = %v, want 10s", cfg.Watcher.FetchTimeout)
	}
	if cfg.Security.APIKeyHash != "" {
		t.Errorf("Security.APIKeyHash = %q, want empty", cfg.Security.APIKeyHash)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "alerts_test")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("PRICE_RPS", "25.5")
	t.Setenv("USE_HTTPS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Name != "alerts_test" {
		t.Errorf("Database.Name = %q, want alerts_test", cfg.Database.Name)
	}
	if cfg.Watcher.PollInterval != 5*time.Second {
		t.Errorf("Watcher.PollInterval = %v, want 5s", cfg.Watcher.PollInterval)
	}
	if cfg.Watcher.FetchTimeout != 2*time.Second {
		t.Errorf("Watcher.FetchTimeout = %v, want 2s", cfg.Watcher.FetchTimeout)
	}
	if cfg.Watcher.RequestsPerSecond != 25.5 {
		t.Errorf("Watcher.RequestsPerSecond = %v, want 25.5", cfg.Watcher.RequestsPerSecond)
	}
	if !cfg.Server.UseHTTPS {
		t.Error("Server.UseHTTPS = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadInvalidEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("POLL_INTERVAL", "not-a-duration")
	t.Setenv("USE_HTTPS", "not-a-bool")
	t.Setenv("PRICE_RPS", "not-a-float")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Watcher.PollInterval != 30*time.Second {
		t.Errorf("Watcher.PollInterval = %v, want default 30s", cfg.Watcher.PollInterval)
	}
	if cfg.Server.UseHTTPS {
		t.Error("Server.UseHTTPS = true, want default false")
	}
	if cfg.Watcher.RequestsPerSecond != 10 {
		t.Errorf("Watcher.RequestsPerSecond = %v, want default 10", cfg.Watcher.RequestsPerSecond)
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port too high", map[string]string{"SERVER_PORT": "70000"}, "SERVER_PORT"},
		{"port zero", map[string]string{"SERVER_PORT": "0"}, "SERVER_PORT"},
		{"db port too high", map[string]string{"DB_PORT": "70000"}, "DB_PORT"},
		{"negative poll interval", map[string]string{"POLL_INTERVAL": "-5s"}, "POLL_INTERVAL"},
		{"negative fetch timeout", map[string]string{"FETCH_TIMEOUT": "-1s"}, "FETCH_TIMEOUT"},
		{"fetch timeout exceeds poll interval", map[string]string{"POLL_INTERVAL": "5s", "FETCH_TIMEOUT": "10s"}, "FETCH_TIMEOUT"},
		{"negative rps", map[string]string{"PRICE_RPS": "-1"}, "PRICE_RPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load: expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		Name:     "oraclex",
		User:     "svc",
		Password: "secret",
		SSLMode:  "require",
	}

	dsn := db.DSN()
	want := "host=db.example.com port=5433 user=svc password=secret dbname=oraclex sslmode=require"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}

func TestDSNWithoutPassword(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "oraclex",
		User:     "svc",
		Password: "secret",
		SSLMode:  "disable",
	}

	dsn := db.DSNWithoutPassword()
	if strings.Contains(dsn, "secret") {
		t.Errorf("DSNWithoutPassword() leaked password: %q", dsn)
	}
	if !strings.Contains(dsn, "dbname=oraclex") {
		t.Errorf("DSNWithoutPassword() missing dbname: %q", dsn)
	}
}
