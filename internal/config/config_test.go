package config

import (
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/cleanmind/internal/core"
)

func validConfig() *Config {
	return &Config{
		Backend:  BackendConfig{URL: "http://127.0.0.1:8000"},
		Server:   ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload:   UploadConfig{MaxFileSize: 1},
		Notify:   NotifyConfig{Duration: 3 * time.Second},
		Session:  SessionConfig{TTL: time.Hour, CleanupInterval: time.Minute},
		Rate:     RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Cleaning: CleaningConfig{ImputeStrategy: "median", OutlierThreshold: 3},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("API_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.URL != "http://127.0.0.1:8000" {
		t.Errorf("Backend.URL = %q, want %q", cfg.Backend.URL, "http://127.0.0.1:8000")
	}
	if cfg.Backend.Timeout != 0 {
		t.Errorf("Backend.Timeout = %v, want 0", cfg.Backend.Timeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Notify.Duration != 3*time.Second {
		t.Errorf("Notify.Duration = %v, want %v", cfg.Notify.Duration, 3*time.Second)
	}
	if cfg.Upload.MaxFileSize != 104857600 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 104857600)
	}
	if cfg.Cleaning.SendOptions {
		t.Error("Cleaning.SendOptions should default to false")
	}
	if cfg.Cleaning.OutlierThreshold != 3 {
		t.Errorf("Cleaning.OutlierThreshold = %v, want 3", cfg.Cleaning.OutlierThreshold)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://cleaner:9000")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CLEAN_IMPUTE_STRATEGY", "mode")
	t.Setenv("CLEAN_OUTLIER_ZSCORE", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.URL != "http://cleaner:9000" {
		t.Errorf("Backend.URL = %q, want %q", cfg.Backend.URL, "http://cleaner:9000")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Cleaning.ImputeStrategy != "mode" {
		t.Errorf("Cleaning.ImputeStrategy = %q, want %q", cfg.Cleaning.ImputeStrategy, "mode")
	}
	if cfg.Cleaning.OutlierThreshold != 2.5 {
		t.Errorf("Cleaning.OutlierThreshold = %v, want 2.5", cfg.Cleaning.OutlierThreshold)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("API_BASE_URL", "http://legacy:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.URL != "http://legacy:8000" {
		t.Errorf("Backend.URL = %q, want %q", cfg.Backend.URL, "http://legacy:8000")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("NOTIFY_DURATION", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "NOTIFY_DURATION") {
		t.Errorf("error should mention NOTIFY_DURATION: %v", err)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"relative backend url", func(c *Config) { c.Backend.URL = "/datasets" }, "BACKEND_URL"},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero notify duration", func(c *Config) { c.Notify.Duration = 0 }, "NOTIFY_DURATION"},
		{"unknown strategy", func(c *Config) { c.Cleaning.ImputeStrategy = "max" }, "CLEAN_IMPUTE_STRATEGY"},
		{"api key required without keys", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"topsecret"}

	str := cfg.String()
	if strings.Contains(str, "topsecret") {
		t.Error("String() should mask API keys")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

func TestCleaningOptions(t *testing.T) {
	c := CleaningConfig{
		DropDuplicates:   true,
		ImputeStrategy:   "mode",
		RemoveOutliers:   false,
		OutlierThreshold: 2.5,
	}
	if c.Options() != nil {
		t.Fatal("Options() should be nil unless SendOptions is set")
	}

	c.SendOptions = true
	opts := c.Options()
	if opts == nil {
		t.Fatal("Options() = nil with SendOptions set")
	}
	if opts.ImputeStrategy != core.ImputeMode || opts.OutlierZScoreThreshold != 2.5 || !opts.DropDuplicates || opts.RemoveOutliers {
		t.Errorf("Options() = %+v", *opts)
	}
}
