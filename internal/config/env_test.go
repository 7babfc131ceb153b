package config

import (
	"reflect"
	"testing"
)

func TestValidateEmptyConfig(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() on empty config = nil, want error")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/artintx")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TRANSLATOR", "none")
	t.Setenv("ACTIVITY_WORKERS", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := LoadConfig()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.ActivityWorkers != 2 {
		t.Errorf("ActivityWorkers = %d, want fallback 2", cfg.ActivityWorkers)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{DatabaseDriver: "sqlite", DatabaseURL: "x.db", JWTSecret: "k", Translator: "gtx"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, true},
		{"unknown translator", func(c *Config) { c.Translator = "deepl" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStorageEnabled(t *testing.T) {
	if (&Config{AwsAccessKey: "a"}).StorageEnabled() {
		t.Errorf("StorageEnabled() = true with only an access key")
	}
	if !(&Config{AwsAccessKey: "a", AwsSecretKey: "b"}).StorageEnabled() {
		t.Errorf("StorageEnabled() = false with both keys")
	}
}
