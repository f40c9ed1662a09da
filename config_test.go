package studioclient

import (
	"errors"
	"testing"
	"time"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit base wins", Config{BaseURL: "https://api.example.com", Dev: true, DevBaseURL: "http://localhost:8080"}, "https://api.example.com"},
		{"dev selects dev base", Config{Dev: true, DevBaseURL: "http://localhost:8080", ProdBaseURL: "https://studio.example.com"}, "http://localhost:8080"},
		{"dev falls back to default", Config{Dev: true}, "http://localhost:8080"},
		{"prod selects prod base", Config{ProdBaseURL: "https://studio.example.com", DevBaseURL: "http://localhost:8080"}, "https://studio.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveBaseURL(); got != tt.want {
				t.Errorf("ResolveBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty prod config: err = %v, want ErrInvalidConfig", err)
	}
	if err := (Config{BaseURL: "ftp://weird"}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("non-http scheme: err = %v, want ErrInvalidConfig", err)
	}
	if err := (Config{BaseURL: "https://studio.example.com"}).Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STUDIO_BASE_URL", "")
	t.Setenv("STUDIO_DEV_BASE_URL", "")
	t.Setenv("STUDIO_PROD_BASE_URL", "")
	t.Setenv("STUDIO_DEV", "true")
	t.Setenv("STUDIO_REQUEST_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ResolveBaseURL() != "http://localhost:8080" {
		t.Errorf("base = %q", cfg.ResolveBaseURL())
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STUDIO_BASE_URL", "https://api.example.com")
	t.Setenv("STUDIO_DEV", "false")
	t.Setenv("STUDIO_REQUEST_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ResolveBaseURL() != "https://api.example.com" {
		t.Errorf("base = %q", cfg.ResolveBaseURL())
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
}
