package studioclient

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds backend connection configuration.
//
// The base address is resolved once at construction time from explicit
// values rather than inspected from ambient state: in production the
// client talks same-origin (ProdBaseURL, typically empty, meaning the
// serving origin), in development it talks to a separate origin so
// cross-site cookies work (DevBaseURL).
type Config struct {
	// BaseURL, when set, overrides Dev/Prod selection entirely.
	BaseURL string

	// DevBaseURL is used when Dev is true. Default: http://localhost:8080
	DevBaseURL string

	// ProdBaseURL is used when Dev is false.
	ProdBaseURL string

	// Dev selects the development base address.
	Dev bool

	// RequestTimeout bounds each HTTP call. Default: 30 seconds.
	RequestTimeout time.Duration
}

const defaultDevBaseURL = "http://localhost:8080"

// LoadConfig reads a Config from the environment.
// All variables are optional; unset values fall back to defaults.
//
// Recognized variables: STUDIO_BASE_URL, STUDIO_DEV_BASE_URL,
// STUDIO_PROD_BASE_URL, STUDIO_DEV, STUDIO_REQUEST_TIMEOUT.
func LoadConfig() (Config, error) {
	cfg := Config{
		BaseURL:        os.Getenv("STUDIO_BASE_URL"),
		DevBaseURL:     getEnvString("STUDIO_DEV_BASE_URL", defaultDevBaseURL),
		ProdBaseURL:    os.Getenv("STUDIO_PROD_BASE_URL"),
		Dev:            getEnvBool("STUDIO_DEV", false),
		RequestTimeout: getEnvDuration("STUDIO_REQUEST_TIMEOUT", 30*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the resolved base address is usable.
func (c Config) Validate() error {
	base := c.ResolveBaseURL()
	if base == "" {
		return fmt.Errorf("%w: no base URL resolvable (set BaseURL, or DevBaseURL/ProdBaseURL)", ErrInvalidConfig)
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("%w: base URL %q must start with http:// or https://", ErrInvalidConfig, base)
	}
	return nil
}

// ResolveBaseURL returns the backend origin this client will talk to.
// BaseURL wins when set; otherwise Dev selects DevBaseURL or ProdBaseURL.
func (c Config) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Dev {
		if c.DevBaseURL != "" {
			return c.DevBaseURL
		}
		return defaultDevBaseURL
	}
	return c.ProdBaseURL
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultVal
	}
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
