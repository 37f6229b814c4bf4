package navgate

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := defaultConfig()
	cfg.API.BaseURL = "https://api.example.com/api"
	return cfg
}

func TestDefaultConfigValidatesWithBaseURL(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresBaseURL(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("expected ErrMissingBaseURL, got %v", err)
	}
}

func TestValidateRejectsBadBaseURLs(t *testing.T) {
	for _, bad := range []string{
		"not a url",
		"/relative/path",
		"ftp://files.example.com",
		"https://",
	} {
		cfg := validConfig()
		cfg.API.BaseURL = bad
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBaseURL) {
			t.Fatalf("BaseURL %q: expected ErrInvalidBaseURL, got %v", bad, err)
		}
	}
}

func TestValidateRejectsUnrootedPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Paths.Login = "login"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}

	cfg = validConfig()
	cfg.Paths.Home = "home"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestValidateRejectsNegativeDurations(t *testing.T) {
	cfg := validConfig()
	cfg.API.Timeout = -time.Second
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for negative timeout, got %v", err)
	}

	cfg = validConfig()
	cfg.Interceptor.RefreshSkew = -time.Second
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for negative skew, got %v", err)
	}

	cfg = validConfig()
	cfg.Session.RedisTTL = -time.Minute
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for negative ttl, got %v", err)
	}
}
