package navgate

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/navgate/navgate/guard"
	"github.com/navgate/navgate/session"
)

// Config is the full configuration tree consumed by [Builder.Build]. The
// zero value is not usable; start from the Builder's defaults (or
// [Builder.WithConfig] over a hand-built tree) and set API.BaseURL.
type Config struct {
	API         APIConfig
	Paths       PathsConfig
	Session     SessionConfig
	Interceptor InterceptorConfig
	Diag        DiagConfig
	Metrics     MetricsConfig
}

// APIConfig locates the identity backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://api.example.com/api".
	// Endpoint paths (/auth/me, /auth/refresh, ...) are appended to it.
	BaseURL string

	// Timeout applies to the default http.Client built when none is
	// supplied. Ignored when the host provides its own client.
	Timeout time.Duration
}

// PathsConfig names the routes guards and the interceptor redirect to.
type PathsConfig struct {
	// Login is where denied or expired navigations are sent.
	Login string

	// Home is where authenticated-but-under-privileged navigations are
	// sent.
	Home string
}

// SessionConfig tunes the session store.
type SessionConfig struct {
	// StorageKey is the durable-store key holding the serialized
	// session. Defaults to session.DefaultKey.
	StorageKey string

	// SubscriberBuffer is the per-subscriber channel capacity.
	SubscriberBuffer int

	// RedisPrefix and RedisTTL apply only when the durable store is
	// wired through [Builder.WithRedis].
	RedisPrefix string
	RedisTTL    time.Duration
}

// InterceptorConfig tunes the recovering transport. The zero value is the
// contract behavior: reactive recovery on 401 only.
type InterceptorConfig struct {
	// ProactiveRefresh refreshes before sending a request whose access
	// token is already expired. Requires a TokenSource on the Builder.
	ProactiveRefresh bool

	// RefreshSkew shifts the proactive expiry check earlier to absorb
	// clock drift.
	RefreshSkew time.Duration
}

// DiagConfig controls the diagnostic dispatcher.
type DiagConfig struct {
	Enabled    bool
	BufferSize int

	// DropIfFull drops events under backpressure instead of blocking
	// the emitting operation.
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout: 30 * time.Second,
		},
		Paths: PathsConfig{
			Login: guard.DefaultLoginPath,
			Home:  guard.DefaultHomePath,
		},
		Session: SessionConfig{
			StorageKey:       session.DefaultKey,
			SubscriberBuffer: 8,
			RedisPrefix:      "navgate",
		},
		Diag: DiagConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// Validate checks the tree for values Build cannot work with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}

	for _, p := range []string{c.Paths.Login, c.Paths.Home} {
		if p != "" && !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: negative API.Timeout", ErrInvalidConfig)
	}
	if c.Session.SubscriberBuffer < 0 {
		return fmt.Errorf("%w: negative Session.SubscriberBuffer", ErrInvalidConfig)
	}
	if c.Session.RedisTTL < 0 {
		return fmt.Errorf("%w: negative Session.RedisTTL", ErrInvalidConfig)
	}
	if c.Interceptor.RefreshSkew < 0 {
		return fmt.Errorf("%w: negative Interceptor.RefreshSkew", ErrInvalidConfig)
	}
	if c.Diag.Enabled && c.Diag.BufferSize < 0 {
		return fmt.Errorf("%w: negative Diag.BufferSize", ErrInvalidConfig)
	}

	return nil
}
