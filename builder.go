package navgate

import (
	"net/http"
	"net/http/cookiejar"

	"github.com/redis/go-redis/v9"

	"github.com/navgate/navgate/api"
	"github.com/navgate/navgate/guard"
	"github.com/navgate/navgate/intercept"
	"github.com/navgate/navgate/internal/diag"
	"github.com/navgate/navgate/internal/metrics"
	"github.com/navgate/navgate/session"
	"github.com/navgate/navgate/storage"
)

// Builder assembles a [Core]. Builder methods only record intent; all
// validation and wiring happens in [Builder.Build], and a Builder produces
// exactly one Core.
type Builder struct {
	config Config

	httpClient *http.Client
	tab        storage.TabStore
	redis      redis.UniversalClient
	nav        Navigator
	sink       DiagSink
	creds      Credentials
	tokens     TokenSource
	routes     []Route

	built bool
}

// New returns a Builder loaded with defaults. Set at least the API base
// URL before calling Build.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the identity backend root.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient supplies the http.Client used for identity calls. Its
// cookie jar, transport, and timeout are shared with the recovering
// client Build produces. When omitted, Build creates a client with an
// in-memory cookie jar.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithTabStore supplies the durable per-tab store backing the session
// cache. Defaults to an in-memory store scoped to the Core.
func (b *Builder) WithTabStore(tab storage.TabStore) *Builder {
	b.tab = tab
	return b
}

// WithRedis backs the durable store with Redis using the configured
// Session.RedisPrefix and Session.RedisTTL. Ignored when WithTabStore was
// also called; an explicit store wins.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithNavigator supplies the router hook guards and the interceptor
// redirect through. Without one, denied navigations still return their
// Decision but nothing is navigated on refresh failure.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.nav = nav
	return b
}

// WithDiagSink supplies the diagnostic sink and enables the dispatcher.
func (b *Builder) WithDiagSink(sink DiagSink) *Builder {
	b.sink = sink
	b.config.Diag.Enabled = true
	return b
}

// WithCredentials supplies per-request credentials for header-token
// deployments. Cookie deployments need none.
func (b *Builder) WithCredentials(creds Credentials) *Builder {
	b.creds = creds
	return b
}

// WithTokenSource supplies the access-token reader for proactive refresh
// and enables it.
func (b *Builder) WithTokenSource(tokens TokenSource) *Builder {
	b.tokens = tokens
	b.config.Interceptor.ProactiveRefresh = true
	return b
}

// WithRoutes registers the role-annotated route table. Role metadata is
// validated during Build; an unknown role fails construction.
func (b *Builder) WithRoutes(routes ...Route) *Builder {
	b.routes = append(b.routes, routes...)
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the fetch-latency histogram. Implies
// nothing unless metrics are enabled too.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires every component, and returns
// the Core. The route table is validated here, so a typo'd role is a
// construction error rather than a silent runtime allow.
func (b *Builder) Build() (*Core, error) {
	if b.built {
		return nil, ErrBuilderReused
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	routes, err := guard.NewRouteTable(b.routes)
	if err != nil {
		return nil, err
	}

	dispatcher := diag.NewDispatcher(diag.Config{
		Enabled:    cfg.Diag.Enabled,
		BufferSize: cfg.Diag.BufferSize,
		DropIfFull: cfg.Diag.DropIfFull,
	}, b.sink)

	m := metrics.New(metrics.Config{
		Enabled:       cfg.Metrics.Enabled,
		EnableLatency: cfg.Metrics.EnableLatencyHistograms,
	})

	tab := b.tab
	if tab == nil && b.redis != nil {
		tab = storage.NewRedis(b.redis, cfg.Session.RedisPrefix, cfg.Session.RedisTTL)
	}
	if tab == nil {
		tab = storage.NewMemory()
	}

	// The api.Client runs on an unwrapped client: the refresh endpoint
	// must never pass through the recovering transport.
	plain := b.httpClient
	if plain == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		plain = &http.Client{
			Jar:     jar,
			Timeout: cfg.API.Timeout,
		}
	}
	apiClient := api.NewClient(cfg.API.BaseURL, plain)

	store := session.NewStore(apiClient, tab, session.Options{
		Key:              cfg.Session.StorageKey,
		SubscriberBuffer: cfg.Session.SubscriberBuffer,
		Diag:             dispatcher,
		Metrics:          m,
	})

	transport := intercept.NewTransport(apiClient, store, b.nav, intercept.Options{
		Base:             plain.Transport,
		LoginPath:        cfg.Paths.Login,
		Credentials:      b.creds,
		ProactiveRefresh: cfg.Interceptor.ProactiveRefresh && b.tokens != nil,
		Tokens:           b.tokens,
		RefreshSkew:      cfg.Interceptor.RefreshSkew,
		Diag:             dispatcher,
		Metrics:          m,
	})

	// The recovering client shares the jar, so a cookie renewed by the
	// refresh call is immediately visible to the replay.
	wrapped := &http.Client{
		Transport: transport,
		Jar:       plain.Jar,
		Timeout:   plain.Timeout,
	}

	guardOpts := guard.Options{
		LoginPath: cfg.Paths.Login,
		HomePath:  cfg.Paths.Home,
		Diag:      dispatcher,
		Metrics:   m,
	}

	b.built = true

	return &Core{
		config:    cfg,
		store:     store,
		api:       apiClient,
		http:      wrapped,
		transport: transport,
		routes:    routes,
		guardOpts: guardOpts,
		nav:       b.nav,
		diag:      dispatcher,
		metrics:   m,
	}, nil
}
