package businessmap

import (
	"errors"
	"sync"
	"time"

	"github.com/jonwraymond/boardops/cache"
	"github.com/jonwraymond/boardops/instance"
	"github.com/jonwraymond/boardops/observe"
)

// FactoryConfig configures a Factory.
type FactoryConfig struct {
	// Instances resolves instance names to connection settings. Required.
	Instances *instance.Manager

	// Timeout, RetryCount and RetryWaitTime are forwarded to every client
	// the factory builds. Zero values select the client defaults.
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration

	// BreakerThreshold and BreakerCooldown are forwarded to every client.
	// Zero values select the client defaults.
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// CachePolicy is forwarded to every client. The zero value selects
	// cache.DefaultPolicy.
	CachePolicy cache.Policy

	// DisableCache turns response caching off for every client.
	DisableCache bool

	// Metrics receives telemetry from every client.
	// Default: observe.NoopMetrics()
	Metrics observe.Metrics

	// Logger receives request logs from every client.
	// Default: observe.NoopLogger()
	Logger observe.Logger
}

// Factory builds and caches one Client per configured instance.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Identity: repeated calls for the same resolved instance return the
//   same client; distinct instances get distinct clients with private
//   response caches.
// - Lifecycle: Close closes every cached client.
type Factory struct {
	cfg FactoryConfig

	mu      sync.Mutex
	clients map[string]*Client
	closed  bool
}

// NewFactory creates a factory over a loaded instance manager.
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if cfg.Instances == nil {
		return nil, ErrNilManager
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NoopMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NoopLogger()
	}
	return &Factory{
		cfg:     cfg,
		clients: make(map[string]*Client),
	}, nil
}

// ClientFor returns the client for the named instance, building it on
// first use. An empty name selects the default instance. Token loading is
// fail-fast: a missing or empty credential surfaces here, not on first
// request.
func (f *Factory) ClientFor(name string) (*Client, error) {
	res, err := f.cfg.Instances.Resolve(name)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrFactoryClosed
	}

	// Key by the resolved name so "" and the default instance's own name
	// share one client.
	if c, ok := f.clients[res.Instance.Name]; ok {
		return c, nil
	}

	c, err := NewClient(Config{
		Instance:           res.Instance.Name,
		BaseURL:            res.Instance.APIURL,
		Token:              res.Token,
		ReadOnly:           res.Instance.ReadOnlyMode,
		DefaultWorkspaceID: res.Instance.DefaultWorkspaceID,
		Timeout:            f.cfg.Timeout,
		RetryCount:         f.cfg.RetryCount,
		RetryWaitTime:      f.cfg.RetryWaitTime,
		BreakerThreshold:   f.cfg.BreakerThreshold,
		BreakerCooldown:    f.cfg.BreakerCooldown,
		CachePolicy:        f.cfg.CachePolicy,
		DisableCache:       f.cfg.DisableCache,
		Metrics:            f.cfg.Metrics,
		Logger:             f.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	f.clients[res.Instance.Name] = c
	return c, nil
}

// Instances lists the configured instances.
func (f *Factory) Instances() ([]instance.Instance, error) {
	return f.cfg.Instances.Instances()
}

// Close closes every cached client. The factory must not be used after
// Close.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	for _, c := range f.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.clients = nil
	return errors.Join(errs...)
}
