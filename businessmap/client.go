package businessmap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/jonwraymond/boardops/cache"
	"github.com/jonwraymond/boardops/observe"
)

// Cache TTLs by operation family. Board structure changes rarely; cards
// churn constantly.
const (
	workspacesTTL = 10 * time.Minute
	boardsTTL     = 5 * time.Minute
	cardsTTL      = 30 * time.Second
)

// Config configures a Client for one instance.
type Config struct {
	// Instance is the configured instance name, attached to telemetry.
	Instance string

	// BaseURL is the API v2 root, e.g. "https://acme.kanbanize.com/api/v2".
	// Required.
	BaseURL string

	// Token is the API key, sent as the apikey header. Required; callers
	// must not log it.
	Token string

	// ReadOnly rejects every mutation with ErrReadOnly before any request
	// is sent.
	ReadOnly bool

	// DefaultWorkspaceID scopes board listings when no workspace is given.
	// Zero means no default.
	DefaultWorkspaceID int64

	// Timeout bounds each request including retries.
	// Default: 30s
	Timeout time.Duration

	// RetryCount is how many times a failed request is retried. Negative
	// disables retries.
	// Default: 2
	RetryCount int

	// RetryWaitTime is the base wait between retries.
	// Default: 500ms
	RetryWaitTime time.Duration

	// BreakerThreshold is the consecutive-failure count that opens the
	// upstream breaker.
	// Default: 5
	BreakerThreshold int

	// BreakerCooldown is how long the breaker stays open before probing.
	// Default: 30s
	BreakerCooldown time.Duration

	// CachePolicy configures the response cache. The zero value selects
	// cache.DefaultPolicy.
	CachePolicy cache.Policy

	// DisableCache turns response caching off entirely.
	DisableCache bool

	// Metrics receives API request and cache lookup telemetry.
	// Default: observe.NoopMetrics()
	Metrics observe.Metrics

	// Logger receives request logs. Tokens are never logged.
	// Default: observe.NoopLogger()
	Logger observe.Logger
}

// Client talks to one Businessmap instance.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: every call honors cancellation/deadlines.
// - Caching: reads are served from the response cache; mutations
//   invalidate the affected key prefixes before returning.
// - Errors: upstream error statuses surface as *APIError; mutations on a
//   read-only instance fail with ErrReadOnly without touching the network.
type Client struct {
	http    *resty.Client
	cache   *cache.Manager
	breaker *breaker
	metrics observe.Metrics
	logger  observe.Logger

	instance         string
	readOnly         bool
	defaultWorkspace int64
}

// NewClient creates a client for one instance. The returned client owns a
// response cache; call Close to release it.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}

	// Apply defaults
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	} else if cfg.RetryCount == 0 {
		cfg.RetryCount = 2
	}
	if cfg.RetryWaitTime <= 0 {
		cfg.RetryWaitTime = 500 * time.Millisecond
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NoopMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NoopLogger()
	}

	policy := cfg.CachePolicy
	if cfg.DisableCache {
		policy = cache.NoCachePolicy()
	} else if !policy.ShouldCache() {
		policy = cache.DefaultPolicy()
	}

	httpc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.Token).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime)

	c := &Client{
		http:             httpc,
		cache:            cache.NewManager(policy),
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
		instance:         cfg.Instance,
		readOnly:         cfg.ReadOnly,
		defaultWorkspace: cfg.DefaultWorkspaceID,
	}
	c.breaker = newBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown, func(from, to breakerState) {
		c.logger.Warn(context.Background(), "upstream breaker state changed",
			observe.Field{Key: "instance", Value: c.instance},
			observe.Field{Key: "from", Value: from.String()},
			observe.Field{Key: "to", Value: to.String()},
		)
	})
	return c, nil
}

// Instance returns the configured instance name.
func (c *Client) Instance() string {
	return c.instance
}

// ReadOnly reports whether mutations are rejected.
func (c *Client) ReadOnly() bool {
	return c.readOnly
}

// DefaultWorkspace returns the configured default workspace id, zero if none.
func (c *Client) DefaultWorkspace() int64 {
	return c.defaultWorkspace
}

// UpstreamState reports the circuit state toward this instance's API:
// "closed", "open", or "half-open".
func (c *Client) UpstreamState() string {
	return c.breaker.currentState().String()
}

// CacheStats returns a snapshot of the response cache counters.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// InvalidateCache removes cached responses matching pattern (see
// cache.Manager.Invalidate) and returns how many were removed.
func (c *Client) InvalidateCache(pattern string) (int, error) {
	return c.cache.Invalidate(pattern)
}

// Close releases the client's response cache. The client must not be used
// after Close.
func (c *Client) Close() error {
	return c.cache.Close()
}

// ListWorkspaces returns all workspaces visible to the API key.
func (c *Client) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	v, err := c.cached(ctx, "workspaces", map[string]any{"op": "list"}, workspacesTTL,
		func(ctx context.Context) (any, error) {
			var env workspacesEnvelope
			if err := c.do(ctx, "workspaces.list", http.MethodGet, "/workspaces", nil, nil, &env); err != nil {
				return nil, err
			}
			return env.Data, nil
		})
	if err != nil {
		return nil, err
	}
	return v.([]Workspace), nil
}

// ListBoards returns the boards in a workspace. A zero workspaceID falls
// back to the configured default workspace; if neither is set, all boards
// visible to the API key are returned.
func (c *Client) ListBoards(ctx context.Context, workspaceID int64) ([]Board, error) {
	if workspaceID == 0 {
		workspaceID = c.defaultWorkspace
	}
	query := map[string]string{}
	if workspaceID > 0 {
		query["workspace_ids"] = fmt.Sprintf("%d", workspaceID)
	}
	v, err := c.cached(ctx, "boards", map[string]any{"op": "list", "workspace_id": workspaceID}, boardsTTL,
		func(ctx context.Context) (any, error) {
			var env boardsEnvelope
			if err := c.do(ctx, "boards.list", http.MethodGet, "/boards", nil, query, &env); err != nil {
				return nil, err
			}
			return env.Data, nil
		})
	if err != nil {
		return nil, err
	}
	return v.([]Board), nil
}

// GetBoard returns one board by id.
func (c *Client) GetBoard(ctx context.Context, boardID int64) (*Board, error) {
	v, err := c.cached(ctx, "boards", map[string]any{"op": "get", "board_id": boardID}, boardsTTL,
		func(ctx context.Context) (any, error) {
			var env boardEnvelope
			if err := c.do(ctx, "boards.get", http.MethodGet, fmt.Sprintf("/boards/%d", boardID), nil, nil, &env); err != nil {
				return nil, err
			}
			return &env.Data, nil
		})
	if err != nil {
		return nil, err
	}
	return v.(*Board), nil
}

// ListColumns returns the columns of a board.
func (c *Client) ListColumns(ctx context.Context, boardID int64) ([]Column, error) {
	v, err := c.cached(ctx, "boards", map[string]any{"op": "columns", "board_id": boardID}, boardsTTL,
		func(ctx context.Context) (any, error) {
			var env columnsEnvelope
			if err := c.do(ctx, "boards.columns", http.MethodGet, fmt.Sprintf("/boards/%d/columns", boardID), nil, nil, &env); err != nil {
				return nil, err
			}
			return env.Data, nil
		})
	if err != nil {
		return nil, err
	}
	return v.([]Column), nil
}

// ListLanes returns the lanes of a board.
func (c *Client) ListLanes(ctx context.Context, boardID int64) ([]Lane, error) {
	v, err := c.cached(ctx, "boards", map[string]any{"op": "lanes", "board_id": boardID}, boardsTTL,
		func(ctx context.Context) (any, error) {
			var env lanesEnvelope
			if err := c.do(ctx, "boards.lanes", http.MethodGet, fmt.Sprintf("/boards/%d/lanes", boardID), nil, nil, &env); err != nil {
				return nil, err
			}
			return env.Data, nil
		})
	if err != nil {
		return nil, err
	}
	return v.([]Lane), nil
}

// ListCards returns one page of cards matching the filter.
func (c *Client) ListCards(ctx context.Context, filter CardFilter) (*CardPage, error) {
	v, err := c.cached(ctx, "cards", map[string]any{"op": "list", "filter": filter}, cardsTTL,
		func(ctx context.Context) (any, error) {
			var env cardsEnvelope
			if err := c.do(ctx, "cards.list", http.MethodGet, "/cards", nil, filter.queryParams(), &env); err != nil {
				return nil, err
			}
			page := &CardPage{Cards: env.Data}
			if env.Pagination != nil {
				page.Pagination = *env.Pagination
			}
			return page, nil
		})
	if err != nil {
		return nil, err
	}
	return v.(*CardPage), nil
}

// GetCard returns one card by id.
func (c *Client) GetCard(ctx context.Context, cardID int64) (*Card, error) {
	v, err := c.cached(ctx, "cards", map[string]any{"op": "get", "card_id": cardID}, cardsTTL,
		func(ctx context.Context) (any, error) {
			var env cardEnvelope
			if err := c.do(ctx, "cards.get", http.MethodGet, fmt.Sprintf("/cards/%d", cardID), nil, nil, &env); err != nil {
				return nil, err
			}
			return &env.Data, nil
		})
	if err != nil {
		return nil, err
	}
	return v.(*Card), nil
}

// ListComments returns the comments on a card.
func (c *Client) ListComments(ctx context.Context, cardID int64) ([]Comment, error) {
	v, err := c.cached(ctx, "cards", map[string]any{"op": "comments", "card_id": cardID}, cardsTTL,
		func(ctx context.Context) (any, error) {
			var env commentsEnvelope
			if err := c.do(ctx, "comments.list", http.MethodGet, fmt.Sprintf("/cards/%d/comments", cardID), nil, nil, &env); err != nil {
				return nil, err
			}
			return env.Data, nil
		})
	if err != nil {
		return nil, err
	}
	return v.([]Comment), nil
}

// CreateCard creates a card and invalidates cached card listings.
func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (*Card, error) {
	if c.readOnly {
		return nil, ErrReadOnly
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if req.ColumnID <= 0 {
		return nil, fmt.Errorf("%w: column_id is required", ErrInvalidRequest)
	}

	var env cardEnvelope
	if err := c.do(ctx, "cards.create", http.MethodPost, "/cards", req, nil, &env); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("cards:")
	return &env.Data, nil
}

// UpdateCard applies a partial update to a card and invalidates cached
// card responses.
func (c *Client) UpdateCard(ctx context.Context, cardID int64, req UpdateCardRequest) (*Card, error) {
	if c.readOnly {
		return nil, ErrReadOnly
	}

	var env cardEnvelope
	if err := c.do(ctx, "cards.update", http.MethodPatch, fmt.Sprintf("/cards/%d", cardID), req, nil, &env); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("cards:")
	return &env.Data, nil
}

// MoveCard moves a card to a column (and optionally a lane/position) and
// invalidates cached card responses.
func (c *Client) MoveCard(ctx context.Context, cardID int64, req MoveCardRequest) (*Card, error) {
	if c.readOnly {
		return nil, ErrReadOnly
	}
	if req.ColumnID <= 0 {
		return nil, fmt.Errorf("%w: column_id is required", ErrInvalidRequest)
	}

	var env cardEnvelope
	if err := c.do(ctx, "cards.move", http.MethodPatch, fmt.Sprintf("/cards/%d", cardID), req, nil, &env); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("cards:")
	return &env.Data, nil
}

// DeleteCard deletes a card and invalidates cached card responses.
func (c *Client) DeleteCard(ctx context.Context, cardID int64) error {
	if c.readOnly {
		return ErrReadOnly
	}

	if err := c.do(ctx, "cards.delete", http.MethodDelete, fmt.Sprintf("/cards/%d", cardID), nil, nil, nil); err != nil {
		return err
	}
	c.cache.InvalidatePrefix("cards:")
	return nil
}

// AddComment adds a comment to a card and invalidates cached card
// responses.
func (c *Client) AddComment(ctx context.Context, cardID int64, text string) (*Comment, error) {
	if c.readOnly {
		return nil, ErrReadOnly
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidRequest)
	}

	body := map[string]string{"text": text}
	var env commentEnvelope
	if err := c.do(ctx, "comments.add", http.MethodPost, fmt.Sprintf("/cards/%d/comments", cardID), body, nil, &env); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("cards:")
	return &env.Data, nil
}

// cached serves a read through the response cache and records the lookup.
// Concurrent callers for one key share a single upstream fetch; joiners
// count as hits.
func (c *Client) cached(ctx context.Context, prefix string, params any, ttl time.Duration, fetch cache.FetchFunc) (any, error) {
	key, err := cache.Key(prefix, params)
	if err != nil {
		return nil, err
	}
	fetched := false
	v, err := c.cache.GetOrFetch(ctx, key, func(fctx context.Context) (any, error) {
		fetched = true
		return fetch(fctx)
	}, ttl)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordCacheLookup(ctx, prefix, !fetched)
	return v, nil
}

// do issues one API request and records its telemetry. out, when non-nil,
// receives the decoded success payload.
func (c *Client) do(ctx context.Context, op, method, path string, body, query any, out any) error {
	if err := c.breaker.allow(); err != nil {
		c.logger.Warn(ctx, "request rejected, upstream breaker open",
			observe.Field{Key: "instance", Value: c.instance},
			observe.Field{Key: "operation", Value: op},
		)
		return err
	}

	var apiErr apiErrorBody
	req := c.http.R().
		SetContext(ctx).
		SetError(&apiErr)
	if q, ok := query.(map[string]string); ok && len(q) > 0 {
		req.SetQueryParams(q)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.metrics.RecordAPIRequest(ctx, c.instance, op, status, duration)

	if err != nil {
		c.breaker.record(true)
		c.logger.Warn(ctx, "api request failed",
			observe.Field{Key: "instance", Value: c.instance},
			observe.Field{Key: "operation", Value: op},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return &TransportError{Operation: op, Err: err}
	}

	// Server-side failures count against the breaker; caller errors do not.
	c.breaker.record(status >= http.StatusInternalServerError || status == http.StatusTooManyRequests)

	if resp.IsError() {
		c.logger.Warn(ctx, "api request failed",
			observe.Field{Key: "instance", Value: c.instance},
			observe.Field{Key: "operation", Value: op},
			observe.Field{Key: "status", Value: status},
		)
		return &APIError{Operation: op, Status: status, Message: apiErr.Error.Message}
	}

	c.logger.Debug(ctx, "api request",
		observe.Field{Key: "instance", Value: c.instance},
		observe.Field{Key: "operation", Value: op},
		observe.Field{Key: "status", Value: status},
		observe.Field{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	)
	return nil
}
