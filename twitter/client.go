package twitter

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/twitterkit/httpclient"
	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/provider"
	"github.com/kbukum/twitterkit/security"
)

// Client sends requests through its Configuration's middleware stack.
// It is safe for concurrent requests; Configure and Reset must not run
// concurrently with them.
type Client struct {
	config    *Configuration
	log       *logger.Logger
	rateLimit *RateLimit
	transport http.RoundTripper

	mu      sync.Mutex
	adapter *httpclient.Adapter
}

// Option configures a Client.
type Option func(*Client)

// WithEnv sets the lookup used for credential defaults. The default is
// the process environment.
func WithEnv(env EnvLookup) Option {
	return func(c *Client) { c.config = NewConfiguration(env) }
}

// WithConfiguration gives the client its own copy of cfg.
func WithConfiguration(cfg *Configuration) Option {
	return func(c *Client) { c.config = cfg.Clone() }
}

// WithLogger sets the logger. The default is the global logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log.WithComponent("twitter") }
}

// WithTransport replaces the HTTP round tripper under the adapter.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithRateLimit records rate-limit state into rl instead of DefaultRateLimit.
func WithRateLimit(rl *RateLimit) Option {
	return func(c *Client) { c.rateLimit = rl }
}

// NewClient creates a client with a reset configuration.
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.config == nil {
		c.config = NewConfiguration(os.LookupEnv)
	}
	if c.log == nil {
		c.log = logger.WithComponent("twitter")
	}
	if c.rateLimit == nil {
		c.rateLimit = DefaultRateLimit
	}
	return c
}

// Configuration returns the live configuration. Prefer Configure for
// changes so the transport is rebuilt.
func (c *Client) Configuration() *Configuration {
	return c.config
}

// Configure applies fn to the configuration and drops the cached transport.
func (c *Client) Configure(fn func(*Configuration)) *Configuration {
	c.config.Configure(fn)
	c.invalidate()
	return c.config
}

// Reset restores the default configuration and drops the cached transport.
func (c *Client) Reset() *Configuration {
	c.config.Reset()
	c.invalidate()
	return c.config
}

// Options returns a snapshot of the configuration.
func (c *Client) Options() map[string]any {
	return c.config.Options()
}

// RateLimit returns the latest rate-limit observation for this client.
func (c *Client) RateLimit() RateLimitInfo {
	return c.rateLimit.Get()
}

// Get sends a GET request; params become the query string.
func (c *Client) Get(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodGet, path, params))
}

// Post sends a POST request; params become a form or multipart body.
func (c *Client) Post(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPost, path, params))
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodDelete, path, params))
}

// Upload posts params, usually holding a file, to path on the media endpoint.
func (c *Client) Upload(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPost, c.mediaURL(path), params))
}

func (c *Client) mediaURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.config.MediaEndpoint, "/") + "/" + strings.TrimLeft(path, "/")
}

// Do sends req through the middleware stack. On a classified failure the
// response is returned together with the error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	r := req.Clone()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Raw = c.config.ConnectionOptions.Raw

	adapter, err := c.getAdapter()
	if err != nil {
		return nil, newTransportError(err)
	}

	handler := c.config.Middleware.Build(c.transportHandler(adapter))

	start := time.Now()
	resp, err := handler.Execute(ContextWithRateLimit(ctx, c.rateLimit), r)
	c.logResult(r, resp, err, time.Since(start))
	return resp, err
}

// transportHandler is the innermost handler: it hands the encoded
// request to the transport and wraps the raw reply.
func (c *Client) transportHandler(transport provider.RequestResponse[httpclient.Request, *httpclient.Response]) Handler {
	return NewHandler("twitter", func(ctx context.Context, req *Request) (*Response, error) {
		hreq := httpclient.Request{
			Method: req.Method,
			Path:   req.Path,
			Header: req.Header,
			Body:   req.Body,
		}
		if req.Body == nil && len(req.Params) > 0 {
			query, err := encodeValues(req.Params)
			if err != nil {
				return nil, newTransportError(fmt.Errorf("encode query: %w", err))
			}
			hreq.Query = query
		}

		hresp, err := transport.Execute(ctx, hreq)
		if err != nil {
			return nil, newTransportError(err)
		}
		return &Response{
			StatusCode: hresp.StatusCode,
			Header:     hresp.Header,
			Body:       hresp.Body,
			Request:    req,
		}, nil
	})
}

func (c *Client) getAdapter() (*httpclient.Adapter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adapter != nil {
		return c.adapter, nil
	}

	cfg := c.config
	hc := httpclient.Config{
		Name:        "twitter",
		BaseURL:     cfg.Endpoint,
		Timeout:     cfg.ConnectionOptions.Timeout,
		OpenTimeout: cfg.ConnectionOptions.OpenTimeout,
		TLS:         security.FromVerify(cfg.ConnectionOptions.SSL.Verify),
		Headers:     maps.Clone(cfg.ConnectionOptions.Headers),
		Transport:   c.transport,
	}
	switch {
	case cfg.HasCredentials():
		hc.Auth = httpclient.OAuth1Auth(cfg.ConsumerKey, cfg.ConsumerSecret, cfg.OAuthToken, cfg.OAuthTokenSecret)
	case cfg.HasBearerToken():
		hc.Auth = httpclient.BearerAuth(cfg.BearerToken)
	}

	adapter, err := httpclient.New(hc)
	if err != nil {
		return nil, err
	}
	c.adapter = adapter
	return adapter, nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adapter != nil {
		_ = c.adapter.Close(context.Background())
		c.adapter = nil
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.invalidate()
	return nil
}

func (c *Client) logResult(req *Request, resp *Response, err error, d time.Duration) {
	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldRequestID, req.ID,
		logger.FieldMethod, req.Method,
		logger.FieldPath, req.Path,
	), d)
	if resp != nil {
		fields[logger.FieldStatus] = resp.StatusCode
	}
	if info := c.rateLimit.Get(); info.Known() {
		fields[logger.FieldRemaining] = info.Remaining
	}

	if err != nil {
		fields[logger.FieldError] = err.Error()
		c.log.Warn("twitter request failed", fields)
		return
	}
	c.log.Debug("twitter request", fields)
}
