package upstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shared"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
)

// Client talks to one tenant of the legacy commerce webservice. Every call
// carries the tenant and language injection, asks for JSON output, and
// authenticates with the webservice key as basic-auth username.
type Client struct {
	baseURL     string
	apiKey      string
	shop        shop.Context
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
	logger      *zap.Logger
}

// Factory builds per-tenant clients from the shop directory. Handlers
// resolve the tenant per request, so clients are cheap to construct and
// share one HTTP transport.
type Factory struct {
	cfg Config
	dir *shop.Directory
}

// NewFactory validates the config once and binds it to the directory.
func NewFactory(cfg Config, dir *shop.Directory) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Factory{cfg: cfg, dir: dir}, nil
}

// For returns a client bound to the given tenant context.
func (f *Factory) For(sc shop.Context) *Client {
	return &Client{
		baseURL:     strings.TrimRight(f.dir.BaseURL(sc.ShopID), "/"),
		apiKey:      f.cfg.APIKey,
		shop:        sc,
		httpClient:  f.cfg.HTTPClient,
		maxAttempts: f.cfg.MaxAttempts,
		retryDelay:  f.cfg.RetryDelay,
		logger:      f.cfg.Logger,
	}
}

// Get fetches a collection resource. Transport failures are retried with
// linear backoff up to the attempt budget; HTTP error statuses are never
// retried.
func (c *Client) Get(ctx context.Context, resource string, params map[string]string) (map[string]any, error) {
	return c.request(ctx, http.MethodGet, resource, params, nil, c.maxAttempts)
}

// GetByID fetches a single entity. Same retry policy as Get.
func (c *Client) GetByID(ctx context.Context, resource string, id int64, params map[string]string) (map[string]any, error) {
	path := resource + "/" + strconv.FormatInt(id, 10)
	return c.request(ctx, http.MethodGet, path, params, nil, c.maxAttempts)
}

// PostXML submits an XML document to a resource. Writes are never retried;
// the caller owns idempotency.
func (c *Client) PostXML(ctx context.Context, resource string, body []byte) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, resource, nil, body, 1)
}

func (c *Client) request(ctx context.Context, method, path string, params map[string]string, body []byte, attempts int) (map[string]any, error) {
	u, err := c.buildURL(path, params)
	if err != nil {
		return nil, shared.ErrUpstreamUnreachable.WithCause(err)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, err := c.do(ctx, method, u, body)
		if err == nil {
			return payload, nil
		}
		var netErr *transportError
		if !errors.As(err, &netErr) {
			return nil, err
		}
		lastErr = netErr.cause
		c.logger.Warn("upstream transport failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int64("shop_id", c.shop.ShopID),
			zap.Int("attempt", attempt),
			zap.Error(netErr.cause))
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, shared.ErrUpstreamUnreachable.WithCause(ctx.Err())
		case <-time.After(time.Duration(attempt) * c.retryDelay):
		}
	}
	return nil, shared.ErrUpstreamUnreachable.
		WithDetail("%s %s failed after %d attempts", method, path, attempts).
		WithCause(lastErr)
}

func (c *Client) do(ctx context.Context, method, u string, body []byte) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, shared.ErrUpstreamUnreachable.WithCause(err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, shared.ErrUpstreamTimeout.WithCause(err)
		}
		return nil, &transportError{cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return nil, shared.ErrUpstreamTimeout.WithCause(err)
		}
		return nil, &transportError{cause: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp.StatusCode, raw)
	}

	payload, err := decodeBody(raw)
	if err != nil {
		return nil, shared.ErrUpstreamUnreachable.
			WithDetail("unreadable upstream response").
			WithCause(err)
	}
	return payload, nil
}

// statusError turns a non-2xx response into a gateway error, probing the
// body for the webservice's nested error envelopes first.
func (c *Client) statusError(status int, raw []byte) error {
	msg := ""
	if payload, err := decodeBody(raw); err == nil {
		msg = probeErrorMessage(payload)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "upstream request failed"
	}
	return shared.Upstreamf("%s", msg).WithDetail("upstream status %d", status)
}

func (c *Client) buildURL(path string, params map[string]string) (string, error) {
	base, err := url.Parse(c.baseURL + "/api/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", err
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	// Injection wins over caller-supplied values.
	q.Set("output_format", "JSON")
	q.Set("id_shop", strconv.FormatInt(c.shop.ShopID, 10))
	if c.shop.LanguageID != nil {
		q.Set("language", strconv.FormatInt(*c.shop.LanguageID, 10))
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// transportError marks failures where no HTTP response was produced; only
// these are retried.
type transportError struct {
	cause error
}

func (e *transportError) Error() string { return "upstream transport: " + e.cause.Error() }
func (e *transportError) Unwrap() error { return e.cause }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
