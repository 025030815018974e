package upstream

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Defaults for the legacy webservice client.
const (
	// DefaultMaxAttempts is the number of GET attempts before the upstream
	// is reported unreachable.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the base of the linear backoff (attempt × delay).
	DefaultRetryDelay = 250 * time.Millisecond
	// DefaultTimeout bounds one webservice call end to end.
	DefaultTimeout = 8 * time.Second

	// maxResponseSize caps how much of an upstream body is read (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// Config holds the tenant-independent part of the webservice client: the
// API key shared by all shops plus transport settings. Per-tenant base URLs
// come from the shop directory at construction time.
type Config struct {
	// APIKey is the webservice key, sent as basic-auth username with an
	// empty password.
	APIKey string
	// Timeout bounds a single outbound call.
	Timeout time.Duration
	// MaxAttempts is the GET retry budget (total attempts, not extra tries).
	MaxAttempts int
	// RetryDelay is the linear backoff base.
	RetryDelay time.Duration
	// HTTPClient optionally shares a transport between clients. When nil a
	// client with Timeout is created per Client.
	HTTPClient *http.Client
	// Logger for request-level diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// ErrMissingAPIKey indicates the webservice key was not configured.
var ErrMissingAPIKey = errors.New("upstream: api key is required")

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return nil
}
