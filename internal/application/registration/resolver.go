package registration

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SyncEndpoint resolves the sync URL for a storefront. The shop base URL
// points at the webservice root, which may carry an /api suffix; the sync
// module lives on the storefront host itself, so the suffix is stripped
// before joining the sync path.
func SyncEndpoint(baseURL, syncPath string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("registration: invalid base url %q: %w", baseURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("registration: base url %q has no host", baseURL)
	}
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api")
	u.Path = u.Path + "/" + strings.TrimLeft(syncPath, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// NewSyncHTTPClient builds the HTTP client for sync calls. When aliasHost is
// configured, dials to that hostname are redirected to aliasTarget, which
// lets the gateway reach a storefront whose public DNS points elsewhere
// (split-horizon setups behind the storefront CDN).
func NewSyncHTTPClient(aliasHost, aliasTarget string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if aliasHost != "" && aliasTarget != "" {
		dialer := &net.Dialer{Timeout: 10 * time.Second}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err == nil && strings.EqualFold(host, aliasHost) {
				target := aliasTarget
				if _, _, err := net.SplitHostPort(target); err != nil {
					target = net.JoinHostPort(target, port)
				}
				addr = target
			}
			return dialer.DialContext(ctx, network, addr)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
