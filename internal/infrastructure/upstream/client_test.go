package upstream

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shared"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
)

func testDirectory(t *testing.T, baseURL string) *shop.Directory {
	t.Helper()
	dir, err := shop.NewDirectory([]shop.Shop{
		{ID: 4, Code: "GR", Domain: "grifon.gr", BaseURL: baseURL},
		{ID: 1, Code: "SE", Domain: "grifon.se", BaseURL: baseURL},
	}, 4)
	require.NoError(t, err)
	return dir
}

func testFactory(t *testing.T, baseURL string, cfg Config) *Factory {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Millisecond
	}
	f, err := NewFactory(cfg, testDirectory(t, baseURL))
	require.NoError(t, err)
	return f
}

type countingTransport struct {
	calls int
	err   error
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls++
	return nil, c.err
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClientInjectsTenantQuery(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "test-key", user)
		w.Write([]byte(`{"categories": []}`))
	}))
	defer srv.Close()

	lang := int64(2)
	client := testFactory(t, srv.URL, Config{}).For(shop.NewContext(4, &lang))
	_, err := client.Get(context.Background(), "categories", map[string]string{
		"limit": "0,20",
		// Callers cannot override the injection.
		"output_format": "XML",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"JSON"}, gotQuery["output_format"])
	assert.Equal(t, []string{"4"}, gotQuery["id_shop"])
	assert.Equal(t, []string{"2"}, gotQuery["language"])
	assert.Equal(t, []string{"0,20"}, gotQuery["limit"])
}

func TestClientOmitsLanguageWhenUnset(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := testFactory(t, srv.URL, Config{}).For(shop.NewContext(1, nil))
	_, err := client.Get(context.Background(), "products", nil)
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "language")
	assert.Equal(t, []string{"1"}, gotQuery["id_shop"])
}

func TestClientRetriesTransportFailures(t *testing.T) {
	rt := &countingTransport{err: &net.OpError{Op: "dial", Err: timeoutErrConnRefused{}}}
	cfg := Config{HTTPClient: &http.Client{Transport: rt}}
	client := testFactory(t, "http://upstream.invalid", cfg).For(shop.NewContext(4, nil))

	_, err := client.Get(context.Background(), "categories", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamUnreachable)
	assert.Equal(t, 3, rt.calls)
}

type timeoutErrConnRefused struct{}

func (timeoutErrConnRefused) Error() string { return "connection refused" }

func TestClientDoesNotRetryWrites(t *testing.T) {
	rt := &countingTransport{err: &net.OpError{Op: "dial", Err: timeoutErrConnRefused{}}}
	cfg := Config{HTTPClient: &http.Client{Transport: rt}}
	client := testFactory(t, "http://upstream.invalid", cfg).For(shop.NewContext(4, nil))

	_, err := client.PostXML(context.Background(), "customers", []byte("<prestashop/>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamUnreachable)
	assert.Equal(t, 1, rt.calls)
}

func TestClientMapsTimeouts(t *testing.T) {
	rt := &countingTransport{err: timeoutErr{}}
	cfg := Config{HTTPClient: &http.Client{Transport: rt}}
	client := testFactory(t, "http://upstream.invalid", cfg).For(shop.NewContext(4, nil))

	_, err := client.Get(context.Background(), "categories", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamTimeout)
	assert.Equal(t, 1, rt.calls, "timeouts are surfaced, not retried")
}

func TestClientMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := testFactory(t, srv.URL, Config{}).For(shop.NewContext(4, nil))
	_, err := client.GetByID(context.Background(), "products", 42, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClientProbesErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "errors array with message objects",
			body: `{"errors": [{"code": 127, "message": "Invalid filter"}]}`,
			want: "Invalid filter",
		},
		{
			name: "errors array of strings",
			body: `{"errors": ["plain failure"]}`,
			want: "plain failure",
		},
		{
			name: "enveloped error object",
			body: `{"prestashop": {"errors": [{"message": "bad key"}]}}`,
			want: "bad key",
		},
		{
			name: "xml error body",
			body: `<?xml version="1.0"?><prestashop><errors><error><message>xml broke</message></error></errors></prestashop>`,
			want: "xml broke",
		},
		{
			name: "unprobeable body falls back to status text",
			body: `{"something": "else"}`,
			want: "Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := testFactory(t, srv.URL, Config{}).For(shop.NewContext(4, nil))
			_, err := client.Get(context.Background(), "categories", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrUpstreamUnreachable)

			var gwErr *shared.GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tt.want, gwErr.Message)
		})
	}
}

func TestClientNoRetryOnHTTPErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := testFactory(t, srv.URL, Config{}).For(shop.NewContext(4, nil))
	_, err := client.Get(context.Background(), "categories", nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
