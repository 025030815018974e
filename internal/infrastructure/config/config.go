package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all gateway configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Upstream  UpstreamConfig
	Shops     ShopsConfig
	Cache     CacheConfig
	Sync      SyncConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool          // Stricter limit for the registration endpoint
	AuthRateLimitRequests int           // Max registrations per window
	AuthRateLimitWindow   time.Duration // Registration rate limit window
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// UpstreamConfig holds the legacy webservice connection settings
type UpstreamConfig struct {
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// ShopEntry is one storefront routing entry
type ShopEntry struct {
	ID      int64  `mapstructure:"id"`
	Code    string `mapstructure:"code"`
	Domain  string `mapstructure:"domain"`
	BaseURL string `mapstructure:"base_url"`
}

// ShopsConfig holds the tenant routing table
type ShopsConfig struct {
	Entries   []ShopEntry
	DefaultID int64
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	Backend       string        // memory, redis
	Capacity      int
	TTL           time.Duration // baseline entry lifetime
	TTLCategories time.Duration // categories, groups and pages; falls back to TTL
	TTLProducts   time.Duration // product listings and details; falls back to TTL
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// SyncConfig holds the customer onboarding sync settings
type SyncConfig struct {
	Secret         string           // HMAC signing key, required to enable sync
	Path           string           // sync endpoint path on the storefront host
	PendingGroupID int64            // group new registrations are parked in
	CountryGroups  map[string]int64 // country ISO -> extra group assignment
	CountryShops   map[string]int64 // country ISO -> shop routing override
	AliasHost      string           // hostname to redirect at dial time (optional)
	AliasTarget    string           // host:port the alias dials to
	Timeout        time.Duration    // outbound sync call timeout
}

// TelemetryConfig holds OpenTelemetry and profiler configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	ProfilingEnabled  bool    // Enable continuous profiling
	ProfilingAddress  string  // Pyroscope server address
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with GRIFON_ prefix (e.g., GRIFON_UPSTREAM_API_KEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("GRIFON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Upstream: UpstreamConfig{
			APIKey:      v.GetString("upstream.api_key"),
			Timeout:     v.GetDuration("upstream.timeout"),
			MaxAttempts: v.GetInt("upstream.max_attempts"),
			RetryDelay:  v.GetDuration("upstream.retry_delay"),
		},
		Shops: ShopsConfig{
			DefaultID: v.GetInt64("shops.default_id"),
		},
		Cache: CacheConfig{
			Backend:       v.GetString("cache.backend"),
			Capacity:      v.GetInt("cache.capacity"),
			TTL:           v.GetDuration("cache.ttl"),
			TTLCategories: v.GetDuration("cache.ttl_categories"),
			TTLProducts:   v.GetDuration("cache.ttl_products"),
			RedisAddr:     v.GetString("cache.redis_addr"),
			RedisPassword: v.GetString("cache.redis_password"),
			RedisDB:       v.GetInt("cache.redis_db"),
			KeyPrefix:     v.GetString("cache.key_prefix"),
		},
		Sync: SyncConfig{
			Secret:         v.GetString("sync.secret"),
			Path:           v.GetString("sync.path"),
			PendingGroupID: v.GetInt64("sync.pending_group_id"),
			AliasHost:      v.GetString("sync.alias_host"),
			AliasTarget:    v.GetString("sync.alias_target"),
			Timeout:        v.GetDuration("sync.timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			ProfilingAddress:  v.GetString("telemetry.profiling_address"),
		},
	}

	if err := v.UnmarshalKey("shops.entries", &cfg.Shops.Entries); err != nil {
		return nil, fmt.Errorf("error parsing shops.entries: %w", err)
	}
	if err := v.UnmarshalKey("sync.country_groups", &cfg.Sync.CountryGroups); err != nil {
		return nil, fmt.Errorf("error parsing sync.country_groups: %w", err)
	}
	if err := v.UnmarshalKey("sync.country_shops", &cfg.Sync.CountryShops); err != nil {
		return nil, fmt.Errorf("error parsing sync.country_shops: %w", err)
	}
	// Viper lowercases TOML table keys; country codes are matched uppercase.
	cfg.Sync.CountryGroups = upperKeys(cfg.Sync.CountryGroups)
	cfg.Sync.CountryShops = upperKeys(cfg.Sync.CountryShops)

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func upperKeys(m map[string]int64) map[string]int64 {
	if len(m) == 0 {
		return m
	}
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[strings.ToUpper(k)] = v
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "grifon-eshop-gateway"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB, requests carry no uploads
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// CORS origins have no wildcard fallback; an empty list denies
	// cross-origin requests until explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 8 * time.Second
	}
	if cfg.Upstream.MaxAttempts == 0 {
		cfg.Upstream.MaxAttempts = 3
	}
	if cfg.Upstream.RetryDelay == 0 {
		cfg.Upstream.RetryDelay = 250 * time.Millisecond
	}
	if len(cfg.Shops.Entries) == 0 {
		cfg.Shops.Entries = []ShopEntry{
			{ID: 4, Code: "GR", Domain: "grifon.gr", BaseURL: "https://grifon.gr"},
			{ID: 1, Code: "SE", Domain: "grifon.se", BaseURL: "https://grifon.se"},
		}
	}
	if cfg.Shops.DefaultID == 0 {
		cfg.Shops.DefaultID = cfg.Shops.Entries[0].ID
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 4096
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.TTLCategories == 0 {
		cfg.Cache.TTLCategories = cfg.Cache.TTL
	}
	if cfg.Cache.TTLProducts == 0 {
		cfg.Cache.TTLProducts = cfg.Cache.TTL
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "grifon"
	}
	if cfg.Sync.Path == "" {
		cfg.Sync.Path = "/module/grifonsync/customer"
	}
	if cfg.Sync.Timeout == 0 {
		cfg.Sync.Timeout = 10 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	for _, s := range c.Shops.Entries {
		if s.ID <= 0 {
			return fmt.Errorf("shops.entries: shop id must be positive, got %d", s.ID)
		}
		if s.BaseURL == "" {
			return fmt.Errorf("shops.entries: shop %d has no base_url", s.ID)
		}
		if _, err := url.Parse(s.BaseURL); err != nil {
			return fmt.Errorf("shops.entries: shop %d base_url is invalid: %w", s.ID, err)
		}
	}
	found := false
	for _, s := range c.Shops.Entries {
		if s.ID == c.Shops.DefaultID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("shops.default_id %d is not in shops.entries", c.Shops.DefaultID)
	}

	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got %q", c.Cache.Backend)
	}

	if c.App.Env == "production" {
		if c.Upstream.APIKey == "" {
			return fmt.Errorf("upstream.api_key is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}
