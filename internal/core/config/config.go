package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// EnvironmentDevelopment is the APP_ENV value that relaxes storefront authentication.
const EnvironmentDevelopment = "development"

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	// Only an explicit "development" relaxes authentication.
	Environment string `mapstructure:"APP_ENV" default:"production"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// AdminToken is a static bearer token for the settings endpoints of every shop.
	// Empty leaves Shopify session tokens as the only way in.
	AdminToken string `mapstructure:"ADMIN_API_TOKEN"`
	// TrustedProxies lists the peers (IPs or CIDRs, comma separated) whose X-Forwarded-For
	// is honoured. Empty honours the header from any peer.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// Shopify holds the app credentials and Admin API settings.
	Shopify ShopifyConfig `mapstructure:",squash"`

	// Redis holds the connection used for sessions and settings.
	Redis RedisConfig `mapstructure:",squash"`

	// Database holds the optional Postgres settings store.
	Database DatabaseConfig `mapstructure:",squash"`

	// RateLimit bounds anonymous lookups per client.
	RateLimit RateLimitConfig `mapstructure:",squash"`

	// Proxy configures an optional egress proxy for Shopify calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// ShopifyConfig holds the credentials of the Shopify app.
type ShopifyConfig struct {
	// APIKey is the app client id.
	APIKey string `mapstructure:"SHOPIFY_API_KEY" required:"true"`
	// APISecret signs app proxy requests.
	APISecret string `mapstructure:"SHOPIFY_API_SECRET" required:"true"`
	// APIVersion is the Admin API version segment, e.g. 2025-01.
	APIVersion string `mapstructure:"SHOPIFY_API_VERSION" default:"2025-01"`
	// ShopDomain is the shop of a single-shop install (optional).
	ShopDomain string `mapstructure:"SHOPIFY_SHOP_DOMAIN"`
	// AdminToken is the offline access token of a single-shop install (optional).
	AdminToken string `mapstructure:"SHOPIFY_ADMIN_TOKEN"`
	// TimeoutSeconds bounds every Admin API call.
	TimeoutSeconds int `mapstructure:"SHOPIFY_TIMEOUT_SECONDS" default:"10"`
}

// RedisConfig holds the Redis connection string.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// DatabaseConfig selects and configures the upsell settings backend.
type DatabaseConfig struct {
	// SettingsStore is either "redis" or "postgres".
	SettingsStore string `mapstructure:"SETTINGS_STORE" default:"redis"`
	// URL is the Postgres DSN, used only when SettingsStore is "postgres".
	URL string `mapstructure:"DATABASE_URL"`
}

// RateLimitConfig holds the per-client limiter settings for /track.
type RateLimitConfig struct {
	RPS   int `mapstructure:"RATE_LIMIT_RPS" default:"5"`
	Burst int `mapstructure:"RATE_LIMIT_BURST" default:"10"`
}

// ProxyConfig holds outbound proxy settings.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"OUTBOUND_PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"OUTBOUND_PROXY_HOST"`
	Port     int    `mapstructure:"OUTBOUND_PROXY_PORT"`
	Username string `mapstructure:"OUTBOUND_PROXY_USERNAME"`
	Password string `mapstructure:"OUTBOUND_PROXY_PASSWORD"`
}

// IsDevelopment reports whether the relaxed development behaviours apply.
func (c *AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, EnvironmentDevelopment)
}

// TrustedProxyList splits TrustedProxies into its entries.
func (c *AppConfig) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UsesPostgres reports whether upsell settings live in Postgres.
func (c *AppConfig) UsesPostgres() bool {
	return strings.EqualFold(c.Database.SettingsStore, "postgres")
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.UsesPostgres() && config.Database.URL == "" {
		return nil, fmt.Errorf("missing required configuration: DATABASE_URL (SETTINGS_STORE=postgres)")
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
