// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.sous/config.yaml or ./config.yaml)
//  3. Default values
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidAddr indicates the listen address is malformed.
	ErrInvalidAddr = errors.New("invalid listen address")

	// ErrInvalidMaxHistory indicates the per-thread history limit is out of range.
	ErrInvalidMaxHistory = errors.New("invalid max history")

	// ErrInvalidTempDir indicates the temp directory is unusable.
	ErrInvalidTempDir = errors.New("invalid temp directory")

	// ErrInvalidRetailerSite indicates the retailer domain is malformed.
	ErrInvalidRetailerSite = errors.New("invalid retailer site")

	// ErrInvalidSearchEndpoint indicates the search API endpoint is malformed.
	ErrInvalidSearchEndpoint = errors.New("invalid search endpoint")

	// ErrInvalidTimeout indicates a timeout value is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidLanguage indicates the default language is unsupported.
	ErrInvalidLanguage = errors.New("invalid language")
)

// History limits.
const (
	// DefaultMaxHistory is the default number of messages kept per thread.
	DefaultMaxHistory = 10

	// MaxAllowedHistory is the absolute per-thread maximum to bound memory.
	MaxAllowedHistory = 1000
)

// Config stores application configuration.
// SECURITY: Sensitive fields are masked in MarshalJSON(). When adding new
// sensitive fields (API keys, tokens), update MarshalJSON.
type Config struct {
	// HTTP server
	Addr        string   `mapstructure:"addr" json:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`   // Per-IP token bucket burst (0 = default 60)

	// Conversation memory
	MaxHistory int `mapstructure:"max_history" json:"max_history"`

	// Agent behavior
	Language     string `mapstructure:"language" json:"language"`           // Default reply language when detection is inconclusive
	RetailerSite string `mapstructure:"retailer_site" json:"retailer_site"` // Domain scoping per-ingredient searches
	TempDir      string `mapstructure:"temp_dir" json:"temp_dir"`           // Where ingredients.txt / menu.txt are written

	// Outbound APIs
	SearchEndpoint string `mapstructure:"search_endpoint" json:"search_endpoint"`
	SearchAPIKey   string `mapstructure:"search_api_key" json:"search_api_key"` // SENSITIVE: server-side fallback for the /search endpoint
	SearchTimeout  int    `mapstructure:"search_timeout_ms" json:"search_timeout_ms"`
	SearchRate     int    `mapstructure:"search_rate" json:"search_rate"` // Outbound searches per second (0 = default 5)
	OpenAIBaseURL  string `mapstructure:"openai_base_url" json:"openai_base_url"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".sous")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("SOUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets bind to their conventional names, not the SOUS_ prefix.
	if err := v.BindEnv("search_api_key", "SERPER_API_KEY"); err != nil {
		panic(fmt.Sprintf("BUG: failed to bind search_api_key: %v", err))
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:8002")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_burst", 60)

	v.SetDefault("max_history", DefaultMaxHistory)

	v.SetDefault("language", "es")
	v.SetDefault("retailer_site", "carrefour.es")
	v.SetDefault("temp_dir", os.TempDir())

	v.SetDefault("search_endpoint", "https://google.serper.dev")
	v.SetDefault("search_timeout_ms", 30000)
	v.SetDefault("search_rate", 5)
	v.SetDefault("openai_base_url", "") // empty = library default
}

// SearchTimeoutDuration returns the outbound search timeout as a Duration.
func (c *Config) SearchTimeoutDuration() time.Duration {
	return time.Duration(c.SearchTimeout) * time.Millisecond
}

// MarshalJSON masks sensitive fields so configs can be logged safely.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(c)
	if masked.SearchAPIKey != "" {
		masked.SearchAPIKey = "***"
	}
	return jsonMarshal(masked)
}
