package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmcdole/cinematch/internal/request"
)

const (
	appName   = "cinematch"
	envPrefix = "CINEMATCH"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	Hover   HoverConfig   `mapstructure:"hover"`
	List    ListConfig    `mapstructure:"list"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig configures the resilient request client
type APIConfig struct {
	URL        string        `mapstructure:"url"`         // Base origin for relative paths
	Timeout    time.Duration `mapstructure:"timeout"`     // Per-attempt deadline
	MaxRetries int           `mapstructure:"max_retries"` // Retries after the first attempt
	BaseDelay  time.Duration `mapstructure:"base_delay"`  // Wait before the first retry
}

// SuggestConfig configures type-ahead suggestions
type SuggestConfig struct {
	MinInterval time.Duration `mapstructure:"min_interval"` // 0 disables throttling
}

// HoverConfig configures deferred detail fetching
type HoverConfig struct {
	Dwell time.Duration `mapstructure:"dwell"`
	Hide  time.Duration `mapstructure:"hide"`
}

// ListConfig configures the animated list. Distances are in list units;
// LineUnits maps one terminal line to units.
type ListConfig struct {
	StaggerDelay        time.Duration `mapstructure:"stagger_delay"`
	VisibilityThreshold float64       `mapstructure:"visibility_threshold"`
	ScrollMargin        float64       `mapstructure:"scroll_margin"`
	FadeDistance        float64       `mapstructure:"fade_distance"`
	ItemHeight          float64       `mapstructure:"item_height"`
	LineUnits           float64       `mapstructure:"line_units"`
}

// CacheConfig configures the local BoltDB cache
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // Empty keeps the cache in memory
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Listen string `mapstructure:"listen"` // e.g. "127.0.0.1:9464"; empty disables
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:        request.DefaultBaseURL,
			Timeout:    request.DefaultTimeout,
			MaxRetries: request.DefaultMaxRetries,
			BaseDelay:  request.DefaultBaseDelay,
		},
		Suggest: SuggestConfig{
			MinInterval: 0,
		},
		Hover: HoverConfig{
			Dwell: 300 * time.Millisecond,
			Hide:  200 * time.Millisecond,
		},
		List: ListConfig{
			StaggerDelay:        50 * time.Millisecond,
			VisibilityThreshold: 0.1,
			ScrollMargin:        50,
			FadeDistance:        50,
			ItemHeight:          50,
			LineUnits:           25,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName, appName+".log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, appName+".log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName, "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName, "cache")
	}
}

// newViper builds a viper instance with defaults and env bindings
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("api.url", cfg.API.URL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.max_retries", cfg.API.MaxRetries)
	v.SetDefault("api.base_delay", cfg.API.BaseDelay)
	v.SetDefault("suggest.min_interval", cfg.Suggest.MinInterval)
	v.SetDefault("hover.dwell", cfg.Hover.Dwell)
	v.SetDefault("hover.hide", cfg.Hover.Hide)
	v.SetDefault("list.stagger_delay", cfg.List.StaggerDelay)
	v.SetDefault("list.visibility_threshold", cfg.List.VisibilityThreshold)
	v.SetDefault("list.scroll_margin", cfg.List.ScrollMargin)
	v.SetDefault("list.fade_distance", cfg.List.FadeDistance)
	v.SetDefault("list.item_height", cfg.List.ItemHeight)
	v.SetDefault("list.line_units", cfg.List.LineUnits)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("metrics.listen", cfg.Metrics.Listen)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	// Environment variable overrides (CINEMATCH_API_URL, CINEMATCH_LOGGING_LEVEL, ...)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig loads configuration from a .env file, the config file and the
// environment, in increasing order of precedence over the defaults
func LoadConfig() (*Config, error) {
	return load(defaultConfigPath(), ".")
}

func load(paths ...string) (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	cfg := DefaultConfig()
	v := newViper(cfg)
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.API.URL = strings.TrimRight(strings.TrimSpace(cfg.API.URL), "/")
	if cfg.API.URL == "" {
		cfg.API.URL = request.DefaultBaseURL
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return saveTo(defaultConfigPath(), cfg)
}

func saveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("api.url", cfg.API.URL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.max_retries", cfg.API.MaxRetries)
	v.Set("api.base_delay", cfg.API.BaseDelay.String())

	v.Set("suggest.min_interval", cfg.Suggest.MinInterval.String())

	v.Set("hover.dwell", cfg.Hover.Dwell.String())
	v.Set("hover.hide", cfg.Hover.Hide.String())

	v.Set("list.stagger_delay", cfg.List.StaggerDelay.String())
	v.Set("list.visibility_threshold", cfg.List.VisibilityThreshold)
	v.Set("list.scroll_margin", cfg.List.ScrollMargin)
	v.Set("list.fade_distance", cfg.List.FadeDistance)
	v.Set("list.item_height", cfg.List.ItemHeight)
	v.Set("list.line_units", cfg.List.LineUnits)

	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("metrics.listen", cfg.Metrics.Listen)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes all cached data
func (c *Config) ClearCache() error {
	if c.Cache.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(c.Cache.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
