package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Download DownloadConfig `yaml:"download"`
	Browser  BrowserConfig  `yaml:"browser"`
	Resolver ResolverConfig `yaml:"resolver"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Worker   WorkerConfig   `yaml:"worker"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port           int           `yaml:"port" envconfig:"SERVER_PORT" default:"3000"`
	APIKey         string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"10m"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout" envconfig:"SERVER_ACQUIRE_TIMEOUT" default:"5m"`
}

// StorageConfig holds output directory configuration.
type StorageConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"STORAGE_OUTPUT_DIR" default:"./downloads"`
	// AppendIDSuffix adds _<content id> to sanitized titles to avoid collisions.
	AppendIDSuffix bool `yaml:"append_id_suffix" envconfig:"STORAGE_APPEND_ID_SUFFIX" default:"false"`
}

// DownloadConfig holds plain HTTP fetch configuration.
type DownloadConfig struct {
	// HeaderTimeout bounds the wait for response headers.
	HeaderTimeout time.Duration `yaml:"header_timeout" envconfig:"DOWNLOAD_HEADER_TIMEOUT" default:"30s"`
	// ReadTimeout aborts a stream that delivers no data for this long.
	ReadTimeout time.Duration `yaml:"read_timeout" envconfig:"DOWNLOAD_READ_TIMEOUT" default:"60s"`
	UserAgent   string        `yaml:"user_agent" envconfig:"DOWNLOAD_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"`
}

// BrowserConfig holds headless browser configuration.
type BrowserConfig struct {
	ExecPath   string `yaml:"exec_path" envconfig:"BROWSER_EXEC_PATH"`
	Headless   bool   `yaml:"headless" envconfig:"BROWSER_HEADLESS" default:"true"`
	NoSandbox  bool   `yaml:"no_sandbox" envconfig:"BROWSER_NO_SANDBOX" default:"true"`
	UserAgent  string `yaml:"user_agent" envconfig:"BROWSER_USER_AGENT"`
	// NavigationTimeout bounds a single page load.
	NavigationTimeout time.Duration `yaml:"navigation_timeout" envconfig:"BROWSER_NAVIGATION_TIMEOUT" default:"60s"`
}

// ResolverConfig holds the third-party link resolver services.
type ResolverConfig struct {
	TwitterURL   string        `yaml:"twitter_url" envconfig:"RESOLVER_TWITTER_URL" default:"https://twitsave.com/"`
	InstagramURL string        `yaml:"instagram_url" envconfig:"RESOLVER_INSTAGRAM_URL" default:"https://snapinsta.app/"`
	WaitTimeout  time.Duration `yaml:"wait_timeout" envconfig:"RESOLVER_WAIT_TIMEOUT" default:"30s"`
	// RateLimit is requests per second per resolver service; 0 disables pacing.
	RateLimit float64 `yaml:"rate_limit" envconfig:"RESOLVER_RATE_LIMIT" default:"1"`
	Burst     int     `yaml:"burst" envconfig:"RESOLVER_BURST" default:"2"`
}

// YouTubeConfig holds YouTube client configuration.
type YouTubeConfig struct {
	Quality string        `yaml:"quality" envconfig:"YOUTUBE_QUALITY" default:"highest"`
	Timeout time.Duration `yaml:"timeout" envconfig:"YOUTUBE_TIMEOUT" default:"30s"`
}

// WorkerConfig holds worker pool configuration.
type WorkerConfig struct {
	Count        int           `yaml:"count" envconfig:"WORKER_COUNT" default:"2"`
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"WORKER_POLL_INTERVAL" default:"2s"`
	MaxRetries   int           `yaml:"max_retries" envconfig:"WORKER_MAX_RETRIES" default:"0"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Storage.OutputDir == "" {
		return fmt.Errorf("STORAGE_OUTPUT_DIR is required")
	}
	if c.Resolver.TwitterURL == "" {
		return fmt.Errorf("RESOLVER_TWITTER_URL is required")
	}
	if c.Resolver.InstagramURL == "" {
		return fmt.Errorf("RESOLVER_INSTAGRAM_URL is required")
	}
	if c.Resolver.WaitTimeout <= 0 {
		return fmt.Errorf("RESOLVER_WAIT_TIMEOUT must be positive")
	}
	if c.Resolver.RateLimit < 0 {
		return fmt.Errorf("RESOLVER_RATE_LIMIT must not be negative")
	}
	if c.Worker.MaxRetries < 0 {
		return fmt.Errorf("WORKER_MAX_RETRIES must not be negative")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
