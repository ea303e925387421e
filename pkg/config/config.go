package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/just-nibble/repo-quality/internal/adapters/validators"
)

const (
	DefaultGitHubAPIURL = "https://api.github.com"
	DefaultUserAgent    = "repo-quality-scorer"
	DefaultHTTPAddr     = ":8080"
	DefaultHTTPTimeout  = 10 * time.Second
	DefaultCacheTTL     = 5 * time.Minute
	DefaultSweepEvery   = 10 * time.Minute

	// placeholderToken is shipped in sample env files and means "no token".
	placeholderToken = "Not a real token"
)

type Config struct {
	GitHubToken        string          `yaml:"github_token"`
	GitHubAPIURL       string          `yaml:"github_api_url"`
	UserAgent          string          `yaml:"user_agent"`
	HTTPAddr           string          `yaml:"http_addr"`
	HTTPTimeout        time.Duration   `yaml:"http_timeout"`
	CacheTTL           time.Duration   `yaml:"cache_ttl"`
	CacheSweepInterval time.Duration   `yaml:"cache_sweep_interval"`
	DefaultRepository  validators.Repo `yaml:"default_repository"`
	LogLevel           string          `yaml:"log_level"`
	LogFormat          string          `yaml:"log_format"`
	Database           Database        `yaml:"database"`
}

// Database holds the postgres connection settings for analysis history.
// History is disabled when Host is empty.
type Database struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

func (d Database) Enabled() bool {
	return d.Host != ""
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		GitHubAPIURL:       DefaultGitHubAPIURL,
		UserAgent:          DefaultUserAgent,
		HTTPAddr:           DefaultHTTPAddr,
		HTTPTimeout:        DefaultHTTPTimeout,
		CacheTTL:           DefaultCacheTTL,
		CacheSweepInterval: DefaultSweepEvery,
		LogLevel:           "info",
		LogFormat:          "json",
		Database: Database{
			User:    "postgres",
			Name:    "repo_quality",
			Port:    "5432",
			SSLMode: "disable",
		},
	}
}

// Load applies, in order, the defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if cfg.GitHubToken == placeholderToken {
		cfg.GitHubToken = ""
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.GitHubToken = getEnv("GITHUB_TOKEN", c.GitHubToken)
	c.GitHubAPIURL = getEnv("GITHUB_API_URL", c.GitHubAPIURL)
	c.UserAgent = getEnv("GITHUB_USER_AGENT", c.UserAgent)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.DefaultRepository = validators.Repo(getEnv("DEFAULT_REPOSITORY", string(c.DefaultRepository)))
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &c.HTTPTimeout},
		{"CACHE_TTL", &c.CacheTTL},
		{"CACHE_SWEEP_INTERVAL", &c.CacheSweepInterval},
	}
	for _, d := range durations {
		value, ok := os.LookupEnv(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}

func (c Config) Validate() error {
	if c.CacheTTL <= 0 {
		return errors.New("cache ttl must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	// zero disables the sweeper
	if c.CacheSweepInterval < 0 {
		return errors.New("cache sweep interval must not be negative")
	}

	u, err := url.Parse(c.GitHubAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid github api url %q", c.GitHubAPIURL)
	}

	if c.DefaultRepository != "" {
		if err := c.DefaultRepository.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Helper function to fetch environment variables with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
