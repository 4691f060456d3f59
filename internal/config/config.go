package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// CallbackPath is where GitHub sends the user back with an authorization code.
	CallbackPath = "/api/auth/callback"

	defaultAuthorizeURL = "https://github.com/login/oauth/authorize"
	defaultTokenURL     = "https://github.com/login/oauth/access_token"
	defaultAPIURL       = "https://api.github.com"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	GitHub  GitHubConfig  `yaml:"github"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port" validate:"min=1,max=65535"`
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	Environment    string `yaml:"environment"`
	CookieName     string `yaml:"cookie_name" validate:"required"`
	CookieDomain   string `yaml:"cookie_domain"`
	CookieSameSite string `yaml:"cookie_same_site" validate:"omitempty,oneof=lax strict none"`
	LoginPath      string `yaml:"login_path" validate:"required,startswith=/"`
	LandingPath    string `yaml:"landing_path" validate:"required,startswith=/"`
}

// IsProduction reports whether cookies must carry the Secure flag.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// CallbackURL is the redirect_uri registered with the GitHub OAuth app.
func (s ServerConfig) CallbackURL() string {
	return s.BaseURL + CallbackPath
}

type GitHubConfig struct {
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	AuthorizeURL string        `yaml:"authorize_url" validate:"required,url"`
	TokenURL     string        `yaml:"token_url" validate:"required,url"`
	APIURL       string        `yaml:"api_url" validate:"required,url"`
	Scopes       []string      `yaml:"scopes" validate:"min=1,dive,required"`
	StateCheck   bool          `yaml:"state_check"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
}

type CacheConfig struct {
	Type  string       `yaml:"type"`
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

type RedisConfig struct {
	Address    string `yaml:"address"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	PoolSize   int    `yaml:"pool_size"`
	MaxRetries int    `yaml:"max_retries"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// envOverrides mirrors the variables a deployment sets instead of editing the file.
type envOverrides struct {
	ClientID      string `env:"GITHUB_CLIENT_ID"`
	ClientSecret  string `env:"GITHUB_CLIENT_SECRET"`
	BaseURL       string `env:"BASE_URL"`
	PublicBaseURL string `env:"NEXT_PUBLIC_BASE_URL"`
	Environment   string `env:"APP_ENV"`
	NodeEnv       string `env:"NODE_ENV"`
	Port          int    `env:"PORT"`
	LogLevel      string `env:"LOG_LEVEL"`
	LogFormat     string `env:"LOG_FORMAT"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			BaseURL:     "http://localhost:8080",
			Environment: "development",
			CookieName:  "github_token",
			LoginPath:   "/login",
			LandingPath: "/auth/callback",
		},
		GitHub: GitHubConfig{
			AuthorizeURL: defaultAuthorizeURL,
			TokenURL:     defaultTokenURL,
			APIURL:       defaultAPIURL,
			Scopes:       []string{"repo", "read:user", "user:email"},
			Timeout:      30 * time.Second,
		},
		Cache: CacheConfig{
			Type: "memory",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and finally the environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	cfg.normalize()

	return cfg, nil
}

// LoadDotEnv exports the variables of a dotenv file. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var raw envOverrides
	if err := env.Parse(&raw); err != nil {
		return err
	}

	if raw.ClientID != "" {
		c.GitHub.ClientID = raw.ClientID
	}
	if raw.ClientSecret != "" {
		c.GitHub.ClientSecret = raw.ClientSecret
	}

	switch {
	case raw.BaseURL != "":
		c.Server.BaseURL = raw.BaseURL
	case raw.PublicBaseURL != "":
		c.Server.BaseURL = raw.PublicBaseURL
	}

	switch {
	case raw.Environment != "":
		c.Server.Environment = raw.Environment
	case raw.NodeEnv != "":
		c.Server.Environment = raw.NodeEnv
	}
	if raw.Port != 0 {
		c.Server.Port = raw.Port
	}
	if raw.LogLevel != "" {
		c.Logging.Level = raw.LogLevel
	}
	if raw.LogFormat != "" {
		c.Logging.Format = raw.LogFormat
	}

	if c.Cache.Type == "redis" && c.Cache.Redis != nil && raw.RedisPassword != "" {
		c.Cache.Redis.Password = raw.RedisPassword
	}

	return nil
}

func (c *Config) normalize() {
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	c.Server.Environment = strings.ToLower(c.Server.Environment)
	c.Server.CookieSameSite = strings.ToLower(c.Server.CookieSameSite)
	c.GitHub.APIURL = strings.TrimRight(c.GitHub.APIURL, "/")
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	if c.Cache.Type == "redis" && c.Cache.Redis != nil {
		if c.Cache.Redis.PoolSize == 0 {
			c.Cache.Redis.PoolSize = 10
		}
		if c.Cache.Redis.MaxRetries == 0 {
			c.Cache.Redis.MaxRetries = 3
		}
	}
}
