package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/ryosukesatoh/calm-news/internal/cities"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig     `yaml:"server"`
	StaticExport bool             `yaml:"static_export" env:"GITHUB_PAGES"`
	DefaultCity  string           `yaml:"default_city"`
	LogLevel     string           `yaml:"log_level" env:"CALM_NEWS_LOG_LEVEL"`
	Upstream     UpstreamConfig   `yaml:"upstream"`
	Cache        CacheConfig      `yaml:"cache"`
	World        WorldConfig      `yaml:"world"`
	Simplifier   SimplifierConfig `yaml:"simplifier"`
	Prefetch     PrefetchConfig   `yaml:"prefetch"`
	Player       PlayerConfig     `yaml:"player"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"CALM_NEWS_ADDR"`
}

type UpstreamConfig struct {
	TagesschauURL string        `yaml:"tagesschau_url"`
	OpenMeteoURL  string        `yaml:"open_meteo_url"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
}

type CacheConfig struct {
	FetchTTL      time.Duration `yaml:"fetch_ttl"`
	SimplifiedTTL time.Duration `yaml:"simplified_ttl"`
}

type WorldConfig struct {
	Source string   `yaml:"source"`
	Count  int      `yaml:"count"`
	Feeds  []string `yaml:"feeds"`
}

type SimplifierConfig struct {
	Type              string `yaml:"type"`
	APIKey            string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model             string `yaml:"model"`
	MaxTokens         int    `yaml:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type PrefetchConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Schedule string   `yaml:"schedule"`
	Cities   []string `yaml:"cities"`
}

type PlayerConfig struct {
	APIURL         string        `yaml:"api_url" env:"CALM_NEWS_API_URL"`
	Language       string        `yaml:"language"`
	Rate           float64       `yaml:"rate"`
	Pitch          float64       `yaml:"pitch"`
	Volume         float64       `yaml:"volume"`
	Pause          time.Duration `yaml:"pause"`
	WordsPerMinute int           `yaml:"words_per_minute"`
}

const (
	WorldSourceTagesschau = "tagesschau"
	WorldSourceRSS        = "rss"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DefaultCity == "" {
		cfg.DefaultCity = cities.DefaultID
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Upstream.TagesschauURL == "" {
		cfg.Upstream.TagesschauURL = "https://www.tagesschau.de/api2u"
	}
	if cfg.Upstream.OpenMeteoURL == "" {
		cfg.Upstream.OpenMeteoURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 10 * time.Second
	}
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = "calm-news/1.0"
	}
	if cfg.Cache.FetchTTL == 0 {
		cfg.Cache.FetchTTL = 5 * time.Minute
	}
	if cfg.Cache.SimplifiedTTL == 0 {
		cfg.Cache.SimplifiedTTL = 60 * time.Minute
	}
	if cfg.World.Source == "" {
		cfg.World.Source = WorldSourceTagesschau
	}
	if cfg.World.Count == 0 {
		if cfg.World.Source == WorldSourceRSS {
			cfg.World.Count = 5
		} else {
			cfg.World.Count = 3
		}
	}
	if cfg.Simplifier.Type == "" {
		cfg.Simplifier.Type = "anthropic"
	}
	if cfg.Simplifier.Model == "" {
		cfg.Simplifier.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Simplifier.MaxTokens == 0 {
		cfg.Simplifier.MaxTokens = 1024
	}
	if cfg.Simplifier.RequestsPerMinute == 0 {
		cfg.Simplifier.RequestsPerMinute = 50
	}
	if cfg.Prefetch.Schedule == "" {
		cfg.Prefetch.Schedule = "*/5 * * * *"
	}
	if len(cfg.Prefetch.Cities) == 0 {
		cfg.Prefetch.Cities = []string{cfg.DefaultCity}
	}
	if cfg.Player.APIURL == "" {
		cfg.Player.APIURL = "http://localhost:8080"
	}
	if cfg.Player.Language == "" {
		cfg.Player.Language = "de"
	}
	if cfg.Player.Rate == 0 {
		cfg.Player.Rate = 0.85
	}
	if cfg.Player.Pitch == 0 {
		cfg.Player.Pitch = 1
	}
	if cfg.Player.Volume == 0 {
		cfg.Player.Volume = 1
	}
	if cfg.Player.Pause == 0 {
		cfg.Player.Pause = time.Second
	}
	if cfg.Player.WordsPerMinute == 0 {
		cfg.Player.WordsPerMinute = 150
	}
}

func validate(cfg *Config) error {
	if _, ok := cities.Lookup(cfg.DefaultCity); !ok {
		return fmt.Errorf("config: unknown default_city %q", cfg.DefaultCity)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log_level %q (supported: debug, info, warn, error)", cfg.LogLevel)
	}
	switch cfg.World.Source {
	case WorldSourceTagesschau, WorldSourceRSS:
	default:
		return fmt.Errorf("config: unsupported world source %q (supported: tagesschau, rss)", cfg.World.Source)
	}
	if cfg.World.Count < 0 {
		return fmt.Errorf("config: world.count must not be negative")
	}
	if cfg.Simplifier.Type != "anthropic" {
		return fmt.Errorf("config: unsupported simplifier type %q (supported: anthropic)", cfg.Simplifier.Type)
	}
	if cfg.Prefetch.Enabled {
		if _, err := cron.ParseStandard(cfg.Prefetch.Schedule); err != nil {
			return fmt.Errorf("config: invalid prefetch.schedule %q: %w", cfg.Prefetch.Schedule, err)
		}
		for _, id := range cfg.Prefetch.Cities {
			if _, ok := cities.Lookup(id); !ok {
				return fmt.Errorf("config: unknown prefetch city %q", id)
			}
		}
	}
	if cfg.Player.Rate < 0.1 || cfg.Player.Rate > 10 {
		return fmt.Errorf("config: player.rate must be between 0.1 and 10")
	}
	if cfg.Player.Pitch < 0 || cfg.Player.Pitch > 2 {
		return fmt.Errorf("config: player.pitch must be between 0 and 2")
	}
	if cfg.Player.Volume < 0 || cfg.Player.Volume > 1 {
		return fmt.Errorf("config: player.volume must be between 0 and 1")
	}
	return nil
}

// loadDotEnv reads .env from the working directory. A missing file is not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: failed to read .env: %w", err)
	}
	return nil
}

// Load reads the config file, expands environment variables, applies
// environment overrides and defaults, and validates the configuration.
// An empty path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}

		expanded := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
