package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL      = "http://localhost:8000"
	DefaultStatsServerURL = "http://localhost:8001"
	DefaultMessageLimit   = 30
	DefaultPollInterval   = 2 * time.Second
	DefaultStatsTimeout   = 10 * time.Second
)

// Config holds the tool configuration
type Config struct {
	ServerURL      string        `yaml:"server_url"`
	StatsServerURL string        `yaml:"stats_server_url"`
	MessageLimit   int           `yaml:"message_limit"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	StatsTimeout   time.Duration `yaml:"stats_timeout"`

	// ReplyTimeout of zero means the reply request is never abandoned.
	ReplyTimeout time.Duration `yaml:"reply_timeout"`

	DebugMode bool           `yaml:"debug_mode"`
	Features  Features       `yaml:"features"`
	Selectors SelectorConfig `yaml:"selectors"`
	Source    SourceConfig   `yaml:"source"`
}

// Features toggles optional behavior
type Features struct {
	ToneAnalysis       bool `yaml:"tone_analysis"`
	SuggestionCopy     bool `yaml:"suggestion_copy"`
	StatisticsUpdate   bool `yaml:"statistics_update"`
	ComprehensiveStats bool `yaml:"comprehensive_stats"`
	RealTimeAnalysis   bool `yaml:"real_time_analysis"`
}

// SelectorConfig overrides the built-in selector chains. Empty lists keep the defaults.
type SelectorConfig struct {
	Containers []string `yaml:"containers,omitempty"`
	Text       []string `yaml:"text,omitempty"`
	Timestamp  []string `yaml:"timestamp,omitempty"`
	ChatTitle  []string `yaml:"chat_title,omitempty"`
}

// SourceConfig describes where the chat page is read from. Exactly one of
// File, URL or Browser is expected to be set.
type SourceConfig struct {
	File      string `yaml:"file,omitempty"`
	URL       string `yaml:"url,omitempty"`
	Browser   string `yaml:"browser,omitempty"` // DevTools control URL, or "launch"
	PageMatch string `yaml:"page_match,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		StatsServerURL: DefaultStatsServerURL,
		MessageLimit:   DefaultMessageLimit,
		PollInterval:   DefaultPollInterval,
		StatsTimeout:   DefaultStatsTimeout,
		Features: Features{
			ToneAnalysis:       true,
			SuggestionCopy:     true,
			StatisticsUpdate:   true,
			ComprehensiveStats: true,
			RealTimeAnalysis:   true,
		},
		Source: SourceConfig{
			PageMatch: "web.whatsapp.com",
		},
	}
}

// LoadConfig reads a YAML config file over the defaults and then applies
// TONA_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Key: path, Err: err}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Key: path, Err: fmt.Errorf("failed to parse config: %w", err)}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TONA_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("TONA_STATS_SERVER_URL"); v != "" {
		c.StatsServerURL = v
	}
	if v := os.Getenv("TONA_MESSAGE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Key: "TONA_MESSAGE_LIMIT", Err: err}
		}
		c.MessageLimit = n
	}
	if v := os.Getenv("TONA_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Key: "TONA_POLL_INTERVAL", Err: err}
		}
		c.PollInterval = d
	}
	if v := os.Getenv("TONA_STATS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Key: "TONA_STATS_TIMEOUT", Err: err}
		}
		c.StatsTimeout = d
	}
	if v := os.Getenv("TONA_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Key: "TONA_DEBUG", Err: err}
		}
		c.DebugMode = b
	}
	return nil
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	for key, raw := range map[string]string{
		"server_url":       c.ServerURL,
		"stats_server_url": c.StatsServerURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return &ConfigError{Key: key, Err: err}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return &ConfigError{Key: key, Err: fmt.Errorf("scheme must be http or https, got %q", raw)}
		}
	}

	if c.MessageLimit <= 0 {
		return &ConfigError{Key: "message_limit", Err: fmt.Errorf("must be positive, got %d", c.MessageLimit)}
	}
	if c.PollInterval <= 0 {
		return &ConfigError{Key: "poll_interval", Err: errors.New("must be positive")}
	}
	if c.StatsTimeout <= 0 {
		return &ConfigError{Key: "stats_timeout", Err: errors.New("must be positive")}
	}
	if c.ReplyTimeout < 0 {
		return &ConfigError{Key: "reply_timeout", Err: errors.New("must not be negative")}
	}

	return nil
}
