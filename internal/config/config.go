package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultImproveThreshold     = 40
	DefaultCollaborateThreshold = 70
	DefaultCorpusLimit          = 15
	DefaultOracleTimeoutMS      = 10000
	DefaultMaxConcurrent        = 8
	DefaultLockDays             = 7
	DefaultMaxLockDays          = 90

	// Failure policies for the novelty oracle.
	PolicyAssumeNovel      = "assume_novel"
	PolicyRejectSubmission = "reject_submission"
)

type ServerConfig struct {
	Port string `toml:"port"`
	Mode string `toml:"mode"` // gin mode: debug, release, test
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or console
}

type LLMConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	MaxTokens int    `toml:"max_tokens"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type RedisConfig struct {
	URL string `toml:"url"`
}

type NoveltyConfig struct {
	ImproveThreshold     int    `toml:"improve_threshold"`
	CollaborateThreshold int    `toml:"collaborate_threshold"`
	CorpusLimit          int    `toml:"corpus_limit"`
	OracleTimeoutMS      int    `toml:"oracle_timeout_ms"`
	OnOracleFailure      string `toml:"on_oracle_failure"`
	MaxConcurrent        int    `toml:"max_concurrent"`
	// QuotaPerMinute caps oracle calls across all replicas; 0 disables the quota.
	QuotaPerMinute int `toml:"quota_per_minute"`
}

// OracleTimeout returns the per-call deadline for the novelty oracle.
func (n NoveltyConfig) OracleTimeout() time.Duration {
	return time.Duration(n.OracleTimeoutMS) * time.Millisecond
}

type PromptConfig struct {
	Novelty string `toml:"novelty"`
}

type RegistrationConfig struct {
	DefaultLockDays int `toml:"default_lock_days"`
	MaxLockDays     int `toml:"max_lock_days"`
}

type Config struct {
	Server       ServerConfig       `toml:"server"`
	Log          LogConfig          `toml:"log"`
	LLM          LLMConfig          `toml:"llm"`
	Memgraph     MemgraphConfig     `toml:"memgraph"`
	Redis        RedisConfig        `toml:"redis"`
	Novelty      NoveltyConfig      `toml:"novelty"`
	Prompts      PromptConfig       `toml:"prompts"`
	Registration RegistrationConfig `toml:"registration"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied and no file behind it.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values. The LLM provider defaults to Gemini.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
		if c.LLM.Model == "" {
			c.LLM.Model = "gemini-1.5-flash"
		}
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1000
	}
	if c.Memgraph.URI == "" {
		c.Memgraph.URI = "bolt://localhost:7687"
	}

	n := &c.Novelty
	if n.ImproveThreshold == 0 {
		n.ImproveThreshold = DefaultImproveThreshold
	}
	if n.CollaborateThreshold == 0 {
		n.CollaborateThreshold = DefaultCollaborateThreshold
	}
	if n.CorpusLimit == 0 {
		n.CorpusLimit = DefaultCorpusLimit
	}
	if n.OracleTimeoutMS == 0 {
		n.OracleTimeoutMS = DefaultOracleTimeoutMS
	}
	n.OnOracleFailure = strings.ToLower(strings.TrimSpace(n.OnOracleFailure))
	if n.OnOracleFailure == "" {
		n.OnOracleFailure = PolicyAssumeNovel
	}
	if n.MaxConcurrent == 0 {
		n.MaxConcurrent = DefaultMaxConcurrent
	}

	if c.Registration.DefaultLockDays == 0 {
		c.Registration.DefaultLockDays = DefaultLockDays
	}
	if c.Registration.MaxLockDays == 0 {
		c.Registration.MaxLockDays = DefaultMaxLockDays
	}
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	setString("PORT", &c.Server.Port)
	setString("GIN_MODE", &c.Server.Mode)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LLM_PROVIDER", &c.LLM.Provider)
	setString("LLM_MODEL", &c.LLM.Model)
	setString("LLM_API_KEY", &c.LLM.APIKey)
	setString("LLM_BASE_URL", &c.LLM.BaseURL)
	setString("MEMGRAPH_URI", &c.Memgraph.URI)
	setString("MEMGRAPH_USER", &c.Memgraph.User)
	setString("MEMGRAPH_PASSWORD", &c.Memgraph.Password)
	setString("REDIS_URL", &c.Redis.URL)
	setString("NOVELTY_ON_ORACLE_FAILURE", &c.Novelty.OnOracleFailure)

	for key, dst := range map[string]*int{
		"NOVELTY_IMPROVE_THRESHOLD":     &c.Novelty.ImproveThreshold,
		"NOVELTY_COLLABORATE_THRESHOLD": &c.Novelty.CollaborateThreshold,
		"NOVELTY_CORPUS_LIMIT":          &c.Novelty.CorpusLimit,
		"NOVELTY_ORACLE_TIMEOUT_MS":     &c.Novelty.OracleTimeoutMS,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Validate() error {
	n := c.Novelty
	if n.ImproveThreshold < 0 || n.ImproveThreshold > 100 {
		return fmt.Errorf("novelty.improve_threshold must be within [0,100], got %d", n.ImproveThreshold)
	}
	if n.CollaborateThreshold < 0 || n.CollaborateThreshold > 100 {
		return fmt.Errorf("novelty.collaborate_threshold must be within [0,100], got %d", n.CollaborateThreshold)
	}
	if n.ImproveThreshold >= n.CollaborateThreshold {
		return fmt.Errorf("novelty.improve_threshold (%d) must be below collaborate_threshold (%d)",
			n.ImproveThreshold, n.CollaborateThreshold)
	}
	if n.CorpusLimit <= 0 {
		return fmt.Errorf("novelty.corpus_limit must be positive, got %d", n.CorpusLimit)
	}
	if n.OracleTimeoutMS <= 0 {
		return fmt.Errorf("novelty.oracle_timeout_ms must be positive, got %d", n.OracleTimeoutMS)
	}
	if n.MaxConcurrent <= 0 {
		return fmt.Errorf("novelty.max_concurrent must be positive, got %d", n.MaxConcurrent)
	}
	if n.QuotaPerMinute < 0 {
		return fmt.Errorf("novelty.quota_per_minute must not be negative, got %d", n.QuotaPerMinute)
	}
	switch n.OnOracleFailure {
	case PolicyAssumeNovel, PolicyRejectSubmission:
	default:
		return fmt.Errorf("unknown novelty.on_oracle_failure %q", n.OnOracleFailure)
	}
	if c.Registration.DefaultLockDays <= 0 || c.Registration.DefaultLockDays > c.Registration.MaxLockDays {
		return fmt.Errorf("registration.default_lock_days must be within [1,%d], got %d",
			c.Registration.MaxLockDays, c.Registration.DefaultLockDays)
	}
	return nil
}

// Resolve loads the file at path (falling back to defaults when it is missing),
// applies env overrides and defaults, and validates the result.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
