package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PatternRule is one configured scan pattern within a category.
type PatternRule struct {
	Pattern  string `yaml:"pattern"`
	Severity string `yaml:"severity,omitempty"`
}

// Config holds the effective codesweep configuration.
type Config struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// APIKey comes from the environment only; it is never read from or
	// written to a config file.
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url,omitempty"`

	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	RateLimitRPM          int  `yaml:"rate_limit_rpm"`
	RequestTimeoutSeconds int  `yaml:"request_timeout_seconds"`
	MaxRetries            int  `yaml:"max_retries"`
	KeyRotationHours      int  `yaml:"key_rotation_hours"`
	ValidateResponses     bool `yaml:"validate_responses"`
	RedactSecrets         bool `yaml:"redact_secrets"`

	CacheEnabled    bool   `yaml:"cache_enabled"`
	CacheDir        string `yaml:"cache_dir,omitempty"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`

	Extensions []string `yaml:"extensions"`
	Include    []string `yaml:"include,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"`
	Workers    int      `yaml:"workers"`

	LogLevel string `yaml:"log_level"`

	Patterns map[string][]PatternRule `yaml:"patterns"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:              "local",
		Model:                 "gpt-4o-mini",
		Temperature:           0.7,
		MaxTokens:             1000,
		RateLimitRPM:          60,
		RequestTimeoutSeconds: 30,
		MaxRetries:            3,
		KeyRotationHours:      24,
		ValidateResponses:     true,
		RedactSecrets:         true,
		CacheEnabled:          false,
		CacheTTLSeconds:       86400,
		Extensions:            []string{".go", ".py"},
		Exclude:               []string{"vendor/*", "*_gen.go", "*.pb.go"},
		Workers:               4,
		LogLevel:              "info",
		Patterns:              defaultPatterns(),
	}
}

// defaultPatterns is a small built-in rule set so the tool is useful without
// a config file.
func defaultPatterns() map[string][]PatternRule {
	return map[string][]PatternRule{
		"security": {
			{Pattern: `(?i)(password|passwd|secret|api_key)\s*[:=]\s*["'][^"']+["']`, Severity: "high"},
		},
		"potential_bugs": {
			{Pattern: `(?i)\b(TODO|FIXME|XXX)\b`, Severity: "low"},
		},
		"best_practices": {
			{Pattern: `(?i)panic\(`, Severity: "medium"},
		},
	}
}

// Load builds the effective config by merging: defaults <- config file <- env.
// path may be empty, in which case only defaults and environment apply.
// A .env file in the working directory is loaded best-effort first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the default-filled struct: keys absent from the
		// file keep their default values, booleans included.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
		// YAML merges maps key-by-key, which would keep built-in rule
		// categories the file never mentions. A patterns section replaces
		// the built-in rule set outright.
		var rules struct {
			Patterns map[string][]PatternRule `yaml:"patterns"`
		}
		if err := yaml.Unmarshal(data, &rules); err == nil && rules.Patterns != nil {
			cfg.Patterns = rules.Patterns
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("CODESWEEP_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("MODEL_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitRPM = n
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeoutSeconds = n
		}
	}
	if v := os.Getenv("MAX_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("API_KEY_ROTATION_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.KeyRotationHours = n
		}
	}
	if v := os.Getenv("ENABLE_RESPONSE_VALIDATION"); v != "" {
		cfg.ValidateResponses = v == "true" || v == "1"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate fails fast on configuration that would otherwise surface as a
// confusing error on first use.
func (c Config) Validate() error {
	if c.Provider != "local" && c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set: an API key is required for provider %q", c.Provider)
	}
	if c.KeyRotationHours < 1 {
		return fmt.Errorf("key_rotation_hours must be at least 1, got %d", c.KeyRotationHours)
	}
	if c.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("request_timeout_seconds must be at least 1, got %d", c.RequestTimeoutSeconds)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", c.MaxRetries)
	}
	if c.RateLimitRPM < 1 {
		return fmt.Errorf("rate_limit_rpm must be at least 1, got %d", c.RateLimitRPM)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RotationInterval returns the key-rotation advisory interval as a duration.
func (c Config) RotationInterval() time.Duration {
	return time.Duration(c.KeyRotationHours) * time.Hour
}
