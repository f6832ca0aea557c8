// Package config loads service configuration from an optional YAML file
// with environment-variable overrides. Flags on the CLI take precedence
// over both.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// Mode selects the answer-collection mode: "tree" or "slots".
	Mode string `yaml:"mode"`

	// CatalogPath points to a YAML catalog. Empty means the built-in
	// procurement catalog.
	CatalogPath string `yaml:"catalog_path"`

	LogLevel string `yaml:"log_level"`

	Redis   RedisConfig   `yaml:"redis"`
	Storage StorageConfig `yaml:"storage"`
	LLM     LLMConfig     `yaml:"llm"`
}

// StorageConfig tunes session persistence. Dir selects the file-backed
// store when Redis is not configured. EncryptionKey and MaskPatterns wrap
// whichever store is active.
type StorageConfig struct {
	// Dir is the directory for the file-backed session store.
	Dir string `yaml:"dir"`

	// EncryptionKey is a base64-encoded 32-byte AES-256 key. Sessions are
	// encrypted at rest when set.
	EncryptionKey string `yaml:"encryption_key"`

	// MaskPatterns are regular expressions; stored answers whose key
	// matches one are masked at rest.
	MaskPatterns []string `yaml:"mask_patterns"`
}

// RedisConfig configures the optional Redis session backend. An empty Addr
// selects the in-memory store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LLMConfig configures the language-understanding endpoint.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Addr:     ":8080",
		Mode:     "tree",
		LogLevel: "info",
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4",
			Temperature: 0.3,
		},
	}
}

// Load reads the YAML file at path (when non-empty) over the defaults, then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "INTAKE_ADDR")
	setString(&c.Mode, "INTAKE_MODE")
	setString(&c.CatalogPath, "INTAKE_CATALOG")
	setString(&c.LogLevel, "INTAKE_LOG_LEVEL")
	setString(&c.Redis.Addr, "INTAKE_REDIS_ADDR")
	setString(&c.Redis.Password, "INTAKE_REDIS_PASSWORD")
	setString(&c.Storage.Dir, "INTAKE_STORAGE_DIR")
	setString(&c.Storage.EncryptionKey, "INTAKE_ENCRYPTION_KEY")
	setString(&c.LLM.BaseURL, "INTAKE_LLM_BASE_URL")
	setString(&c.LLM.APIKey, "INTAKE_LLM_API_KEY")
	setString(&c.LLM.Model, "INTAKE_LLM_MODEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
