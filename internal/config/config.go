// Package config loads pagent configuration from YAML and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fentz26/pagent/internal/protocol"
	"gopkg.in/yaml.v3"
)

// Config holds pagent settings.
type Config struct {
	// LLM configures the completions backend.
	LLM LLMConfig `yaml:"llm"`
	// Router configures response routing.
	Router RouterConfig `yaml:"router"`
	// Listen is the daemon API listen address.
	Listen string `yaml:"listen"`
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
}

// LLMConfig holds completions backend settings. The API key is read
// from the environment only, never from the config file.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"-"`
	UseMock bool   `yaml:"use_mock"`
}

// RouterConfig holds response routing settings.
type RouterConfig struct {
	// FallbackTag is assumed when no recognized header is present.
	FallbackTag string `yaml:"fallback_tag"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Router: RouterConfig{
			FallbackTag: string(protocol.TagUser),
		},
		Listen: "127.0.0.1:7467",
		DBPath: filepath.Join(home, ".pagent", "pagent.db"),
	}
}

// Load loads configuration from a YAML file, applying environment
// overrides afterwards. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads configuration from ~/.pagent/config.yaml.
func LoadFromHome() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, nil
	}
	return Load(filepath.Join(home, ".pagent", "config.yaml"))
}

// applyEnv overlays the OPENAI_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if !protocol.Recognized(protocol.Tag(c.Router.FallbackTag)) {
		return fmt.Errorf("fallback_tag must be one of USR, SYS; got %q", c.Router.FallbackTag)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model must not be empty")
	}
	return nil
}

// FallbackTag returns the configured fallback tag.
func (c *Config) FallbackTag() protocol.Tag {
	return protocol.Tag(c.Router.FallbackTag)
}
