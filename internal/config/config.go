// Package config loads gateway configuration from a TOML file with
// built-in defaults and an environment override for the API key.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full lmchat configuration.
type Config struct {
	Gateway GatewayConfig `toml:"gateway"`
}

// GatewayConfig configures backend selection and completion requests.
type GatewayConfig struct {
	// BaseURL is the OpenAI-compatible endpoint every candidate is
	// requested from.
	BaseURL string `toml:"base_url"`
	// Candidates is the model preference order; earlier entries are
	// tried first.
	Candidates []string `toml:"candidates"`
	// APIKey authenticates against BaseURL. The OPENAI_API_KEY
	// environment variable overrides it.
	APIKey string `toml:"api_key"`
	// TimeoutSecs bounds each candidate attempt.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxPromptTokens caps the flattened history sent with a prompt.
	MaxPromptTokens int `toml:"max_prompt_tokens"`
}

// Default returns the built-in configuration: a local Ollama-style endpoint
// and the stock model menu.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			BaseURL: "http://localhost:11434/v1/",
			Candidates: []string{
				"gpt-3.5-turbo",
				"gpt-4",
				"gemini",
				"blackbox",
				"mixtral-8x7b",
			},
			TimeoutSecs:     30,
			MaxPromptTokens: 4096,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; a malformed one is. OPENAI_API_KEY, when set, wins over the
// file's api_key.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Gateway.APIKey = key
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if len(c.Gateway.Candidates) == 0 {
		return fmt.Errorf("config: at least one candidate model is required")
	}
	if c.Gateway.TimeoutSecs <= 0 {
		return fmt.Errorf("config: timeout_secs must be positive")
	}
	if c.Gateway.MaxPromptTokens <= 0 {
		return fmt.Errorf("config: max_prompt_tokens must be positive")
	}
	return nil
}

// Timeout returns the per-candidate timeout as a duration.
func (c *GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}
