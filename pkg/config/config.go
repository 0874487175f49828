package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	OllamaURL       string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	ConfigDir       string
	Bundle          *Bundle
	Router          *RouterConfig
	Aliases         *ModelAliases
}

// FileConfig represents the structure of ~/.specroute/config.yaml
type FileConfig struct {
	OllamaURL string        `yaml:"ollama_url"`
	APIKeys   APIKeysConfig `yaml:"api_keys"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
}

// Load reads configuration from .env, config files, and environment
// variables. Environment variables take precedence over file values.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		OllamaURL:       getEnvOrDefault("OLLAMA_URL", fileConfig.OllamaURL),
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		ConfigDir:       configDir,
	}

	if err := cfg.loadBundle(filepath.Join(configDir, "bundle.yaml")); err != nil {
		return nil, err
	}
	if err := cfg.loadRouter(filepath.Join(configDir, "routing.yaml")); err != nil {
		return nil, err
	}

	aliasPath := filepath.Join(configDir, "aliases.yaml")
	if _, err := os.Stat(aliasPath); err == nil {
		aliases, err := LoadAliases(aliasPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load aliases: %w", err)
		}
		cfg.Aliases = aliases
	}

	return cfg, nil
}

func (c *Config) loadBundle(path string) error {
	if _, err := os.Stat(path); err != nil {
		c.Bundle = DefaultBundle()
		return nil
	}
	bundle, err := LoadBundle(path)
	if err != nil {
		return fmt.Errorf("failed to load bundle: %w", err)
	}
	c.Bundle = bundle
	return nil
}

func (c *Config) loadRouter(path string) error {
	if _, err := os.Stat(path); err != nil {
		c.Router = DefaultRouterConfig()
		return nil
	}
	router, err := LoadRouterConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load router config: %w", err)
	}
	c.Router = router
	return nil
}

// HasAdapter returns true if the named adapter can be constructed from
// the loaded configuration.
func (c *Config) HasAdapter(name string) bool {
	switch name {
	case "ollama", "mock":
		return true
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	default:
		return false
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".specroute")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
