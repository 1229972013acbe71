// Package config provides YAML-based configuration with environment
// overrides for credentials and deploy-time settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Explainer ExplainerConfig `yaml:"explainer"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCORS"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// StorageConfig locates the inbox and outbox directories and bounds what may
// be uploaded into them.
type StorageConfig struct {
	InboxDirectory    string `yaml:"inboxDirectory"`
	OutboxDirectory   string `yaml:"outboxDirectory"`
	AllowedExtensions string `yaml:"allowedExtensions"`
}

// OpenAIConfig identifies the generation backend. The API key is only ever
// read from the environment, never from the file.
type OpenAIConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseURL"`
	APIKey  string `yaml:"-"`
}

// ExplainerConfig tunes the background pipeline.
type ExplainerConfig struct {
	GenerationTimeoutSeconds int `yaml:"generationTimeoutSeconds"`
	RateLimitCooldownSeconds int `yaml:"rateLimitCooldownSeconds"`
	SubmitDelaySeconds       int `yaml:"submitDelaySeconds"`
	ScanIntervalSeconds      int `yaml:"scanIntervalSeconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Storage: StorageConfig{
			InboxDirectory:    "./data/uploads",
			OutboxDirectory:   "./data/outputs",
			AllowedExtensions: "pptx,ppt",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Explainer: ExplainerConfig{
			GenerationTimeoutSeconds: 10,
			RateLimitCooldownSeconds: 60,
			SubmitDelaySeconds:       1,
			ScanIntervalSeconds:      10,
		},
	}
}

// LoadConfig loads configuration from a YAML file, creating the file with
// defaults when it does not exist, then applies environment overrides.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvOverrides()
	return config, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(configPath string) error {
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath, data, 0644)
}

func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("EXPLAINER_INBOX_DIR"); v != "" {
		c.Storage.InboxDirectory = v
	}
	if v := os.Getenv("EXPLAINER_OUTBOX_DIR"); v != "" {
		c.Storage.OutboxDirectory = v
	}
}

// EnsureDirectories creates the data directories if missing.
func (c *AppConfig) EnsureDirectories() error {
	for _, dir := range []string{c.Storage.InboxDirectory, c.Storage.OutboxDirectory} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetServerAddr returns the listen address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// AllowedExtensionSet parses the allowed extensions into a lookup set of
// lowercase extensions without dots.
func (c *AppConfig) AllowedExtensionSet() map[string]bool {
	set := make(map[string]bool)
	for _, ext := range strings.Split(c.Storage.AllowedExtensions, ",") {
		ext = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, ".")))
		if ext != "" {
			set[ext] = true
		}
	}
	return set
}

// GenerationTimeout returns the per-call generation timeout.
func (c *AppConfig) GenerationTimeout() time.Duration {
	return time.Duration(c.Explainer.GenerationTimeoutSeconds) * time.Second
}

// RateLimitCooldown returns the wait applied after a rate-limit signal.
func (c *AppConfig) RateLimitCooldown() time.Duration {
	return time.Duration(c.Explainer.RateLimitCooldownSeconds) * time.Second
}

// SubmitDelay returns the pause between generation call submissions.
func (c *AppConfig) SubmitDelay() time.Duration {
	return time.Duration(c.Explainer.SubmitDelaySeconds) * time.Second
}

// ScanInterval returns the explainer loop period.
func (c *AppConfig) ScanInterval() time.Duration {
	return time.Duration(c.Explainer.ScanIntervalSeconds) * time.Second
}
