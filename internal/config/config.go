package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the Azure DevOps Services endpoint.
const DefaultBaseURL = "https://dev.azure.com"

// Config represents the full application configuration loaded from file/env.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	AzureDevOps AzureDevOpsConfig `mapstructure:"azure_devops"`
}

// ServerConfig holds server-specific options.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// AzureDevOpsConfig describes the Azure DevOps endpoint and credentials.
type AzureDevOpsConfig struct {
	Credentials `mapstructure:",squash"`

	BaseURL      string `mapstructure:"base_url"`
	Organization string `mapstructure:"organization"`

	// WebhookURL receives service hook events for created subscriptions.
	WebhookURL string `mapstructure:"webhook_url"`
}

// Credentials authenticate requests with either a personal access token or
// an OAuth bearer token.
type Credentials struct {
	PAT        string `mapstructure:"pat"`
	OAuthToken string `mapstructure:"oauth_token"`
}

// Load reads configuration from the provided directory and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path != "" {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("azdo_mcp")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.log_level", "info")
	v.SetDefault("azure_devops.base_url", DefaultBaseURL)
	v.SetDefault("azure_devops.organization", "")
	v.SetDefault("azure_devops.pat", "")
	v.SetDefault("azure_devops.oauth_token", "")
	v.SetDefault("azure_devops.webhook_url", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.applyNetrcDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.AzureDevOps.BaseURL = strings.TrimRight(strings.TrimSpace(c.AzureDevOps.BaseURL), "/")
	if c.AzureDevOps.BaseURL == "" {
		c.AzureDevOps.BaseURL = DefaultBaseURL
	}

	c.AzureDevOps.WebhookURL = strings.TrimSpace(c.AzureDevOps.WebhookURL)

	if err := c.AzureDevOps.Credentials.validate(); err != nil {
		return err
	}

	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	return nil
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.OAuthToken) == "" && strings.TrimSpace(c.PAT) == "" {
		return fmt.Errorf("config: azure_devops requires either oauth_token or pat")
	}
	return nil
}
