package config

import (
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/spf13/viper"
)

// Config carries everything the server needs at boot. Values come from a
// .env file in the working directory, overridable by real environment
// variables.
type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	UpstreamBaseURL string `mapstructure:"UPSTREAM_BASE_URL"`
	ForceMockMode   bool   `mapstructure:"FORCE_MOCK_MODE"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	ClientOrigin    string `mapstructure:"CLIENT_ORIGIN"`

	FleetPollInterval time.Duration `mapstructure:"FLEET_POLL_INTERVAL"`
	AlertPollInterval time.Duration `mapstructure:"ALERT_POLL_INTERVAL"`

	AlertEmailFrom string `mapstructure:"ALERT_EMAIL_FROM"`
	AlertEmailTo   string `mapstructure:"ALERT_EMAIL_TO"`

	// DemoPasswordHash overrides the built-in demo account hash in mock
	// mode. Generate one with misc/hash-password.
	DemoPasswordHash string `mapstructure:"DEMO_PASSWORD_HASH"`
}

// AlertRecipients splits the comma-separated recipient list.
func (c *Config) AlertRecipients() []string {
	var out []string
	for _, addr := range strings.Split(c.AlertEmailTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// LoadConfig reads configuration from a .env file at path, falling back to
// environment variables and built-in defaults.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("UPSTREAM_BASE_URL", "http://localhost:9000")
	viper.SetDefault("FORCE_MOCK_MODE", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:3000")
	viper.SetDefault("FLEET_POLL_INTERVAL", "5s")
	viper.SetDefault("ALERT_POLL_INTERVAL", "30s")
	viper.SetDefault("ALERT_EMAIL_FROM", "")
	viper.SetDefault("ALERT_EMAIL_TO", "")
	viper.SetDefault("DEMO_PASSWORD_HASH", "")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Info("no .env file found, using environment and defaults")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
