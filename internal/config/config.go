package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Broker   Broker   `mapstructure:"broker"`
	Sync     Sync     `mapstructure:"sync"`
	Backup   Backup   `mapstructure:"backup"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Broker holds the configuration for the broker bridge connection.
type Broker struct {
	Name           string  `mapstructure:"name"`
	BridgeURL      string  `mapstructure:"bridge_url"`
	Account        string  `mapstructure:"account"`
	Password       string  `mapstructure:"password"`
	BrokerServer   string  `mapstructure:"server"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Sync holds the configuration for the background broker sync loop.
type Sync struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds"`
	HistoryDays     int  `mapstructure:"history_days"`
}

// Backup holds the configuration for scheduled database backups.
// An empty schedule disables automatic backups.
type Backup struct {
	Schedule  string `mapstructure:"schedule"` // cron expression
	Directory string `mapstructure:"directory"`
}

// Server holds the configuration for the HTTP API server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the journal database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("broker.name", "stub")
	viper.SetDefault("broker.timeout_seconds", 10)
	viper.SetDefault("broker.rate_limit", 10) // requests per second
	viper.SetDefault("broker.rate_limit_burst", 5)
	viper.SetDefault("sync.enabled", true)
	viper.SetDefault("sync.interval_seconds", 5)
	viper.SetDefault("sync.history_days", 30)
	viper.SetDefault("server.port", 8085)
	viper.SetDefault("database.dsn", "journal.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
