package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Payments      PaymentsConfig      `mapstructure:"payments"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Report        ReportConfig        `mapstructure:"report"`
	Game          GameConfig          `mapstructure:"game"`
	Logger        LoggerConfig        `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// PaymentsConfig holds the payment failure-simulation rates
type PaymentsConfig struct {
	CardFailureRate        float64 `mapstructure:"card_failure_rate"`
	PayPalFailureRate      float64 `mapstructure:"paypal_failure_rate"`
	BankFailureRate        float64 `mapstructure:"bank_failure_rate"`
	CryptoCongestionChance float64 `mapstructure:"crypto_congestion_chance"`
	CryptoCongestionRate   float64 `mapstructure:"crypto_congestion_rate"`
}

// NotificationsConfig holds the notification failure-simulation rates
type NotificationsConfig struct {
	EmailFailureRate float64 `mapstructure:"email_failure_rate"`
	SMSFailureRate   float64 `mapstructure:"sms_failure_rate"`
	PushFailureRate  float64 `mapstructure:"push_failure_rate"`
	SlackFailureRate float64 `mapstructure:"slack_failure_rate"`
}

// ReportConfig holds transaction report configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// GameConfig holds number-guessing game configuration
type GameConfig struct {
	Min           int    `mapstructure:"min"`
	Max           int    `mapstructure:"max"`
	StatsFilePath string `mapstructure:"stats_file_path"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/dispatchlab.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Payment simulation defaults
	viper.SetDefault("payments.card_failure_rate", 0.10)
	viper.SetDefault("payments.paypal_failure_rate", 0.10)
	viper.SetDefault("payments.bank_failure_rate", 0.10)
	viper.SetDefault("payments.crypto_congestion_chance", 0.15)
	viper.SetDefault("payments.crypto_congestion_rate", 0.30)

	// Notification simulation defaults
	viper.SetDefault("notifications.email_failure_rate", 0.10)
	viper.SetDefault("notifications.sms_failure_rate", 0.10)
	viper.SetDefault("notifications.push_failure_rate", 0.10)
	viper.SetDefault("notifications.slack_failure_rate", 0.10)

	// Report defaults
	viper.SetDefault("report.output_dir", "reports")

	// Game defaults
	viper.SetDefault("game.min", 1)
	viper.SetDefault("game.max", 10)
	viper.SetDefault("game.stats_file_path", "data/game_sessions.csv")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	rates := map[string]float64{
		"payments.card_failure_rate":        c.Payments.CardFailureRate,
		"payments.paypal_failure_rate":      c.Payments.PayPalFailureRate,
		"payments.bank_failure_rate":        c.Payments.BankFailureRate,
		"payments.crypto_congestion_chance": c.Payments.CryptoCongestionChance,
		"payments.crypto_congestion_rate":   c.Payments.CryptoCongestionRate,
		"notifications.email_failure_rate":  c.Notifications.EmailFailureRate,
		"notifications.sms_failure_rate":    c.Notifications.SMSFailureRate,
		"notifications.push_failure_rate":   c.Notifications.PushFailureRate,
		"notifications.slack_failure_rate":  c.Notifications.SlackFailureRate,
	}
	for name, rate := range rates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0", name)
		}
	}

	if c.Game.Min >= c.Game.Max {
		return fmt.Errorf("game.min must be less than game.max")
	}
	if c.Game.StatsFilePath == "" {
		return fmt.Errorf("game.stats_file_path is required")
	}

	return nil
}
