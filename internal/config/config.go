package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Ledgers  LedgersConfig  `mapstructure:"ledgers"`
	Report   ReportConfig   `mapstructure:"report"`
	Logger   LoggerConfig   `mapstructure:"logger"`
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

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetryConfig holds resilient-invocation parameters applied to every
// external call.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay"`
}

// LedgersConfig holds per-provider routing identifiers and defaults.
type LedgersConfig struct {
	QuickBooks QuickBooksConfig `mapstructure:"quickbooks"`
	Xero       XeroConfig       `mapstructure:"xero"`
	Wave       WaveConfig       `mapstructure:"wave"`
	FreshBooks FreshBooksConfig `mapstructure:"freshbooks"`
}

// QuickBooksConfig holds QuickBooks routing identifiers.
type QuickBooksConfig struct {
	VendorID  string `mapstructure:"vendor_id"`
	AccountID string `mapstructure:"account_id"`
	TaxCode   string `mapstructure:"tax_code"`
}

// XeroConfig holds Xero routing identifiers.
type XeroConfig struct {
	ContactID   string `mapstructure:"contact_id"`
	AccountCode string `mapstructure:"account_code"`
}

// WaveConfig holds Wave routing identifiers.
type WaveConfig struct {
	BusinessID       string `mapstructure:"business_id"`
	VendorID         string `mapstructure:"vendor_id"`
	ExpenseAccountID string `mapstructure:"expense_account_id"`
}

// FreshBooksConfig holds FreshBooks routing identifiers.
type FreshBooksConfig struct {
	VendorID string `mapstructure:"vendor_id"`
}

// ReportConfig holds review report configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
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

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/ledgerpipe.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.timeout", 60*time.Second)

	viper.SetDefault("retry.max_retries", 3)
	viper.SetDefault("retry.base_delay", 1*time.Second)
	viper.SetDefault("retry.max_delay", 30*time.Second)

	viper.SetDefault("ledgers.quickbooks.tax_code", "TAX")
	viper.SetDefault("ledgers.xero.account_code", "400")

	viper.SetDefault("report.output_dir", "reports")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("ledgers.quickbooks.vendor_id", "QUICKBOOKS_VENDOR_ID")
	viper.BindEnv("ledgers.quickbooks.account_id", "QUICKBOOKS_ACCOUNT_ID")
	viper.BindEnv("ledgers.xero.contact_id", "XERO_CONTACT_ID")
	viper.BindEnv("ledgers.wave.business_id", "WAVE_BUSINESS_ID")
	viper.BindEnv("ledgers.wave.vendor_id", "WAVE_VENDOR_ID")
	viper.BindEnv("ledgers.freshbooks.vendor_id", "FRESHBOOKS_VENDOR_ID")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("openai.model is required")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
