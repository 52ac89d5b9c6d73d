package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Supplier feed
	FeedURL         string
	FeedHeaderRow   int
	FeedWindows1251 bool

	// Ozon seller account
	OzonClientID string
	OzonAPIKey   string

	// Yandex.Market seller account
	MarketToken       string
	MarketCampaignID  string
	MarketWarehouseID string

	// Pricing
	RulesFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.shopsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files before Viper env binding
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindCredentials()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".shopsync")
		}
	}

	// Config file is optional
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		FeedURL:         viper.GetString("FEED_URL"),
		FeedHeaderRow:   viper.GetInt("FEED_HEADER_ROW"),
		FeedWindows1251: viper.GetBool("FEED_WINDOWS1251"),

		OzonClientID: viper.GetString("CLIENT_ID"),
		OzonAPIKey:   viper.GetString("SELLER_TOKEN"),

		MarketToken:       viper.GetString("MARKET_TOKEN"),
		MarketCampaignID:  viper.GetString("CAMPAIGN_ID"),
		MarketWarehouseID: viper.GetString("WAREHOUSE_ID"),

		RulesFile: viper.GetString("RULES_FILE"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// OzonConfigured reports whether the Ozon credentials are present.
func (c *Config) OzonConfigured() bool {
	return c.OzonClientID != "" && c.OzonAPIKey != ""
}

// MarketConfigured reports whether the Yandex.Market credentials are present.
func (c *Config) MarketConfigured() bool {
	return c.MarketToken != "" && c.MarketCampaignID != "" && c.MarketWarehouseID != ""
}

// UpdateFromFlags updates config values from parsed command flags, so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials explicitly binds the credential environment variables to
// Viper so they resolve regardless of config-file keys.
func bindCredentials() {
	keys := []string{
		"FEED_URL",
		"FEED_HEADER_ROW",
		"FEED_WINDOWS1251",
		"CLIENT_ID",
		"SELLER_TOKEN",
		"MARKET_TOKEN",
		"CAMPAIGN_ID",
		"WAREHOUSE_ID",
		"RULES_FILE",
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if
// not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
