package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultEnv           = "local"
	defaultConfigDir     = ".fieldsync"
	defaultSyncInterval  = 30
	defaultSettleDelayMs = 1000
	defaultCacheTTL      = 60
	defaultWorkHoursFrom = 7
	defaultWorkHoursTo   = 18
)

type Config struct {
	Env           string `mapstructure:"app_env"`
	ServerAddress string `mapstructure:"server_address"`
	LogLevel      string `mapstructure:"log_level"`
	ConfigDir     string `mapstructure:"config_dir"`
	DataPath      string `mapstructure:"data_path"`
	EnableTLS     bool   `mapstructure:"enable_tls"`

	// Identity used for emergency claims; comes from provisioning, not a login flow.
	UserID   string `mapstructure:"user_id"`
	UserName string `mapstructure:"user_name"`

	// Sync scheduling knobs. These are configuration constants of the
	// subsystem, not flags.
	SyncIntervalSeconds int `mapstructure:"sync_interval_seconds"`
	SettleDelayMillis   int `mapstructure:"settle_delay_millis"`
	CacheTTLSeconds     int `mapstructure:"cache_ttl_seconds"`

	// Work-hours window selecting the emergency alert tone pattern.
	WorkHoursFrom int `mapstructure:"work_hours_from"`
	WorkHoursTo   int `mapstructure:"work_hours_to"`
}

// MustLoad loads the agent configuration from .env and the environment.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", defaultSyncInterval)
	viper.SetDefault("SETTLE_DELAY_MILLIS", defaultSettleDelayMs)
	viper.SetDefault("CACHE_TTL_SECONDS", defaultCacheTTL)
	viper.SetDefault("WORK_HOURS_FROM", defaultWorkHoursFrom)
	viper.SetDefault("WORK_HOURS_TO", defaultWorkHoursTo)
	viper.SetDefault("ENABLE_TLS", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "agent.db")
	}

	config := &Config{
		Env:                 viper.GetString("APP_ENV"),
		ServerAddress:       viper.GetString("SERVER_ADDRESS"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		ConfigDir:           configDir,
		DataPath:            dataPath,
		EnableTLS:           viper.GetBool("ENABLE_TLS"),
		UserID:              viper.GetString("USER_ID"),
		UserName:            viper.GetString("USER_NAME"),
		SyncIntervalSeconds: viper.GetInt("SYNC_INTERVAL_SECONDS"),
		SettleDelayMillis:   viper.GetInt("SETTLE_DELAY_MILLIS"),
		CacheTTLSeconds:     viper.GetInt("CACHE_TTL_SECONDS"),
		WorkHoursFrom:       viper.GetInt("WORK_HOURS_FROM"),
		WorkHoursTo:         viper.GetInt("WORK_HOURS_TO"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address must not be empty")
	}
	if c.SyncIntervalSeconds <= 0 {
		return fmt.Errorf("sync_interval_seconds must be positive")
	}
	if c.WorkHoursFrom < 0 || c.WorkHoursTo > 24 || c.WorkHoursFrom >= c.WorkHoursTo {
		return fmt.Errorf("work hours window %d-%d is invalid", c.WorkHoursFrom, c.WorkHoursTo)
	}
	return nil
}

// IsLocal reports whether the agent runs in the local environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
