package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Marketplace backend the engine dispatches against.
	BackendBaseURL string        `mapstructure:"BACKEND_BASE_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	// Dispatch thresholds. These are product knobs, not literals:
	// visibility and acceptance are two independent gates.
	VisibilityRadiusKm   float64       `mapstructure:"VISIBILITY_RADIUS_KM"`
	AcceptanceRadiusKm   float64       `mapstructure:"ACCEPTANCE_RADIUS_KM"`
	GeofenceRadiusMeters float64       `mapstructure:"GEOFENCE_RADIUS_METERS"`
	RefreshInterval      time.Duration `mapstructure:"REFRESH_INTERVAL"`
	AcceptMaxAttempts    int           `mapstructure:"ACCEPT_MAX_ATTEMPTS"`
	LoadMaxRetries       int           `mapstructure:"LOAD_MAX_RETRIES"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAlertDB  int    `mapstructure:"REDIS_ALERT_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8081")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:8080")
	viper.SetDefault("BACKEND_TIMEOUT", "15s")
	viper.SetDefault("VISIBILITY_RADIUS_KM", 50.0)
	viper.SetDefault("ACCEPTANCE_RADIUS_KM", 10.0)
	viper.SetDefault("GEOFENCE_RADIUS_METERS", 500.0)
	viper.SetDefault("REFRESH_INTERVAL", "30s")
	viper.SetDefault("ACCEPT_MAX_ATTEMPTS", 3)
	viper.SetDefault("LOAD_MAX_RETRIES", 3)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_ALERT_DB", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
