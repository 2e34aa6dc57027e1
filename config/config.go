package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	MongoDBName       string `mapstructure:"MONGO_DB_NAME"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisWorkerDB int    `mapstructure:"REDIS_WORKER_DB"`

	// Booking engine tuning.
	BookingLockTTLSeconds    int  `mapstructure:"BOOKING_LOCK_TTL_SECONDS"`
	AvailabilityCacheSeconds int  `mapstructure:"AVAILABILITY_CACHE_SECONDS"`
	MongoTransactions        bool `mapstructure:"MONGO_TRANSACTIONS"`
	AutoConfirm              bool `mapstructure:"AUTO_CONFIRM"`
	SlotGranularityMinutes   int  `mapstructure:"SLOT_GRANULARITY_MINUTES"`
	BufferMinutes            int  `mapstructure:"BUFFER_MINUTES"`
	CompletionSweepMinutes   int  `mapstructure:"COMPLETION_SWEEP_MINUTES"`
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
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "slotify")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_WORKER_DB", 2)
	viper.SetDefault("BOOKING_LOCK_TTL_SECONDS", 5)
	viper.SetDefault("AVAILABILITY_CACHE_SECONDS", 60)
	viper.SetDefault("MONGO_TRANSACTIONS", true)
	viper.SetDefault("AUTO_CONFIRM", false)
	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 30)
	viper.SetDefault("BUFFER_MINUTES", 0)
	viper.SetDefault("COMPLETION_SWEEP_MINUTES", 10)

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
