package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Redis     RedisConfig
	Simulator SimulatorConfig
}

// RedisConfig holds Redis-specific configuration. Leaving Addr empty runs
// the engine on the in-memory encounter store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SimulatorConfig holds defaults for encounters the simulator creates
type SimulatorConfig struct {
	GridWidth  int
	GridHeight int
	Seed       int64
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			TTL:      getEnvAsDurationOrDefault("ENCOUNTER_TTL", 24*time.Hour),
		},
		Simulator: SimulatorConfig{
			GridWidth:  getEnvAsIntOrDefault("GRID_WIDTH", 20),
			GridHeight: getEnvAsIntOrDefault("GRID_HEIGHT", 20),
			Seed:       int64(getEnvAsIntOrDefault("SIM_SEED", 0)),
		},
	}
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
