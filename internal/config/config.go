// Package config reads process configuration from the environment. Values
// come from real env vars or a .env file loaded by godotenv in main.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the server's tunables.
type Config struct {
	Port                string
	MetricsAddr         string
	RoomGracePeriod     time.Duration
	PlayAgainResetDelay time.Duration
	MaxPlayers          int
}

// Load reads the configuration, falling back to the reference defaults.
func Load() Config {
	return Config{
		Port:                GetEnv("PORT", "8080"),
		MetricsAddr:         GetEnv("METRICS_ADDR", ""),
		RoomGracePeriod:     GetEnvDuration("ROOM_GRACE_PERIOD", 30*time.Second),
		PlayAgainResetDelay: GetEnvDuration("PLAY_AGAIN_RESET_DELAY", 2*time.Second),
		MaxPlayers:          GetEnvInt("MAX_PLAYERS", 10),
	}
}

// GetEnv reads an environment variable or returns a default.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt parses an environment variable as an integer, else a default.
func GetEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// GetEnvDuration parses an environment variable as a time.Duration, else a
// default.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
