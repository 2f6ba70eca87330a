package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppURL                 string
	DatabaseDriver         string
	DatabaseDSN            string
	RedisAddr              string
	RedisEnabled           bool
	JWTSecret              string
	RateLimit              int
	Timezone               string
	SweepHour              int
	SweepMinute            int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDriver:         getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:            getEnv("DATABASE_DSN", "hrms.db"),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisEnabled:           getEnvAsBool("REDIS_ENABLED", true),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		Timezone:               getEnv("TIMEZONE", "Asia/Kolkata"),
		SweepHour:              getEnvAsInt("SWEEP_HOUR", 18),
		SweepMinute:            getEnvAsInt("SWEEP_MINUTE", 30),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDriver != "mysql" && cfg.DatabaseDriver != "sqlite" {
		log.Fatal("DATABASE_DRIVER must be mysql or sqlite")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.SweepHour < 0 || cfg.SweepHour > 23 {
		log.Fatal("SWEEP_HOUR must be between 0 and 23")
	}
	if cfg.SweepMinute < 0 || cfg.SweepMinute > 59 {
		log.Fatal("SWEEP_MINUTE must be between 0 and 59")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		log.Fatalf("invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}
}

// Location resolves the configured timezone. Validity was checked at load.
func (c Config) Location() *time.Location {
	loc, _ := time.LoadLocation(c.Timezone)
	return loc
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Fatalf("invalid boolean value for %s", key)
		}
		return b
	}
	return defaultVal
}
