package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr string
	RedisPwd  string

	WebOrigin  string
	SessionTTL time.Duration

	// First-admin bootstrap; skipped when empty or an admin already exists.
	BootstrapEmail    string
	BootstrapPassword string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
}

func Load() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("SESSION_TTL_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			ttl = d
		}
	}

	return Config{
		DBHost:     get("DB_HOST", "127.0.0.1"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     get("DB_NAME", "chemlab"),
		DBPort:     get("DB_PORT", "5432"),

		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),

		WebOrigin:  get("WEB_ORIGIN", "http://localhost:5173"),
		SessionTTL: ttl,

		BootstrapEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}
}
