package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	DiscordClientID     string
	DiscordClientSecret string
	DiscordBotToken     string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=flashback port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		CORSOrigins:         getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		DiscordClientID:     getEnv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", ""),
		DiscordBotToken:     getEnv("DISCORD_BOT_TOKEN", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.DiscordClientID == "" || cfg.DiscordClientSecret == "" {
		log.Println("[WARN] DISCORD_CLIENT_ID/DISCORD_CLIENT_SECRET not set, the OAuth callback will reject every login")
	}
	if cfg.DiscordBotToken == "" {
		log.Println("[WARN] DISCORD_BOT_TOKEN not set, guild membership checks will fail closed")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
