package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the backend needs at startup. Values come from
// config.yaml with environment-variable overrides (SERVER_PORT, DATABASE_URL,
// DISCORD_CLIENT_ID, ...).
type Config struct {
	Port        int
	DatabaseURL string

	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordCDN          string

	Target          float64
	Payout          float64
	LeaderboardSize int

	SessionTTL time.Duration
}

// Load reads .env, config.yaml, and the environment. Fatal when the database
// URL is missing.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigFile("config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Println("[INFO] No config.yaml found, using environment only")
	}

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("discord.cdn", "https://cdn.discordapp.com")
	viper.SetDefault("discord.redirect_uri", "http://localhost:8080/discord/callback")
	viper.SetDefault("donations.target", 140)
	viper.SetDefault("donations.payout", 140)
	viper.SetDefault("donations.leaderboard_size", 10)
	viper.SetDefault("session.ttl", 8*7*24*time.Hour) // 8 weeks

	cfg := &Config{
		Port:                viper.GetInt("server.port"),
		DatabaseURL:         viper.GetString("database.url"),
		DiscordClientID:     viper.GetString("discord.client_id"),
		DiscordClientSecret: viper.GetString("discord.client_secret"),
		DiscordRedirectURI:  viper.GetString("discord.redirect_uri"),
		DiscordCDN:          viper.GetString("discord.cdn"),
		Target:              viper.GetFloat64("donations.target"),
		Payout:              viper.GetFloat64("donations.payout"),
		LeaderboardSize:     viper.GetInt("donations.leaderboard_size"),
		SessionTTL:          viper.GetDuration("session.ttl"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}

	return cfg
}
