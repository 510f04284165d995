package config

import (
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// JWTConfig holds session token configuration
// This is shared across all services to avoid duplication
type JWTConfig struct {
	Secret            string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	AccessTokenExpiry string `env:"ACCESS_TOKEN_EXPIRY" env-default:"1h"`
	Issuer            string `env:"JWT_ISSUER" env-default:"simple-quiz"`
	Audience          string `env:"JWT_AUDIENCE" env-default:"simple-quiz"`
}

// ParseAccessTokenExpiry parses the access token expiry duration
func (j JWTConfig) ParseAccessTokenExpiry() (time.Duration, error) {
	return ParseDuration(j.AccessTokenExpiry)
}

// NewJWTConfigFromEnv creates a JWTConfig from environment variables
func NewJWTConfigFromEnv() JWTConfig {
	var cfg JWTConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read jwt config from env", "err", err)
	}
	return cfg
}
