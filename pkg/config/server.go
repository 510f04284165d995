package config

import (
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Port        uint16 `env:"QUIZ_PORT" env-default:"7000"`
	CORSOrigins string `env:"CORS_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173"`
}

// NewServerConfigFromEnv creates a ServerConfig from environment variables
func NewServerConfigFromEnv() ServerConfig {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read server config from env", "err", err)
	}
	return cfg
}

// Origins returns the configured CORS origins as a slice
func (s ServerConfig) Origins() []string {
	var out []string
	for _, part := range strings.Split(s.CORSOrigins, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
