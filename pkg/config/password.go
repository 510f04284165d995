package config

import (
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds password hashing and validation settings
type PasswordConfig struct {
	BcryptCost int `env:"BCRYPT_COST" env-default:"10"`
	MinLength  int `env:"PASSWORD_MIN_LENGTH" env-default:"8"`
}

// Cost returns the bcrypt work factor, clamped to the range bcrypt accepts
func (p PasswordConfig) Cost() int {
	if p.BcryptCost < bcrypt.MinCost || p.BcryptCost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return p.BcryptCost
}

// NewPasswordConfigFromEnv creates a PasswordConfig from environment variables
func NewPasswordConfigFromEnv() PasswordConfig {
	var cfg PasswordConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read password config from env", "err", err)
	}
	return cfg
}
