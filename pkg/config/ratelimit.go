package config

import (
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
)

// RateLimitConfig contains rate limiting settings for the public auth
// endpoints. Fields map to token bucket capacity plus refill rate in
// tokens per second.
type RateLimitConfig struct {
	// Global rate limiting
	GlobalEnabled    bool    `env:"RATELIMIT_GLOBAL_ENABLED" env-default:"true"`
	GlobalCapacity   int     `env:"RATELIMIT_GLOBAL_CAPACITY" env-default:"1000"`
	GlobalRefillRate float64 `env:"RATELIMIT_GLOBAL_REFILL_RATE" env-default:"16.67"`

	// Per-IP rate limiting
	PerIPEnabled    bool    `env:"RATELIMIT_PER_IP_ENABLED" env-default:"true"`
	PerIPCapacity   int     `env:"RATELIMIT_PER_IP_CAPACITY" env-default:"100"`
	PerIPRefillRate float64 `env:"RATELIMIT_PER_IP_REFILL_RATE" env-default:"1.67"`

	// Login endpoint specific limits (to prevent brute force)
	LoginEnabled    bool    `env:"RATELIMIT_LOGIN_ENABLED" env-default:"true"`
	LoginCapacity   int     `env:"RATELIMIT_LOGIN_CAPACITY" env-default:"10"`
	LoginRefillRate float64 `env:"RATELIMIT_LOGIN_REFILL_RATE" env-default:"0.167"`

	// Register endpoint specific limits
	RegisterEnabled    bool    `env:"RATELIMIT_REGISTER_ENABLED" env-default:"true"`
	RegisterCapacity   int     `env:"RATELIMIT_REGISTER_CAPACITY" env-default:"5"`
	RegisterRefillRate float64 `env:"RATELIMIT_REGISTER_REFILL_RATE" env-default:"0.017"`

	// Resend-OTP endpoint specific limits; the OTP secret is reused
	// across resends, so this is the only brake on code requests
	ResendOTPEnabled    bool    `env:"RATELIMIT_RESEND_OTP_ENABLED" env-default:"true"`
	ResendOTPCapacity   int     `env:"RATELIMIT_RESEND_OTP_CAPACITY" env-default:"3"`
	ResendOTPRefillRate float64 `env:"RATELIMIT_RESEND_OTP_REFILL_RATE" env-default:"0.0166"`

	// IncludeHeaders controls whether rate limit headers are included in responses
	IncludeHeaders bool `env:"RATELIMIT_INCLUDE_HEADERS" env-default:"true"`
}

// NewRateLimitConfigFromEnv creates a RateLimitConfig from environment variables
func NewRateLimitConfigFromEnv() RateLimitConfig {
	var cfg RateLimitConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read rate limit config from env", "err", err)
	}
	return cfg
}

// DefaultRateLimitConfig returns a RateLimitConfig with sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		// Global: ~1000 requests per minute
		GlobalEnabled:    true,
		GlobalCapacity:   1000,
		GlobalRefillRate: 16.67,

		// Per-IP: ~100 requests per minute
		PerIPEnabled:    true,
		PerIPCapacity:   100,
		PerIPRefillRate: 1.67,

		// Login: 10 per minute (brute force protection)
		LoginEnabled:    true,
		LoginCapacity:   10,
		LoginRefillRate: 0.167,

		// Register: 5 per 5 minutes
		RegisterEnabled:    true,
		RegisterCapacity:   5,
		RegisterRefillRate: 0.017,

		// Resend OTP: 3 per 3 minutes
		ResendOTPEnabled:    true,
		ResendOTPCapacity:   3,
		ResendOTPRefillRate: 0.0166,

		IncludeHeaders: true,
	}
}
