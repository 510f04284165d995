package config

import (
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// OTPConfig holds one-time-passcode configuration.
// The window (period * skew on each side) exists because emailed codes
// suffer delivery delay; a single-step check would fail spuriously.
type OTPConfig struct {
	Period string `env:"OTP_PERIOD" env-default:"30s"`
	Skew   uint   `env:"OTP_SKEW" env-default:"2"`
}

// ParsePeriod parses the TOTP time step
func (o OTPConfig) ParsePeriod() (time.Duration, error) {
	return ParseDuration(o.Period)
}

// PeriodSeconds returns the TOTP time step in whole seconds, falling back
// to the 30-second standard when the configured value cannot be parsed
func (o OTPConfig) PeriodSeconds() uint {
	d, err := o.ParsePeriod()
	if err != nil || d <= 0 {
		return 30
	}
	return uint(d / time.Second)
}

// NewOTPConfigFromEnv creates an OTPConfig from environment variables
func NewOTPConfigFromEnv() OTPConfig {
	var cfg OTPConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read otp config from env", "err", err)
	}
	return cfg
}
