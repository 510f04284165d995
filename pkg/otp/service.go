package otp

import (
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	Issuer = "simple-quiz"

	defaultPeriod = 30
	defaultSkew   = 2
)

// Service generates and validates 6-digit TOTP passcodes. Each user gets
// a dedicated secret at registration; passcodes are derived from that
// secret, so resending never rotates it.
type Service struct {
	period uint
	skew   uint
}

type Option func(*Service)

// WithPeriod sets the passcode step in seconds.
func WithPeriod(period uint) Option {
	return func(s *Service) {
		if period > 0 {
			s.period = period
		}
	}
}

// WithSkew sets how many adjacent steps on either side of the current
// one are accepted during validation.
func WithSkew(skew uint) Option {
	return func(s *Service) {
		s.skew = skew
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		period: defaultPeriod,
		skew:   defaultSkew,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateSecret creates a new TOTP secret for an account.
func (s *Service) GenerateSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: accountName,
		Period:      s.period,
	})
	if err != nil {
		slog.Error("Failed to generate totp secret", "accountName", accountName, "issuer", Issuer, "error", err)
		return "", err
	}
	slog.Info("Generated new totp secret", "accountName", accountName)
	return key.Secret(), nil
}

// GeneratePasscode derives the passcode for the current step.
func (s *Service) GeneratePasscode(secret string) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, time.Now().UTC(), s.validateOpts())
	if err != nil {
		slog.Error("Failed to generate passcode", "error", err)
		return "", err
	}
	return code, nil
}

// ValidatePasscode reports whether the passcode matches the secret within
// the configured skew window.
func (s *Service) ValidatePasscode(secret, passcode string) (bool, error) {
	valid, err := totp.ValidateCustom(passcode, secret, time.Now().UTC(), s.validateOpts())
	if err != nil {
		slog.Error("Failed to validate passcode", "error", err)
		return false, err
	}
	return valid, nil
}

func (s *Service) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    s.period,
		Skew:      s.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}
