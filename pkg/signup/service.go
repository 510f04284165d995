package signup

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	pkgerr "github.com/tendant/simple-quiz/pkg/errors"
	"github.com/tendant/simple-quiz/pkg/login"
	"github.com/tendant/simple-quiz/pkg/notification"
	"github.com/tendant/simple-quiz/pkg/otp"
	"github.com/tendant/simple-quiz/pkg/user"
)

// SignupService handles user registration and email verification.
// Registration creates an unverified account with a dedicated TOTP
// secret and emails the current passcode; the account cannot log in
// until a passcode is confirmed.
type SignupService struct {
	repo              user.UserRepository
	hasher            login.PasswordHasher
	otpService        *otp.Service
	notificationMgr   *notification.NotificationManager
	minPasswordLength int
}

// SignupServiceOption is a functional option for configuring SignupService
type SignupServiceOption func(*SignupService)

// NewSignupService creates a new SignupService with the given options
func NewSignupService(opts ...SignupServiceOption) *SignupService {
	s := &SignupService{
		minPasswordLength: 8,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithUserRepository sets the user repository
func WithUserRepository(repo user.UserRepository) SignupServiceOption {
	return func(s *SignupService) {
		s.repo = repo
	}
}

// WithPasswordHasher sets the password hasher
func WithPasswordHasher(hasher login.PasswordHasher) SignupServiceOption {
	return func(s *SignupService) {
		s.hasher = hasher
	}
}

// WithOTPService sets the passcode service
func WithOTPService(svc *otp.Service) SignupServiceOption {
	return func(s *SignupService) {
		s.otpService = svc
	}
}

// WithNotificationManager sets the notification manager used for OTP emails
func WithNotificationManager(nm *notification.NotificationManager) SignupServiceOption {
	return func(s *SignupService) {
		s.notificationMgr = nm
	}
}

// WithMinPasswordLength sets the minimum accepted password length
func WithMinPasswordLength(n int) SignupServiceOption {
	return func(s *SignupService) {
		if n > 0 {
			s.minPasswordLength = n
		}
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegisterResult represents the result of user registration
type RegisterResult struct {
	UserID   string
	Username string
	Email    string
}

// Register creates a new unverified account and emails the verification
// passcode. The email is best effort: a delivery failure does not roll
// back the account, the passcode can be requested again via ResendOTP.
func (s *SignupService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" || email == "" || req.Password == "" {
		return nil, pkgerr.New(pkgerr.ErrCodeInvalidInput, "Username, email and password are required")
	}
	if len(req.Password) < s.minPasswordLength {
		return nil, pkgerr.Newf(pkgerr.ErrCodePasswordTooShort, "Password must be at least %d characters", s.minPasswordLength)
	}
	if req.Password != req.ConfirmPassword {
		return nil, pkgerr.New(pkgerr.ErrCodePasswordMismatch, "Passwords do not match")
	}

	// Pre-check for duplicates so the common case gets a clean error
	// without burning an insert. The unique indexes still catch races.
	existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		slog.Error("Failed to check existing user", "username", username, "err", err)
		return nil, err
	}
	if existing != nil {
		field := "email"
		if existing.Username == username {
			field = "username"
		}
		return nil, pkgerr.AlreadyExists(field)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "username", username, "err", err)
		return nil, pkgerr.InternalWrap(err, "failed to hash password")
	}

	secret, err := s.otpService.GenerateSecret(email)
	if err != nil {
		return nil, pkgerr.InternalWrap(err, "failed to generate verification secret")
	}

	id, err := s.repo.Insert(ctx, &user.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		OTPSecret: secret,
	})
	if err != nil {
		var dup user.DuplicateError
		if errors.As(err, &dup) {
			return nil, pkgerr.AlreadyExists(dup.Field)
		}
		slog.Error("Failed to insert user", "username", username, "err", err)
		return nil, err
	}

	if err := s.sendPasscode(email, secret); err != nil {
		slog.Error("Failed to send verification email", "email", email, "err", err)
		// Don't fail registration if email sending fails
	} else {
		slog.Info("Verification email sent", "email", email)
	}

	slog.Info("User registered", "username", username, "userId", id.Hex())
	return &RegisterResult{
		UserID:   id.Hex(),
		Username: username,
		Email:    email,
	}, nil
}

// VerifyOTP confirms the emailed passcode and marks the account
// verified. Verifying an already-verified account with a valid passcode
// succeeds.
func (s *SignupService) VerifyOTP(ctx context.Context, email, passcode string) error {
	email = strings.TrimSpace(email)
	if email == "" || passcode == "" {
		return pkgerr.New(pkgerr.ErrCodeInvalidInput, "Email and OTP are required")
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return pkgerr.New(pkgerr.ErrCodeUserNotFound, "User not found")
		}
		slog.Error("Failed to look up user for verification", "email", email, "err", err)
		return err
	}

	valid, err := s.otpService.ValidatePasscode(u.OTPSecret, passcode)
	if err != nil {
		return pkgerr.InternalWrap(err, "failed to validate passcode")
	}
	if !valid {
		slog.Info("Invalid passcode submitted", "email", email)
		return pkgerr.New(pkgerr.ErrCodeOTPInvalid, "Invalid or expired OTP")
	}

	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return pkgerr.New(pkgerr.ErrCodeUserNotFound, "User not found")
		}
		slog.Error("Failed to mark user verified", "email", email, "err", err)
		return err
	}

	slog.Info("Email verified", "email", email)
	return nil
}

// ResendOTP emails a fresh passcode derived from the account's existing
// secret. The secret is never rotated, so passcodes sent earlier in the
// same step remain valid.
func (s *SignupService) ResendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return pkgerr.New(pkgerr.ErrCodeInvalidInput, "Email is required")
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return pkgerr.New(pkgerr.ErrCodeUserNotFound, "User not found")
		}
		slog.Error("Failed to look up user for resend", "email", email, "err", err)
		return err
	}

	if u.IsVerified {
		return pkgerr.New(pkgerr.ErrCodeEmailAlreadyVerified, "Email already verified")
	}

	if err := s.sendPasscode(email, u.OTPSecret); err != nil {
		slog.Error("Failed to resend verification email", "email", email, "err", err)
		return pkgerr.InternalWrap(err, "failed to send verification email")
	}

	slog.Info("Verification email resent", "email", email)
	return nil
}

func (s *SignupService) sendPasscode(email, secret string) error {
	passcode, err := s.otpService.GeneratePasscode(secret)
	if err != nil {
		return err
	}

	if s.notificationMgr == nil {
		slog.Warn("No notification manager configured, skipping OTP email", "email", email)
		return nil
	}

	return s.notificationMgr.SendEmail(notification.OTPCodeNotice, notification.NotificationData{
		To: email,
		Data: map[string]string{
			"Passcode": passcode,
		},
	})
}
