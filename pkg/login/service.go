package login

import (
	"context"
	"errors"
	"log/slog"

	pkgerr "github.com/tendant/simple-quiz/pkg/errors"
	"github.com/tendant/simple-quiz/pkg/user"
)

// LoginService checks credentials against the user repository. Login is
// permitted only for verified accounts; a correct password on an
// unverified account is still rejected.
type LoginService struct {
	repo   user.UserRepository
	hasher PasswordHasher
}

func NewLoginService(repo user.UserRepository, hasher PasswordHasher) *LoginService {
	return &LoginService{
		repo:   repo,
		hasher: hasher,
	}
}

// Login verifies username and password and returns the matching user.
// The invalid-credentials message is the same whether the username is
// unknown or the password is wrong.
func (s *LoginService) Login(ctx context.Context, username, password string) (*user.User, error) {
	if username == "" || password == "" {
		return nil, pkgerr.New(pkgerr.ErrCodeInvalidInput, "Username and password are required")
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			slog.Info("Login attempt for unknown username", "username", username)
			return nil, pkgerr.New(pkgerr.ErrCodeInvalidCredentials, "Invalid username or password")
		}
		slog.Error("Failed to look up user for login", "username", username, "err", err)
		return nil, err
	}

	ok, err := s.hasher.Verify(password, u.Password)
	if err != nil {
		slog.Error("Password verification failed", "username", username, "err", err)
		return nil, pkgerr.InternalWrap(err, "failed to verify password")
	}
	if !ok {
		slog.Info("Login attempt with wrong password", "username", username)
		return nil, pkgerr.New(pkgerr.ErrCodeInvalidCredentials, "Invalid username or password")
	}

	if !u.IsVerified {
		slog.Info("Login attempt on unverified account", "username", username)
		return nil, pkgerr.New(pkgerr.ErrCodeEmailNotVerified, "Email not verified")
	}

	return u, nil
}
