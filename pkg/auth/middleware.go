package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

// AuthUser is the authenticated identity attached to the request
// context once the session token has been verified.
type AuthUser struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

func (u AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("userId", u.UserID),
		slog.String("username", u.Username),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "auth context value " + k.name
}

var AuthUserKey = &contextKey{"AuthUser"}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Success: false, Message: message})
}

// Verifier extracts the bearer token from the Authorization header and
// stashes the verification result in the request context.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader)(next)
	}
}

// Authenticator rejects requests whose token is absent or invalid. A
// missing token gets 401; a token that is present but expired or
// malformed gets 403.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				writeError(w, r, http.StatusUnauthorized, "No token provided")
				return
			}
			writeError(w, r, http.StatusForbidden, "Invalid or expired token")
			return
		}

		if token == nil {
			writeError(w, r, http.StatusUnauthorized, "No token provided")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AuthUserMiddleware builds an AuthUser from the verified token claims
// and adds it to the request context. Runs after Authenticator, so the
// token is known to be valid here.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || claims == nil {
			writeError(w, r, http.StatusForbidden, "Invalid or expired token")
			return
		}

		authUser := &AuthUser{}
		if v, ok := claims["user_id"].(string); ok {
			authUser.UserID = v
		}
		if v, ok := claims["username"].(string); ok {
			authUser.Username = v
		}

		if authUser.UserID == "" {
			writeError(w, r, http.StatusForbidden, "Invalid or expired token")
			return
		}

		slog.Debug("authenticated user", "user", authUser)

		ctx := context.WithValue(r.Context(), AuthUserKey, authUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthUserFromContext returns the AuthUser placed by AuthUserMiddleware.
func AuthUserFromContext(ctx context.Context) (*AuthUser, bool) {
	u, ok := ctx.Value(AuthUserKey).(*AuthUser)
	return u, ok
}
