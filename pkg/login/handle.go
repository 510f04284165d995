package login

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tendant/simple-quiz/pkg/api"
	"github.com/tendant/simple-quiz/pkg/auth"
	pkgerr "github.com/tendant/simple-quiz/pkg/errors"
	"github.com/tendant/simple-quiz/pkg/tokengenerator"
	"github.com/tendant/simple-quiz/pkg/user"
)

type Handle struct {
	loginService *LoginService
	tokenGen     tokengenerator.TokenGenerator
}

func NewHandle(loginService *LoginService, tokenGen tokengenerator.TokenGenerator) *Handle {
	return &Handle{
		loginService: loginService,
		tokenGen:     tokenGen,
	}
}

type loginRequestBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginRedirect is the front-end destination a client should load
// after a successful login.
const loginRedirect = "/quiz"

type loginResponseBody struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      user.ApiUser `json:"user"`
	Redirect  string       `json:"redirect"`
}

// Login handles POST /api/login
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Failed to decode login request body", "error", err)
		api.RespondError(w, r, pkgerr.New(pkgerr.ErrCodeInvalidInput, "Invalid request body"))
		return
	}

	u, err := h.loginService.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		api.RespondError(w, r, err)
		return
	}

	token, expiresAt, err := h.tokenGen.GenerateToken(u.ID.Hex(), u.Username)
	if err != nil {
		api.RespondError(w, r, pkgerr.InternalWrap(err, "failed to issue token"))
		return
	}

	api.RespondJSON(w, r, http.StatusOK, loginResponseBody{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u.ToApiUser(),
		Redirect:  loginRedirect,
	})
}

type checkAuthResponseBody struct {
	Success bool           `json:"success"`
	User    *auth.AuthUser `json:"user"`
}

// CheckAuth handles GET /api/check-auth. It runs behind the token
// middleware, so reaching here means the session is valid.
func (h *Handle) CheckAuth(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.AuthUserFromContext(r.Context())
	if !ok {
		api.RespondError(w, r, pkgerr.New(pkgerr.ErrCodeTokenInvalid, "Invalid or expired token"))
		return
	}

	api.RespondJSON(w, r, http.StatusOK, checkAuthResponseBody{
		Success: true,
		User:    authUser,
	})
}
