package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-quiz/pkg/api"
	"github.com/tendant/simple-quiz/pkg/auth"
	pkgerr "github.com/tendant/simple-quiz/pkg/errors"
	"github.com/tendant/simple-quiz/pkg/login"
	"github.com/tendant/simple-quiz/pkg/quiz"
	"github.com/tendant/simple-quiz/pkg/ratelimit"
	"github.com/tendant/simple-quiz/pkg/signup"
)

// ConnectionStatus reports whether the document store is reachable.
// Satisfied by dbconn.Manager.
type ConnectionStatus interface {
	Connected() bool
}

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	SignupHandle *signup.Handle
	LoginHandle  *login.Handle
	QuizHandle   *quiz.Handle

	// JWT authentication
	JWTAuth *jwtauth.JWTAuth

	// Database connection state, used by the health endpoint and the
	// availability gate on data routes
	DBConn ConnectionStatus

	// Rate limiting (optional: nil disables it)
	RateLimiter *ratelimit.Middleware

	// StartedAt anchors the uptime reported by the health endpoint
	StartedAt time.Time
}

type healthResponse struct {
	Status      string  `json:"status"`
	DBConnected bool    `json:"dbConnected"`
	Uptime      float64 `json:"uptime"`
}

// SetupRoutes mounts all quiz service routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Handler)
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "Quiz API is running")
	})

	// Health reports liveness regardless of database state; clients
	// read dbConnected to decide whether data routes will answer.
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, healthResponse{
			Status:      "ok",
			DBConnected: cfg.DBConn.Connected(),
			Uptime:      time.Since(cfg.StartedAt).Seconds(),
		})
	})

	// Public auth routes
	router.Group(func(r chi.Router) {
		r.Use(requireDatabase(cfg.DBConn))

		r.Post("/api/register", cfg.SignupHandle.Register)
		r.Post("/api/verify-otp", cfg.SignupHandle.VerifyOTP)
		r.Post("/api/resend-otp", cfg.SignupHandle.ResendOTP)
		r.Post("/api/login", cfg.LoginHandle.Login)
	})

	// Session check only needs a valid token, not the database
	router.Group(func(r chi.Router) {
		r.Use(auth.Verifier(cfg.JWTAuth))
		r.Use(auth.Authenticator)
		r.Use(auth.AuthUserMiddleware)

		r.Get("/api/check-auth", cfg.LoginHandle.CheckAuth)
	})

	// Protected quiz routes
	router.Group(func(r chi.Router) {
		r.Use(auth.Verifier(cfg.JWTAuth))
		r.Use(auth.Authenticator)
		r.Use(auth.AuthUserMiddleware)
		r.Use(requireDatabase(cfg.DBConn))

		r.Get("/quizes", cfg.QuizHandle.ListCollections)
		r.Get("/quizes/{collectionName}", cfg.QuizHandle.GetQuestions)
	})
}

// requireDatabase answers 503 on data routes while the connection
// manager is still reconnecting.
func requireDatabase(conn ConnectionStatus) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !conn.Connected() {
				api.RespondError(w, r, pkgerr.New(pkgerr.ErrCodeServiceUnavailable, "Database connection unavailable, please try again shortly"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
