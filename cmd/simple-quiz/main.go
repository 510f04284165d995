package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-quiz/pkg/config"
	"github.com/tendant/simple-quiz/pkg/dbconn"
	"github.com/tendant/simple-quiz/pkg/login"
	"github.com/tendant/simple-quiz/pkg/notification"
	"github.com/tendant/simple-quiz/pkg/otp"
	"github.com/tendant/simple-quiz/pkg/quiz"
	"github.com/tendant/simple-quiz/pkg/ratelimit"
	"github.com/tendant/simple-quiz/pkg/router"
	"github.com/tendant/simple-quiz/pkg/signup"
	"github.com/tendant/simple-quiz/pkg/tokengenerator"
	"github.com/tendant/simple-quiz/pkg/user"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	serverConfig := config.NewServerConfigFromEnv()
	mongoConfig := config.NewMongoConfigFromEnv()
	jwtConfig := config.NewJWTConfigFromEnv()
	emailConfig := config.NewEmailConfigFromEnv()
	otpConfig := config.NewOTPConfigFromEnv()
	passwordConfig := config.NewPasswordConfigFromEnv()
	rateLimitConfig := config.NewRateLimitConfigFromEnv()

	// Database connection with background reconnect. Index creation
	// runs as a bootstrap step on every successful (re)connect.
	conn, err := dbconn.NewManager(mongoConfig, dbconn.WithBootstrap(user.EnsureIndexes))
	if err != nil {
		slog.Error("Failed to create connection manager", "err", err)
		os.Exit(-1)
	}
	conn.Start(context.Background())

	notificationManager, err := notification.NewNotificationManager(
		notification.WithSMTP(emailConfig.ToSMTPConfig()),
		notification.WithOTPCodeTemplate(),
	)
	if err != nil {
		slog.Error("Failed to create notification manager", "err", err)
		os.Exit(-1)
	}

	userRepo := user.NewMongoUserRepository(conn)
	hasher := login.NewBcryptHasher(passwordConfig.Cost())
	otpService := otp.NewService(
		otp.WithPeriod(otpConfig.PeriodSeconds()),
		otp.WithSkew(otpConfig.Skew),
	)

	signupService := signup.NewSignupService(
		signup.WithUserRepository(userRepo),
		signup.WithPasswordHasher(hasher),
		signup.WithOTPService(otpService),
		signup.WithNotificationManager(notificationManager),
		signup.WithMinPasswordLength(passwordConfig.MinLength),
	)
	loginService := login.NewLoginService(userRepo, hasher)
	quizService := quiz.NewQuizService(quiz.NewMongoQuizRepository(conn))

	expiry, err := jwtConfig.ParseAccessTokenExpiry()
	if err != nil {
		slog.Error("Failed to parse access token expiry", "err", err)
		os.Exit(-1)
	}
	tokenGen := tokengenerator.NewJwtTokenGenerator(
		jwtConfig.Secret,
		jwtConfig.Issuer,
		jwtConfig.Audience,
		expiry,
	)

	server := app.NewApp(
		app.WithPort(int(serverConfig.Port)),
		app.WithCors(&cors.Options{
			AllowedOrigins:   serverConfig.Origins(),
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	router.SetupRoutes(server.R, router.Config{
		SignupHandle: signup.NewHandle(signupService),
		LoginHandle:  login.NewHandle(loginService, tokenGen),
		QuizHandle:   quiz.NewHandle(quizService),
		JWTAuth:      tokengenerator.NewJWTAuth(jwtConfig.Secret),
		DBConn:       conn,
		RateLimiter:  ratelimit.NewMiddleware(ratelimit.FromEnvConfig(rateLimitConfig)),
		StartedAt:    time.Now(),
	})

	slog.Info("Quiz service ready", "port", serverConfig.Port)
	server.Run()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.Close(shutdownCtx); err != nil {
		slog.Error("Failed to close database connection", "err", err)
	}
}
