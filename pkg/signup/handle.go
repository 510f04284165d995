package signup

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tendant/simple-quiz/pkg/api"
	pkgerr "github.com/tendant/simple-quiz/pkg/errors"
)

type Handle struct {
	signupService *SignupService
}

func NewHandle(signupService *SignupService) *Handle {
	return &Handle{signupService: signupService}
}

type registerRequestBody struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type registerResponseBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// Register handles POST /api/register
func (h *Handle) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Failed to decode register request body", "error", err)
		api.RespondError(w, r, pkgerr.New(pkgerr.ErrCodeInvalidInput, "Invalid request body"))
		return
	}

	result, err := h.signupService.Register(r.Context(), RegisterRequest{
		Username:        body.Username,
		Email:           body.Email,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
	})
	if err != nil {
		api.RespondError(w, r, err)
		return
	}

	api.RespondJSON(w, r, http.StatusCreated, registerResponseBody{
		Success: true,
		Message: "Registration successful. Check your email for the verification code.",
		UserID:  result.UserID,
	})
}

type verifyOTPRequestBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP handles POST /api/verify-otp
func (h *Handle) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body verifyOTPRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Failed to decode verify-otp request body", "error", err)
		api.RespondError(w, r, pkgerr.New(pkgerr.ErrCodeInvalidInput, "Invalid request body"))
		return
	}

	if err := h.signupService.VerifyOTP(r.Context(), body.Email, body.OTP); err != nil {
		api.RespondError(w, r, err)
		return
	}

	api.RespondMessage(w, r, http.StatusOK, "Email verified successfully")
}

type resendOTPRequestBody struct {
	Email string `json:"email"`
}

// ResendOTP handles POST /api/resend-otp
func (h *Handle) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var body resendOTPRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Failed to decode resend-otp request body", "error", err)
		api.RespondError(w, r, pkgerr.New(pkgerr.ErrCodeInvalidInput, "Invalid request body"))
		return
	}

	if err := h.signupService.ResendOTP(r.Context(), body.Email); err != nil {
		api.RespondError(w, r, err)
		return
	}

	api.RespondMessage(w, r, http.StatusOK, "Verification code sent")
}
