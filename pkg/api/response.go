// Package api holds the shared HTTP response envelope. Every endpoint
// answers with {"success": bool, ...}; error responses carry a message
// and nothing else.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	pkgerr "github.com/tendant/simple-quiz/pkg/errors"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageResponse is a success body that only carries a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondJSON writes a success payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// RespondMessage writes a {"success":true,"message":...} body.
func RespondMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondJSON(w, r, status, MessageResponse{Success: true, Message: message})
}

// RespondError maps a service error to its HTTP status and writes the
// uniform error body. Uncoded errors become an opaque 500 so internal
// detail never reaches the client.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var coded *pkgerr.Error
	if errors.As(err, &coded) {
		status := coded.HTTPStatusCode()
		if status == http.StatusInternalServerError {
			slog.Error("Request failed", "code", coded.Code, "err", err, "path", r.URL.Path)
			render.Status(r, status)
			render.JSON(w, r, ErrorResponse{Success: false, Message: "Internal server error"})
			return
		}
		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Success: false, Message: coded.Message})
		return
	}

	slog.Error("Request failed", "err", err, "path", r.URL.Path)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Success: false, Message: "Internal server error"})
}
