package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mextra/pos-backend/pkg/apperr"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps the error taxonomy onto HTTP status codes
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperr.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperr.ErrInsufficientStock):
		status = http.StatusConflict
		message = err.Error()
	}

	respondJSON(w, status, Response{Success: false, Error: message})
}

func respondInvalidBody(w http.ResponseWriter) {
	respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
}
