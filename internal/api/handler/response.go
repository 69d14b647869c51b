package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// acquisitionStatus maps an acquisition error to an HTTP status code.
// Deadline checks come first because strategies wrap context errors.
func acquisitionStatus(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case domain.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrResolutionFailed),
		errors.Is(err, domain.ErrDownloadFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
