package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gene2phenotype/g2pbackend/services"
)

// APIErrorResponse is the standardized error response body.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// WriteAPIError writes a standardized error response with the given HTTP status and message.
func WriteAPIError(w http.ResponseWriter, httpStatus int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(APIErrorResponse{Error: message})
}

// WriteServiceError maps a service-layer error onto its HTTP status.
// Unexpected errors are logged and hidden behind a generic 500 so
// internal details never leak into responses.
func WriteServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var authErr *services.AuthorizationError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		WriteAPIError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		WriteAPIError(w, http.StatusNotFound, notFoundErr.Message)
	case errors.As(err, &authErr):
		WriteAPIError(w, http.StatusForbidden, authErr.Message)
	case errors.As(err, &conflictErr):
		WriteAPIError(w, http.StatusConflict, conflictErr.Message)
	default:
		log.Printf("internal error: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, httpStatus int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(payload)
}
