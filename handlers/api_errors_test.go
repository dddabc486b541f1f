package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gene2phenotype/g2pbackend/services"
)

func TestWriteServiceErrorMapsStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation maps to 400",
			err:        services.NewValidationError("Invalid genotype '%s' for locus '%s'", "mitochondrial", "CTNNB1"),
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid genotype 'mitochondrial' for locus 'CTNNB1'",
		},
		{
			name:       "not found maps to 404",
			err:        services.NewNotFoundError("Could not find a G2P record with ID '%s'", "G2P99999"),
			wantStatus: http.StatusNotFound,
			wantBody:   "Could not find a G2P record with ID 'G2P99999'",
		},
		{
			name:       "authorization maps to 403",
			err:        services.NewAuthorizationError("No permission to delete '%s'", "G2P00001"),
			wantStatus: http.StatusForbidden,
			wantBody:   "No permission to delete 'G2P00001'",
		},
		{
			name:       "conflict maps to 409",
			err:        services.NewConflictError("Cannot update 'molecular mechanism' for ID '%s'", "G2P00001"),
			wantStatus: http.StatusConflict,
			wantBody:   "Cannot update 'molecular mechanism' for ID 'G2P00001'",
		},
		{
			name:       "unknown errors stay generic",
			err:        errors.New("sqlite is on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body APIErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Error != tt.wantBody {
				t.Errorf("error = %q, want %q", body.Error, tt.wantBody)
			}
		})
	}
}

func TestWriteServiceErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), services.NewNotFoundError("Invalid publication '%d'", 12345))

	rec := httptest.NewRecorder()
	WriteServiceError(rec, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
