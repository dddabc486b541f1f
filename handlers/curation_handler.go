package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/services"
	"github.com/go-chi/chi/v5"
)

type CurationHandler struct {
	CurationSvc *services.CurationService
	RecordSvc   *services.RecordService
}

func NewCurationHandler(curationSvc *services.CurationService, recordSvc *services.RecordService) *CurationHandler {
	return &CurationHandler{CurationSvc: curationSvc, RecordSvc: recordSvc}
}

// CreateDraft saves a new curation entry and returns it with its
// assigned stable ID
func (h *CurationHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload models.CurationJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	draft, err := h.CurationSvc.CreateDraft(user, payload)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

func (h *CurationHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	drafts, err := h.CurationSvc.ListDrafts(user)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

func (h *CurationHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	draft, err := h.CurationSvc.GetDraft(user, chi.URLParam(r, "stableID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *CurationHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload models.CurationJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	draft, err := h.CurationSvc.UpdateDraft(user, chi.URLParam(r, "stableID"), payload)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *CurationHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.CurationSvc.DeleteDraft(user, chi.URLParam(r, "stableID")); err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Curation deleted"})
}

// Publish turns the draft into a live record
func (h *CurationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	lgd, err := h.RecordSvc.Publish(user, chi.URLParam(r, "stableID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lgd)
}
