package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/repository"
	"github.com/gene2phenotype/g2pbackend/services"
	"github.com/go-chi/chi/v5"
)

type RecordHandler struct {
	RecordSvc *services.RecordService
	LGDRepo   repository.LGDRepositoryInterface
}

func NewRecordHandler(recordSvc *services.RecordService, lgdRepo repository.LGDRepositoryInterface) *RecordHandler {
	return &RecordHandler{RecordSvc: recordSvc, LGDRepo: lgdRepo}
}

// RecordResponse is the full public view of a record: the core tuple
// plus its active child rows
type RecordResponse struct {
	*models.LocusGenotypeDisease
	Panels       []models.LGDPanel             `json:"panels"`
	Publications []models.LGDPublication       `json:"publications"`
	Synopses     []models.LGDMechanismSynopsis `json:"mechanism_synopses"`
}

// GetRecord serves a single record by stable ID
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	stableID := chi.URLParam(r, "stableID")
	lgd, err := h.LGDRepo.GetByStableID(stableID)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound,
			"Could not find a G2P record with ID '"+stableID+"'")
		return
	}

	panels, err := h.LGDRepo.ActivePanels(lgd.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	publications, err := h.LGDRepo.ActivePublications(lgd.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	synopses, err := h.LGDRepo.ActiveSynopses(lgd.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RecordResponse{
		LocusGenotypeDisease: lgd,
		Panels:               panels,
		Publications:         publications,
		Synopses:             synopses,
	})
}

// DeleteRecord soft-deletes the record and everything under it
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	stableID := chi.URLParam(r, "stableID")
	if err := h.RecordSvc.Delete(user, stableID); err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Record '" + stableID + "' deleted successfully",
	})
}

type UpdateConfidencePayload struct {
	Confidence    string `json:"confidence"`
	Justification string `json:"confidence_support"`
}

func (h *RecordHandler) UpdateConfidence(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload UpdateConfidencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	lgd, err := h.RecordSvc.UpdateConfidence(user, chi.URLParam(r, "stableID"), payload.Confidence, payload.Justification)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lgd)
}

func (h *RecordHandler) UpdateMechanism(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload services.MechanismUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	lgd, err := h.RecordSvc.UpdateMechanism(user, chi.URLParam(r, "stableID"), payload)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lgd)
}

// Merge runs a batch of record merges; partial failure is reported per
// pair, not as a request-level error
func (h *RecordHandler) Merge(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload []services.MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(payload) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "No merge requests provided")
		return
	}

	result := h.RecordSvc.Merge(user, payload)
	status := http.StatusOK
	if len(result.Merged) == 0 && len(result.Errors) > 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

// History serves the audit trail of a record
func (h *RecordHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.RecordSvc.History(chi.URLParam(r, "stableID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
