package handlers

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"time"

	"github.com/facette/natsort"
	"github.com/gene2phenotype/g2pbackend/database"
	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/permissions"
	"github.com/gene2phenotype/g2pbackend/repository"
	"github.com/go-chi/chi/v5"
)

// PanelHandler serves per-panel views: the summary, the CSV download
// and invite management
type PanelHandler struct {
	SQLDB    *sql.DB
	RefRepo  repository.ReferenceRepositoryInterface
	UserRepo repository.UserRepositoryInterface
}

func NewPanelHandler(sqlDB *sql.DB, refRepo repository.ReferenceRepositoryInterface, userRepo repository.UserRepositoryInterface) *PanelHandler {
	return &PanelHandler{SQLDB: sqlDB, RefRepo: refRepo, UserRepo: userRepo}
}

type PanelSummary struct {
	Panel       models.Panel `json:"panel"`
	RecordCount int          `json:"record_count"`
}

// GetPanel serves a panel with its live record count
func (h *PanelHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "panelName")
	panel, err := h.RefRepo.GetPanelByName(name)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "Panel '"+name+"' not found")
		return
	}

	rows, err := database.GetPanelExportRows(h.SQLDB, panel.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PanelSummary{Panel: *panel, RecordCount: len(rows)})
}

// Download streams the panel's live records as CSV, ordered by stable
// ID so consecutive exports diff cleanly
func (h *PanelHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "panelName")
	panel, err := h.RefRepo.GetPanelByName(name)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "Panel '"+name+"' not found")
		return
	}

	rows, err := database.GetPanelExportRows(h.SQLDB, panel.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	byStableID := make(map[string]database.PanelExportRow, len(rows))
	stableIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		byStableID[row.StableID] = row
		stableIDs = append(stableIDs, row.StableID)
	}
	natsort.Sort(stableIDs)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		"attachment; filename=\""+panel.Name+"_records_"+time.Now().Format("2006-01-02")+".csv\"")

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"g2p id", "gene symbol", "allelic requirement", "disease name",
		"molecular mechanism", "confidence", "date of last review"})
	for _, id := range stableIDs {
		row := byStableID[id]
		dateReview := ""
		if row.DateReview.Valid {
			dateReview = row.DateReview.String
		}
		_ = writer.Write([]string{row.StableID, row.GeneSymbol, row.Genotype, row.DiseaseName,
			row.Mechanism, row.Confidence, dateReview})
	}
	writer.Flush()
}

type createInvitePayload struct {
	ExpiresInHours *int `json:"expires_in_hours"`
	MaxUses        *int `json:"max_uses"`
}

// CreateInvite generates an invitation code for the panel. The actor
// needs the invite permission on that panel.
func (h *PanelHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	name := chi.URLParam(r, "panelName")
	panel, err := h.RefRepo.GetPanelByName(name)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "Panel '"+name+"' not found")
		return
	}
	if !user.HasPanelPermission(panel.ID, permissions.PanelInvite) {
		WriteAPIError(w, http.StatusForbidden, "No permission to create invites for panel '"+panel.Name+"'")
		return
	}

	var payload createInvitePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	invite := models.PanelInvite{
		PanelID:   panel.ID,
		MaxUses:   payload.MaxUses,
		IsActive:  true,
		CreatedBy: user.ID,
	}
	if payload.ExpiresInHours != nil {
		expiresAt := time.Now().Add(time.Duration(*payload.ExpiresInHours) * time.Hour)
		invite.ExpiresAt = &expiresAt
	}
	if err := h.UserRepo.CreateInvite(&invite); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "Failed to create invite")
		return
	}
	writeJSON(w, http.StatusCreated, invite)
}
