package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/services"
	"github.com/go-chi/chi/v5"
)

// Endpoints that add or remove child rows of a published record. They
// all authenticate, delegate to the lifecycle service and answer with
// either a short confirmation message or a mapped service error.

func (h *RecordHandler) actorAndID(w http.ResponseWriter, r *http.Request) (*models.User, string, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
		return nil, "", false
	}
	return user, chi.URLParam(r, "stableID"), true
}

func confirm(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

type addPanelPayload struct {
	Name string `json:"name"`
}

func (h *RecordHandler) AddPanel(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload addPanelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.RecordSvc.AddPanel(user, stableID, payload.Name); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Panel added to the G2P entry successfully")
}

func (h *RecordHandler) RemovePanel(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if err := h.RecordSvc.RemovePanel(user, stableID, chi.URLParam(r, "panelName")); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Panel removed from the G2P entry successfully")
}

type addPublicationsPayload struct {
	Publications []services.PublicationInput `json:"publications"`
}

func (h *RecordHandler) AddPublications(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload addPublicationsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(payload.Publications) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "Publications are required")
		return
	}
	if err := h.RecordSvc.AddPublications(user, stableID, payload.Publications); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Publications added to the G2P entry successfully")
}

func (h *RecordHandler) RemovePublication(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	pmid, err := strconv.ParseInt(chi.URLParam(r, "pmid"), 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid PMID")
		return
	}
	if err := h.RecordSvc.RemovePublication(user, stableID, pmid); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Publication removed from the G2P entry successfully")
}

type addPhenotypesPayload struct {
	Phenotypes []services.PhenotypeInput `json:"phenotypes"`
}

func (h *RecordHandler) AddPhenotypes(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload addPhenotypesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(payload.Phenotypes) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "Phenotypes are required")
		return
	}
	if err := h.RecordSvc.AddPhenotypes(user, stableID, payload.Phenotypes); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Phenotypes added to the G2P entry successfully")
}

func (h *RecordHandler) RemovePhenotype(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if err := h.RecordSvc.RemovePhenotype(user, stableID, chi.URLParam(r, "accession")); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Phenotype removed from the G2P entry successfully")
}

type phenotypeSummaryPayload struct {
	Summary string `json:"summary"`
	PMID    int64  `json:"pmid"`
}

func (h *RecordHandler) AddPhenotypeSummary(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload phenotypeSummaryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.RecordSvc.AddPhenotypeSummary(user, stableID, payload.Summary, payload.PMID); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Phenotype summary added to the G2P entry successfully")
}

func (h *RecordHandler) RemovePhenotypeSummary(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if err := h.RecordSvc.RemovePhenotypeSummary(user, stableID); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Phenotype summary removed from the G2P entry successfully")
}

type addVariantTypesPayload struct {
	VariantTypes []services.VariantTypeInput `json:"variant_types"`
}

func (h *RecordHandler) AddVariantTypes(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload addVariantTypesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(payload.VariantTypes) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "Variant types are required")
		return
	}
	if err := h.RecordSvc.AddVariantTypes(user, stableID, payload.VariantTypes); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Variant types added to the G2P entry successfully")
}

func (h *RecordHandler) RemoveVariantType(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if err := h.RecordSvc.RemoveVariantType(user, stableID, chi.URLParam(r, "accession")); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Variant type removed from the G2P entry successfully")
}

type addVariantDescriptionsPayload struct {
	VariantDescriptions []services.VariantDescriptionInput `json:"variant_descriptions"`
}

func (h *RecordHandler) AddVariantDescriptions(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload addVariantDescriptionsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(payload.VariantDescriptions) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "Variant descriptions are required")
		return
	}
	if err := h.RecordSvc.AddVariantDescriptions(user, stableID, payload.VariantDescriptions); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Variant descriptions added to the G2P entry successfully")
}

type removeVariantDescriptionPayload struct {
	Description string `json:"description"`
}

func (h *RecordHandler) RemoveVariantDescription(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload removeVariantDescriptionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.RecordSvc.RemoveVariantDescription(user, stableID, payload.Description); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Variant description removed from the G2P entry successfully")
}

type addVariantConsequencesPayload struct {
	VariantConsequences []services.VariantConsequenceInput `json:"variant_consequences"`
}

func (h *RecordHandler) AddVariantConsequences(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload addVariantConsequencesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(payload.VariantConsequences) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "Variant consequences are required")
		return
	}
	if err := h.RecordSvc.AddVariantConsequences(user, stableID, payload.VariantConsequences); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Variant consequences added to the G2P entry successfully")
}

type removeVariantConsequencePayload struct {
	VariantConsequence string `json:"variant_consequence"`
}

func (h *RecordHandler) RemoveVariantConsequence(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload removeVariantConsequencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.RecordSvc.RemoveVariantConsequence(user, stableID, payload.VariantConsequence); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Variant consequence removed from the G2P entry successfully")
}

type crossCuttingModifierPayload struct {
	Value string `json:"cross_cutting_modifier"`
}

func (h *RecordHandler) AddCrossCuttingModifier(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload crossCuttingModifierPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.RecordSvc.AddCrossCuttingModifier(user, stableID, payload.Value); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Cross cutting modifier added to the G2P entry successfully")
}

func (h *RecordHandler) RemoveCrossCuttingModifier(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload crossCuttingModifierPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.RecordSvc.RemoveCrossCuttingModifier(user, stableID, payload.Value); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Cross cutting modifier removed from the G2P entry successfully")
}

type addCommentPayload struct {
	Comment  string `json:"comment"`
	IsPublic bool   `json:"is_public"`
}

func (h *RecordHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, stableID, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	var payload addCommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.RecordSvc.AddComment(user, stableID, payload.Comment, payload.IsPublic); err != nil {
		WriteServiceError(w, err)
		return
	}
	confirm(w, "Comment added to the G2P entry successfully")
}
