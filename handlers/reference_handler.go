package handlers

import (
	"net/http"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/permissions"
	"github.com/gene2phenotype/g2pbackend/repository"
)

// ReferenceHandler serves the controlled vocabularies and reference
// data the curation frontend builds its forms from
type ReferenceHandler struct {
	RefRepo repository.ReferenceRepositoryInterface
}

func NewReferenceHandler(refRepo repository.ReferenceRepositoryInterface) *ReferenceHandler {
	return &ReferenceHandler{RefRepo: refRepo}
}

func (h *ReferenceHandler) ListPanels(w http.ResponseWriter, r *http.Request) {
	// curators see hidden panels too
	_, authenticated := UserFromContext(r.Context())
	panels, err := h.RefRepo.ListPanels(!authenticated)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, panels)
}

// ListAttribs groups the attrib vocabulary by type code ("genotype",
// "confidence_category", ...), the shape the curation form consumes
func (h *ReferenceHandler) ListAttribs(w http.ResponseWriter, r *http.Request) {
	attribs, err := h.RefRepo.ListAttribs()
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	grouped := make(map[string][]string)
	for _, a := range attribs {
		grouped[a.Type.Code] = append(grouped[a.Type.Code], a.Value)
	}
	writeJSON(w, http.StatusOK, grouped)
}

// ListMechanisms groups the mechanism vocabulary by type, the shape the
// curation form consumes
func (h *ReferenceHandler) ListMechanisms(w http.ResponseWriter, r *http.Request) {
	mechanisms, err := h.RefRepo.ListMechanisms()
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	grouped := make(map[string][]models.CVMolecularMechanism)
	for _, m := range mechanisms {
		grouped[m.Type] = append(grouped[m.Type], m)
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (h *ReferenceHandler) ListVariantTypes(w http.ResponseWriter, r *http.Request) {
	terms, err := h.RefRepo.ListOntologyTerms(models.OntologyGroupVariantType)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

func (h *ReferenceHandler) ListPhenotypes(w http.ResponseWriter, r *http.Request) {
	terms, err := h.RefRepo.ListOntologyTerms(models.OntologyGroupPhenotype)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

// ListPermissionDefinitions serves the static permission registry so
// admin frontends can render permission pickers
func ListPermissionDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedPermissionGroups)
}
