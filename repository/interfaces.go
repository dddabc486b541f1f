package repository

import (
	"github.com/gene2phenotype/g2pbackend/models"
)

// StableIDRepositoryInterface defines the methods for stable ID operations
type StableIDRepositoryInterface interface {
	CreateNext() (*models.G2PStableID, error)
	GetByStableID(stableID string) (*models.G2PStableID, error)
	SetLive(id uint, isLive bool) error
	Retire(id uint, comment string) error
}

// LGDRepositoryInterface defines the methods for record (LGD) data operations
type LGDRepositoryInterface interface {
	Create(lgd *models.LocusGenotypeDisease) error
	GetByStableID(stableID string) (*models.LocusGenotypeDisease, error)
	GetByTuple(locusID, genotypeID, diseaseID, mechanismID uint) (*models.LocusGenotypeDisease, error)
	UpdateConfidence(lgdID, confidenceID uint, support *string) error
	UpdateMechanism(lgdID, mechanismID, supportID uint) error
	MarkDeleted(lgdID uint) error
	Touch(lgdID uint) error

	ActivePanels(lgdID uint) ([]models.LGDPanel, error)
	ActivePublications(lgdID uint) ([]models.LGDPublication, error)
	CountActivePublications(lgdID uint) (int64, error)
	ActiveSynopses(lgdID uint) ([]models.LGDMechanismSynopsis, error)
}

// CurationRepositoryInterface defines the methods for draft curation entries
type CurationRepositoryInterface interface {
	Create(data *models.CurationData) error
	GetByStableID(stableID string, userID uint) (*models.CurationData, error)
	GetBySessionName(sessionName string) (*models.CurationData, error)
	ListByUser(userID uint) ([]models.CurationData, error)
	Update(data *models.CurationData) error
	Delete(id uint) error
}

// ReferenceRepositoryInterface exposes the read-only reference data
// (controlled vocabularies, loci, diseases, publications, panels) the
// lifecycle coordinator validates against
type ReferenceRepositoryInterface interface {
	GetAttrib(typeCode, value string) (*models.Attrib, error)
	ListAttribs() ([]models.Attrib, error)
	GetLocusByName(name string) (*models.Locus, error)
	GetDiseaseByName(name string) (*models.Disease, error)
	CreateDisease(disease *models.Disease) error
	GetPublicationByPMID(pmid int64) (*models.Publication, error)
	GetOrCreatePublication(pmid int64) (*models.Publication, error)
	GetOntologyTerm(accession, groupType string) (*models.OntologyTerm, error)
	GetOntologyTermByName(term, groupType string) (*models.OntologyTerm, error)
	ListOntologyTerms(groupType string) ([]models.OntologyTerm, error)
	GetMechanism(valueType, value string) (*models.CVMolecularMechanism, error)
	GetMechanismEvidence(value, subtype string) (*models.CVMolecularMechanism, error)
	ListMechanisms() ([]models.CVMolecularMechanism, error)
	GetPanelByName(name string) (*models.Panel, error)
	GetPanelByDescription(description string) (*models.Panel, error)
	ListPanels(visibleOnly bool) ([]models.Panel, error)
}

// UserRepositoryInterface defines the methods for user data operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	AddPanelMembership(membership *models.UserPanel) error

	CreateInvite(invite *models.PanelInvite) error
	GetInviteByCode(code string) (*models.PanelInvite, error)
	IncrementInviteUses(id uint) error
}

// HistoryRepositoryInterface records and serves the append-only audit trail
type HistoryRepositoryInterface interface {
	Record(entry *models.HistoryEntry) error
	ListByLGD(lgdID uint) ([]models.HistoryEntry, error)
}
