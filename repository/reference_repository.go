package repository

import (
	"errors"
	"fmt"

	"github.com/gene2phenotype/g2pbackend/models"
	"gorm.io/gorm"
)

type GormReferenceRepository struct {
	db *gorm.DB
}

func NewGormReferenceRepository(db *gorm.DB) ReferenceRepositoryInterface {
	return &GormReferenceRepository{db: db}
}

// GetAttrib fetches a controlled-vocabulary value by its type code
// ("genotype", "confidence_category", ...) and value
func (r *GormReferenceRepository) GetAttrib(typeCode, value string) (*models.Attrib, error) {
	var attrib models.Attrib
	err := r.db.Joins("Type").
		Where("\"Type\".code = ? AND attribs.value = ?", typeCode, value).
		First(&attrib).Error
	if err != nil {
		return nil, err
	}
	return &attrib, nil
}

func (r *GormReferenceRepository) ListAttribs() ([]models.Attrib, error) {
	var attribs []models.Attrib
	err := r.db.Preload("Type").Order("value").Find(&attribs).Error
	return attribs, err
}

func (r *GormReferenceRepository) GetLocusByName(name string) (*models.Locus, error) {
	var locus models.Locus
	err := r.db.Preload("Sequence").Where("name = ?", name).First(&locus).Error
	if err != nil {
		return nil, err
	}
	return &locus, nil
}

func (r *GormReferenceRepository) GetDiseaseByName(name string) (*models.Disease, error) {
	var disease models.Disease
	err := r.db.Where("name = ?", name).First(&disease).Error
	if err != nil {
		return nil, err
	}
	return &disease, nil
}

func (r *GormReferenceRepository) CreateDisease(disease *models.Disease) error {
	return r.db.Create(disease).Error
}

func (r *GormReferenceRepository) GetPublicationByPMID(pmid int64) (*models.Publication, error) {
	var pub models.Publication
	err := r.db.Where("pmid = ?", pmid).First(&pub).Error
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

// GetOrCreatePublication returns the publication for a PMID, creating a
// minimal row if this is the first time the paper is referenced
func (r *GormReferenceRepository) GetOrCreatePublication(pmid int64) (*models.Publication, error) {
	pub, err := r.GetPublicationByPMID(pmid)
	if err == nil {
		return pub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up publication %d: %w", pmid, err)
	}

	created := models.Publication{PMID: pmid}
	if err := r.db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create publication %d: %w", pmid, err)
	}
	return &created, nil
}

func (r *GormReferenceRepository) GetOntologyTerm(accession, groupType string) (*models.OntologyTerm, error) {
	var term models.OntologyTerm
	err := r.db.Where("accession = ? AND group_type = ?", accession, groupType).First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *GormReferenceRepository) GetOntologyTermByName(term, groupType string) (*models.OntologyTerm, error) {
	var result models.OntologyTerm
	err := r.db.Where("term = ? AND group_type = ?", term, groupType).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *GormReferenceRepository) ListOntologyTerms(groupType string) ([]models.OntologyTerm, error) {
	var terms []models.OntologyTerm
	err := r.db.Where("group_type = ?", groupType).Order("accession").Find(&terms).Error
	return terms, err
}

func (r *GormReferenceRepository) GetMechanism(valueType, value string) (*models.CVMolecularMechanism, error) {
	var mechanism models.CVMolecularMechanism
	err := r.db.Where("type = ? AND value = ?", valueType, value).First(&mechanism).Error
	if err != nil {
		return nil, err
	}
	return &mechanism, nil
}

// GetMechanismEvidence fetches an evidence value; evidence is the only
// mechanism type with a subtype (function, rescue, functional alteration
// or models)
func (r *GormReferenceRepository) GetMechanismEvidence(value, subtype string) (*models.CVMolecularMechanism, error) {
	var mechanism models.CVMolecularMechanism
	err := r.db.Where("type = ? AND value = ? AND subtype = ?",
		models.MechanismTypeEvidence, value, subtype).First(&mechanism).Error
	if err != nil {
		return nil, err
	}
	return &mechanism, nil
}

func (r *GormReferenceRepository) ListMechanisms() ([]models.CVMolecularMechanism, error) {
	var mechanisms []models.CVMolecularMechanism
	err := r.db.Order("type, subtype, value").Find(&mechanisms).Error
	return mechanisms, err
}

func (r *GormReferenceRepository) GetPanelByName(name string) (*models.Panel, error) {
	var panel models.Panel
	err := r.db.Where("name = ?", name).First(&panel).Error
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

// GetPanelByDescription resolves a panel by its long name; the curation
// frontend submits either form
func (r *GormReferenceRepository) GetPanelByDescription(description string) (*models.Panel, error) {
	var panel models.Panel
	err := r.db.Where("description = ?", description).First(&panel).Error
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *GormReferenceRepository) ListPanels(visibleOnly bool) ([]models.Panel, error) {
	var panels []models.Panel
	query := r.db.Order("name")
	if visibleOnly {
		query = query.Where("is_visible = ?", true)
	}
	err := query.Find(&panels).Error
	return panels, err
}
