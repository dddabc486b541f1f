package repository

import (
	"time"

	"github.com/gene2phenotype/g2pbackend/models"
	"gorm.io/gorm"
)

type GormLGDRepository struct {
	db *gorm.DB
}

func NewGormLGDRepository(db *gorm.DB) LGDRepositoryInterface {
	return &GormLGDRepository{db: db}
}

func (r *GormLGDRepository) Create(lgd *models.LocusGenotypeDisease) error {
	return r.db.Create(lgd).Error
}

// GetByStableID fetches a non-deleted record by its public identifier,
// with all the reference associations preloaded
func (r *GormLGDRepository) GetByStableID(stableID string) (*models.LocusGenotypeDisease, error) {
	var lgd models.LocusGenotypeDisease
	err := r.db.
		Preload("Locus.Sequence").
		Preload("Genotype").
		Preload("Disease").
		Preload("Mechanism").
		Preload("MechanismSupport").
		Preload("Confidence").
		Preload("StableID").
		Where("stable_id_id = (?)",
			r.db.Model(&models.G2PStableID{}).Select("id").Where("stable_id = ?", stableID)).
		Where("is_deleted = 0").
		First(&lgd).Error
	if err != nil {
		return nil, err
	}
	return &lgd, nil
}

// GetByTuple looks for a non-deleted record with the same
// locus/genotype/disease/mechanism combination
func (r *GormLGDRepository) GetByTuple(locusID, genotypeID, diseaseID, mechanismID uint) (*models.LocusGenotypeDisease, error) {
	var lgd models.LocusGenotypeDisease
	err := r.db.Preload("StableID").
		Where("locus_id = ? AND genotype_id = ? AND disease_id = ? AND mechanism_id = ? AND is_deleted = 0",
			locusID, genotypeID, diseaseID, mechanismID).
		First(&lgd).Error
	if err != nil {
		return nil, err
	}
	return &lgd, nil
}

func (r *GormLGDRepository) UpdateConfidence(lgdID, confidenceID uint, support *string) error {
	return r.db.Model(&models.LocusGenotypeDisease{}).Where("id = ?", lgdID).Updates(map[string]interface{}{
		"confidence_id":      confidenceID,
		"confidence_support": support,
		"date_review":        time.Now(),
	}).Error
}

func (r *GormLGDRepository) UpdateMechanism(lgdID, mechanismID, supportID uint) error {
	return r.db.Model(&models.LocusGenotypeDisease{}).Where("id = ?", lgdID).Updates(map[string]interface{}{
		"mechanism_id":         mechanismID,
		"mechanism_support_id": supportID,
		"date_review":          time.Now(),
	}).Error
}

func (r *GormLGDRepository) MarkDeleted(lgdID uint) error {
	return r.db.Model(&models.LocusGenotypeDisease{}).Where("id = ?", lgdID).Update("is_deleted", 1).Error
}

// Touch refreshes the review date after a child-row change
func (r *GormLGDRepository) Touch(lgdID uint) error {
	return r.db.Model(&models.LocusGenotypeDisease{}).Where("id = ?", lgdID).Update("date_review", time.Now()).Error
}

func (r *GormLGDRepository) ActivePanels(lgdID uint) ([]models.LGDPanel, error) {
	var panels []models.LGDPanel
	err := r.db.Preload("Panel").Where("lgd_id = ? AND is_deleted = 0", lgdID).Find(&panels).Error
	return panels, err
}

func (r *GormLGDRepository) ActivePublications(lgdID uint) ([]models.LGDPublication, error) {
	var pubs []models.LGDPublication
	err := r.db.Preload("Publication").Where("lgd_id = ? AND is_deleted = 0", lgdID).Find(&pubs).Error
	return pubs, err
}

func (r *GormLGDRepository) CountActivePublications(lgdID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.LGDPublication{}).Where("lgd_id = ? AND is_deleted = 0", lgdID).Count(&count).Error
	return count, err
}

func (r *GormLGDRepository) ActiveSynopses(lgdID uint) ([]models.LGDMechanismSynopsis, error) {
	var synopses []models.LGDMechanismSynopsis
	err := r.db.Preload("Synopsis").Preload("SynopsisSupport").
		Where("lgd_id = ? AND is_deleted = 0", lgdID).Find(&synopses).Error
	return synopses, err
}
