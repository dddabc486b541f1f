package repository

import (
	"github.com/gene2phenotype/g2pbackend/models"
	"gorm.io/gorm"
)

type GormCurationRepository struct {
	db *gorm.DB
}

func NewGormCurationRepository(db *gorm.DB) CurationRepositoryInterface {
	return &GormCurationRepository{db: db}
}

func (r *GormCurationRepository) Create(data *models.CurationData) error {
	return r.db.Create(data).Error
}

// GetByStableID fetches a draft by its assigned stable ID. Drafts are
// private to the curator who created them, so the owning user is part of
// the lookup.
func (r *GormCurationRepository) GetByStableID(stableID string, userID uint) (*models.CurationData, error) {
	var data models.CurationData
	err := r.db.Preload("StableID").
		Where("stable_id_id = (?)",
			r.db.Model(&models.G2PStableID{}).Select("id").Where("stable_id = ?", stableID)).
		Where("user_id = ?", userID).
		First(&data).Error
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *GormCurationRepository) GetBySessionName(sessionName string) (*models.CurationData, error) {
	var data models.CurationData
	err := r.db.Where("session_name = ?", sessionName).First(&data).Error
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *GormCurationRepository) ListByUser(userID uint) ([]models.CurationData, error) {
	var entries []models.CurationData
	err := r.db.Preload("StableID").Where("user_id = ?", userID).
		Order("date_last_update DESC").Find(&entries).Error
	return entries, err
}

func (r *GormCurationRepository) Update(data *models.CurationData) error {
	return r.db.Save(data).Error
}

func (r *GormCurationRepository) Delete(id uint) error {
	return r.db.Delete(&models.CurationData{}, id).Error
}
