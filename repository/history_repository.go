package repository

import (
	"github.com/gene2phenotype/g2pbackend/models"
	"gorm.io/gorm"
)

type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) HistoryRepositoryInterface {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Record(entry *models.HistoryEntry) error {
	return r.db.Create(entry).Error
}

func (r *GormHistoryRepository) ListByLGD(lgdID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := r.db.Where("lgd_id = ?", lgdID).Order("created_at, id").Find(&entries).Error
	return entries, err
}
