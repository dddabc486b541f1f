package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gene2phenotype/g2pbackend/models"
	"gorm.io/gorm"
)

type GormStableIDRepository struct {
	db *gorm.DB
}

func NewGormStableIDRepository(db *gorm.DB) StableIDRepositoryInterface {
	return &GormStableIDRepository{db: db}
}

// CreateNext allocates the next sequential stable ID ("G2P00001",
// "G2P00002", ...). IDs are never reused, even after deletion, so the
// next value is always derived from the highest row ever created.
func (r *GormStableIDRepository) CreateNext() (*models.G2PStableID, error) {
	var created models.G2PStableID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var last models.G2PStableID
		number := 0
		err := tx.Order("id DESC").First(&last).Error
		if err == nil {
			suffix := strings.TrimPrefix(last.StableID, "G2P")
			if n, parseErr := strconv.Atoi(suffix); parseErr == nil {
				number = n
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to fetch latest stable ID: %w", err)
		}

		created = models.G2PStableID{
			StableID: fmt.Sprintf("G2P%05d", number+1),
			IsLive:   false,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *GormStableIDRepository) GetByStableID(stableID string) (*models.G2PStableID, error) {
	var sid models.G2PStableID
	err := r.db.Where("stable_id = ?", stableID).First(&sid).Error
	if err != nil {
		return nil, err
	}
	return &sid, nil
}

func (r *GormStableIDRepository) SetLive(id uint, isLive bool) error {
	return r.db.Model(&models.G2PStableID{}).Where("id = ?", id).Update("is_live", isLive).Error
}

// Retire takes a stable ID permanently out of circulation, leaving a
// comment saying why (deleted, or merged into another record).
func (r *GormStableIDRepository) Retire(id uint, comment string) error {
	return r.db.Model(&models.G2PStableID{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_live":    false,
		"is_deleted": 1,
		"comment":    comment,
	}).Error
}
