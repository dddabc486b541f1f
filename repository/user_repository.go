package repository

import (
	"github.com/gene2phenotype/g2pbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("PanelMemberships.Panel").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("PanelMemberships.Panel").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("PanelMemberships.Panel").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *GormUserRepository) AddPanelMembership(membership *models.UserPanel) error {
	// avoid error if the membership already exists
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(membership).Error
}

func (r *GormUserRepository) CreateInvite(invite *models.PanelInvite) error {
	invite.EnsureCode()
	return r.db.Create(invite).Error
}

func (r *GormUserRepository) GetInviteByCode(code string) (*models.PanelInvite, error) {
	var invite models.PanelInvite
	err := r.db.Preload("Panel").Where("code = ?", code).First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *GormUserRepository) IncrementInviteUses(id uint) error {
	return r.db.Model(&models.PanelInvite{}).Where("id = ?", id).
		UpdateColumn("uses", gorm.Expr("uses + 1")).Error
}
