package models

import (
	"time"

	"github.com/google/uuid"
)

// PanelInvite is a single-panel invitation code new curators register
// with. Codes can expire, be limited to a number of uses, or be revoked.
type PanelInvite struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Code      string     `json:"code" gorm:"uniqueIndex;not null"`
	PanelID   uint       `json:"panel_id" gorm:"index"`
	Panel     Panel      `json:"panel" gorm:"foreignKey:PanelID"`
	ExpiresAt *time.Time `json:"expires_at"`
	MaxUses   *int       `json:"max_uses"`
	Uses      int        `json:"uses" gorm:"default:0"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedBy uint       `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EnsureCode generates the invite code if it hasn't been set.
func (pi *PanelInvite) EnsureCode() {
	if pi.Code == "" {
		pi.Code = uuid.New().String()
	}
}

// IsUsable checks whether the invite can still be redeemed.
func (pi *PanelInvite) IsUsable() bool {
	if !pi.IsActive {
		return false
	}
	if pi.ExpiresAt != nil && time.Now().After(*pi.ExpiresAt) {
		return false
	}
	if pi.MaxUses != nil && pi.Uses >= *pi.MaxUses {
		return false
	}
	return true
}
