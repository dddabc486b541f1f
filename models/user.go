package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a curator or administrator in the system.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	IsSuperuser  bool     `json:"is_superuser" gorm:"default:false"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`
	// Panels the user is a member of; membership gates edit permissions
	// on records belonging to those panels
	PanelMemberships []UserPanel `json:"panel_memberships,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// UserPanel is the membership of a user in a curation panel, together
// with the permissions the user holds on that panel.
type UserPanel struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index:idx_user_panel,unique"`
	PanelID     uint      `json:"panel_id" gorm:"index:idx_user_panel,unique"`
	Panel       Panel     `json:"panel" gorm:"foreignKey:PanelID"`
	Permissions []string  `json:"permissions" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name for UserPanel to be `user_panels`
func (UserPanel) TableName() string {
	return "user_panels"
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// PanelNames returns the names of the panels the user belongs to.
// Assumes PanelMemberships (with Panel) is preloaded.
func (u *User) PanelNames() []string {
	names := make([]string, 0, len(u.PanelMemberships))
	for _, m := range u.PanelMemberships {
		names = append(names, m.Panel.Name)
	}
	return names
}

// IsMemberOfPanel reports whether the user belongs to the panel.
// Superusers are implicit members of every panel.
func (u *User) IsMemberOfPanel(panelID uint) bool {
	if u.IsSuperuser {
		return true
	}
	for _, m := range u.PanelMemberships {
		if m.PanelID == panelID {
			return true
		}
	}
	return false
}

// HasPanelPermission checks if the user has a specific permission on the
// given panel. Superusers hold every permission.
func (u *User) HasPanelPermission(panelID uint, permission string) bool {
	if u.IsSuperuser {
		return true
	}
	for _, m := range u.PanelMemberships {
		if m.PanelID != panelID {
			continue
		}
		for _, p := range m.Permissions {
			if p == permission {
				return true
			}
		}
	}
	return false
}
