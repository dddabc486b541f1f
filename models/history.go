package models

import "time"

// Audit change types
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// HistoryEntry is an append-only audit row. Every state-changing write to
// a record or one of its child rows appends exactly one entry.
type HistoryEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EntityKind string    `json:"entity_kind" gorm:"index;not null"` // e.g. "lgd_panel", "lgd_publication"
	EntityKey  string    `json:"entity_key"`                        // human-readable key: panel name, pmid, accession...
	LGDID      *uint     `json:"lgd_id" gorm:"index"`
	UserID     uint      `json:"user_id" gorm:"index"`
	ChangeType string    `json:"change_type" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
