package models

import "time"

// G2PStableID is the immutable public identifier of a record, format
// "G2P#####". It is assigned once at draft creation and never reused.
//
// Lifecycle: a stable ID starts as a draft (is_live=false), becomes live
// when the record is published, and is retired when the record is deleted
// or merged into another record. Deleted and merged-away are both
// terminal (is_live=false, is_deleted=1); they are told apart only by the
// comment left on the row.
type G2PStableID struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StableID  string    `json:"stable_id" gorm:"uniqueIndex;not null"`
	IsLive    bool      `json:"is_live" gorm:"default:false"`
	IsDeleted int       `json:"is_deleted" gorm:"default:0;index"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
