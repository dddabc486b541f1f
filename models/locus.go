package models

// Sequence is the chromosome (or contig) a locus lives on.
// The name is the chromosome label: "1".."22", "X", "Y" or "MT".
type Sequence struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Locus is a gene (or region) curated records are anchored to
type Locus struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	Name       string   `json:"name" gorm:"uniqueIndex;not null"` // gene symbol
	SequenceID uint     `json:"-" gorm:"index"`
	Sequence   Sequence `json:"sequence" gorm:"foreignKey:SequenceID"`
	Start      int64    `json:"start"`
	End        int64    `json:"end"`
	Strand     int      `json:"strand"`
}
