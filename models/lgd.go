package models

import "time"

// LocusGenotypeDisease is the central curated record (a "G2P record"):
// the association of a locus with a disease under a given genotype and
// molecular mechanism. The tuple (locus, genotype, disease, mechanism)
// is unique among non-deleted records.
type LocusGenotypeDisease struct {
	ID uint `json:"id" gorm:"primaryKey"`

	LocusID uint  `json:"-" gorm:"index:idx_lgd_tuple"`
	Locus   Locus `json:"locus" gorm:"foreignKey:LocusID"`

	GenotypeID uint   `json:"-" gorm:"index:idx_lgd_tuple"`
	Genotype   Attrib `json:"genotype" gorm:"foreignKey:GenotypeID"`

	DiseaseID uint    `json:"-" gorm:"index:idx_lgd_tuple"`
	Disease   Disease `json:"disease" gorm:"foreignKey:DiseaseID"`

	MechanismID uint                 `json:"-" gorm:"index:idx_lgd_tuple"`
	Mechanism   CVMolecularMechanism `json:"molecular_mechanism" gorm:"foreignKey:MechanismID"`

	MechanismSupportID uint                 `json:"-"`
	MechanismSupport   CVMolecularMechanism `json:"mechanism_support" gorm:"foreignKey:MechanismSupportID"`

	ConfidenceID      uint    `json:"-"`
	Confidence        Attrib  `json:"confidence" gorm:"foreignKey:ConfidenceID"`
	ConfidenceSupport *string `json:"confidence_support"`

	StableIDID uint        `json:"-" gorm:"uniqueIndex"`
	StableID   G2PStableID `json:"stable_id" gorm:"foreignKey:StableIDID"`

	IsReviewed int        `json:"is_reviewed" gorm:"default:0"`
	IsDeleted  int        `json:"-" gorm:"default:0;index"`
	DateReview *time.Time `json:"date_review"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName overrides the default pluralisation
func (LocusGenotypeDisease) TableName() string {
	return "locus_genotype_disease"
}
