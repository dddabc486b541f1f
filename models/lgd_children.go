package models

import "time"

// Child tables owned by a LocusGenotypeDisease record. Every row
// references exactly one LGD and carries its own is_deleted flag so a
// record delete can cascade without destroying the audit trail.

// LGDPanel links a record to a curation panel
type LGDPanel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	LGDID     uint      `json:"-" gorm:"index:idx_lgd_panel,unique"`
	PanelID   uint      `json:"-" gorm:"index:idx_lgd_panel,unique"`
	Panel     Panel     `json:"panel" gorm:"foreignKey:PanelID"`
	IsDeleted int       `json:"-" gorm:"default:0;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LGDPublication links a record to a supporting publication, together
// with the family data reported in that publication and an optional
// curator comment
type LGDPublication struct {
	ID                  uint        `json:"id" gorm:"primaryKey"`
	LGDID               uint        `json:"-" gorm:"index:idx_lgd_publication,unique"`
	PublicationID       uint        `json:"-" gorm:"index:idx_lgd_publication,unique"`
	Publication         Publication `json:"publication" gorm:"foreignKey:PublicationID"`
	Families            *int        `json:"families"`
	Consanguinity       *string     `json:"consanguinity"`
	Ancestries          *string     `json:"ancestries"`
	AffectedIndividuals *int        `json:"affected_individuals"`
	Comment             *string     `json:"comment"`
	IsCommentPublic     int         `json:"is_comment_public" gorm:"default:1"`
	IsDeleted           int         `json:"-" gorm:"default:0;index"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// LGDPhenotype links a record to an HPO term, optionally supported by a
// publication
type LGDPhenotype struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	LGDID         uint         `json:"-" gorm:"index"`
	PhenotypeID   uint         `json:"-" gorm:"index"`
	Phenotype     OntologyTerm `json:"phenotype" gorm:"foreignKey:PhenotypeID"`
	PublicationID *uint        `json:"-"`
	Publication   *Publication `json:"publication,omitempty" gorm:"foreignKey:PublicationID"`
	IsDeleted     int          `json:"-" gorm:"default:0;index"`
	CreatedAt     time.Time    `json:"created_at"`
}

// LGDPhenotypeSummary is a free-text phenotype summary tied to a
// publication
type LGDPhenotypeSummary struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	LGDID         uint         `json:"-" gorm:"index"`
	Summary       string       `json:"summary" gorm:"not null"`
	PublicationID *uint        `json:"-"`
	Publication   *Publication `json:"publication,omitempty" gorm:"foreignKey:PublicationID"`
	IsDeleted     int          `json:"-" gorm:"default:0;index"`
	CreatedAt     time.Time    `json:"created_at"`
}

// LGDVariantType links a record to a Sequence Ontology variant type as
// reported in a publication
type LGDVariantType struct {
	ID                 uint         `json:"id" gorm:"primaryKey"`
	LGDID              uint         `json:"-" gorm:"index"`
	VariantTypeOTID    uint         `json:"-" gorm:"index"`
	VariantTypeOT      OntologyTerm `json:"variant_type" gorm:"foreignKey:VariantTypeOTID"`
	Inherited          *bool        `json:"inherited"`
	DeNovo             *bool        `json:"de_novo"`
	UnknownInheritance *bool        `json:"unknown_inheritance"`
	PublicationID      *uint        `json:"-"`
	Publication        *Publication `json:"publication,omitempty" gorm:"foreignKey:PublicationID"`
	IsDeleted          int          `json:"-" gorm:"default:0;index"`
	CreatedAt          time.Time    `json:"created_at"`
}

// LGDVariantTypeComment is a curator comment on a variant type link
type LGDVariantTypeComment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	LGDVariantTypeID uint      `json:"-" gorm:"index"`
	Comment          string    `json:"comment" gorm:"not null"`
	UserID           uint      `json:"-"`
	IsPublic         int       `json:"is_public" gorm:"default:0"`
	IsDeleted        int       `json:"-" gorm:"default:0;index"`
	CreatedAt        time.Time `json:"created_at"`
}

// LGDVariantTypeDescription is a variant HGVS description linked to the
// record and a publication. The HGVS is not tied to a variant type row.
type LGDVariantTypeDescription struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	LGDID         uint         `json:"-" gorm:"index"`
	Description   string       `json:"description" gorm:"not null"`
	PublicationID *uint        `json:"-"`
	Publication   *Publication `json:"publication,omitempty" gorm:"foreignKey:PublicationID"`
	IsDeleted     int          `json:"-" gorm:"default:0;index"`
	CreatedAt     time.Time    `json:"created_at"`
}

// LGDVariantGenccConsequence links a record to a GenCC-level variant
// consequence (altered gene product level, etc.)
type LGDVariantGenccConsequence struct {
	ID                   uint         `json:"id" gorm:"primaryKey"`
	LGDID                uint         `json:"-" gorm:"index"`
	VariantConsequenceID uint         `json:"-" gorm:"index"`
	VariantConsequence   OntologyTerm `json:"variant_consequence" gorm:"foreignKey:VariantConsequenceID"`
	SupportID            uint         `json:"-"`
	Support              Attrib       `json:"support" gorm:"foreignKey:SupportID"`
	IsDeleted            int          `json:"-" gorm:"default:0;index"`
	CreatedAt            time.Time    `json:"created_at"`
}

// LGDCrossCuttingModifier links a record to a cross-cutting modifier
// qualifier (e.g. "typically de novo")
type LGDCrossCuttingModifier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	LGDID     uint      `json:"-" gorm:"index"`
	CCMID     uint      `json:"-" gorm:"index"`
	CCM       Attrib    `json:"ccm" gorm:"foreignKey:CCMID"`
	IsDeleted int       `json:"-" gorm:"default:0;index"`
	CreatedAt time.Time `json:"created_at"`
}

// LGDMechanismSynopsis is a categorical sub-type of the record's
// molecular mechanism. A record can carry more than one synopsis.
type LGDMechanismSynopsis struct {
	ID                uint                 `json:"id" gorm:"primaryKey"`
	LGDID             uint                 `json:"-" gorm:"index"`
	SynopsisID        uint                 `json:"-" gorm:"index"`
	Synopsis          CVMolecularMechanism `json:"synopsis" gorm:"foreignKey:SynopsisID"`
	SynopsisSupportID uint                 `json:"-"`
	SynopsisSupport   CVMolecularMechanism `json:"synopsis_support" gorm:"foreignKey:SynopsisSupportID"`
	IsDeleted         int                  `json:"-" gorm:"default:0;index"`
	CreatedAt         time.Time            `json:"created_at"`
}

// LGDMechanismEvidence is an evidence snippet supporting the record's
// mechanism, tagged with an evidence-type value and a publication
type LGDMechanismEvidence struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	LGDID         uint                 `json:"-" gorm:"index"`
	EvidenceID    uint                 `json:"-" gorm:"index"`
	Evidence      CVMolecularMechanism `json:"evidence" gorm:"foreignKey:EvidenceID"`
	PublicationID uint                 `json:"-"`
	Publication   Publication          `json:"publication" gorm:"foreignKey:PublicationID"`
	Description   string               `json:"description"`
	IsDeleted     int                  `json:"-" gorm:"default:0;index"`
	CreatedAt     time.Time            `json:"created_at"`
}

// LGDComment is a curator comment on the record itself. Private comments
// are only visible to authenticated curators.
type LGDComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	LGDID     uint      `json:"-" gorm:"index"`
	Comment   string    `json:"comment" gorm:"not null"`
	IsPublic  int       `json:"is_public" gorm:"default:0"`
	UserID    uint      `json:"-"`
	IsDeleted int       `json:"-" gorm:"default:0;index"`
	CreatedAt time.Time `json:"created_at"`
}
