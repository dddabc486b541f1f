package models

import "time"

// CurationJSON is the structured draft content saved while a record is
// being curated. It mirrors the shape the curation frontend submits and
// is only materialised into a LocusGenotypeDisease on publish.
type CurationJSON struct {
	SessionName        string                  `json:"session_name"`
	Locus              string                  `json:"locus"`
	AllelicRequirement string                  `json:"allelic_requirement"`
	Disease            CurationDisease         `json:"disease"`
	Confidence         CurationConfidence      `json:"confidence"`
	Panels             []string                `json:"panels"`
	Publications       []CurationPublication   `json:"publications"`
	Phenotypes         []CurationPhenotypes    `json:"phenotypes"`
	Mechanism          CurationMechanism       `json:"molecular_mechanism"`
	MechanismSynopsis  []CurationMechanism     `json:"mechanism_synopsis"`
	MechanismEvidence  []CurationMechEvidence  `json:"mechanism_evidence"`
	VariantTypes       []CurationVariantType   `json:"variant_types"`
	VariantDescription []CurationVariantDesc   `json:"variant_descriptions"`
	VariantConsequence []CurationVarConseq     `json:"variant_consequences"`
	CrossCuttingMods   []string                `json:"cross_cutting_modifier"`
	PublicComment      string                  `json:"public_comment"`
	PrivateComment     string                  `json:"private_comment"`
}

type CurationDisease struct {
	DiseaseName     string                   `json:"disease_name"`
	CrossReferences []CurationCrossReference `json:"cross_references"`
}

type CurationCrossReference struct {
	Source              string `json:"source"`
	Identifier          string `json:"identifier"`
	DiseaseName         string `json:"disease_name"`
	OriginalDiseaseName string `json:"original_disease_name"`
}

type CurationConfidence struct {
	Level         string `json:"level"`
	Justification string `json:"justification"`
}

type CurationPublication struct {
	PMID                int64   `json:"pmid"`
	Comment             string  `json:"comment"`
	Families            *int    `json:"families"`
	Consanguineous      *string `json:"consanguineous"`
	Ancestries          *string `json:"ancestries"`
	AffectedIndividuals *int    `json:"affectedIndividuals"`
}

type CurationPhenotypes struct {
	PMID     int64              `json:"pmid"`
	Summary  string             `json:"summary"`
	HPOTerms []CurationHPOTerm  `json:"hpo_terms"`
}

type CurationHPOTerm struct {
	Term      string `json:"term"`
	Accession string `json:"accession"`
}

type CurationMechanism struct {
	Name    string `json:"name"`
	Support string `json:"support"`
}

type CurationMechEvidence struct {
	PMID          int64                   `json:"pmid"`
	Description   string                  `json:"description"`
	EvidenceTypes []CurationEvidenceType  `json:"evidence_types"`
}

type CurationEvidenceType struct {
	PrimaryType   string   `json:"primary_type"`
	SecondaryType []string `json:"secondary_type"`
}

type CurationVariantType struct {
	Comment            string  `json:"comment"`
	Inherited          *bool   `json:"inherited"`
	DeNovo             *bool   `json:"de_novo"`
	UnknownInheritance *bool   `json:"unknown_inheritance"`
	NMDEscape          bool    `json:"nmd_escape"`
	PrimaryType        string  `json:"primary_type"`
	SecondaryType      string  `json:"secondary_type"`
	SupportingPapers   []int64 `json:"supporting_papers"`
}

type CurationVariantDesc struct {
	PMID        int64  `json:"pmid"`
	Description string `json:"description"`
}

type CurationVarConseq struct {
	VariantConsequence string `json:"variant_consequence"`
	Support            string `json:"support"`
}

// CurationData is a draft record under curation. It holds the staged
// JSON keyed by an already-assigned stable ID and is owned by the curator
// who created it. The row is removed once the record is published or the
// draft discarded.
type CurationData struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	SessionName    string       `json:"session_name" gorm:"uniqueIndex;not null"`
	JSONData       CurationJSON `json:"json_data" gorm:"serializer:json"`
	StableIDID     uint         `json:"-" gorm:"uniqueIndex"`
	StableID       G2PStableID  `json:"stable_id" gorm:"foreignKey:StableIDID"`
	GeneSymbol     string       `json:"gene_symbol" gorm:"index"`
	UserID         uint         `json:"-" gorm:"index"`
	User           User         `json:"-" gorm:"foreignKey:UserID"`
	DateCreated    time.Time    `json:"date_created"`
	DateLastUpdate time.Time    `json:"date_last_update"`
}
