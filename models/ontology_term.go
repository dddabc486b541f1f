package models

// Ontology term groups
const (
	OntologyGroupPhenotype   = "phenotype"    // HPO terms
	OntologyGroupVariantType = "variant_type" // Sequence Ontology terms
)

// OntologyTerm is an externally-defined vocabulary term (HPO phenotype or
// Sequence Ontology variant type), identified by its accession
type OntologyTerm struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Accession   string `json:"accession" gorm:"uniqueIndex;not null"` // e.g. "HP:0001250", "SO:0001587"
	Term        string `json:"term" gorm:"index;not null"`
	Description string `json:"description"`
	GroupType   string `json:"group_type" gorm:"index;not null"`
}
