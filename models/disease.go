package models

// Disease is a curated disease name
type Disease struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// DiseaseOntologyTerm links a disease to an external ontology accession
// (OMIM, Mondo)
type DiseaseOntologyTerm struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	DiseaseID      uint         `json:"disease_id" gorm:"index:idx_disease_ontology,unique"`
	Disease        Disease      `json:"-" gorm:"foreignKey:DiseaseID"`
	OntologyTermID uint         `json:"ontology_term_id" gorm:"index:idx_disease_ontology,unique"`
	OntologyTerm   OntologyTerm `json:"ontology_term" gorm:"foreignKey:OntologyTermID"`
}
