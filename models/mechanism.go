package models

// CVMolecularMechanism value types
const (
	MechanismTypeMechanism = "mechanism"
	MechanismTypeSynopsis  = "mechanism_synopsis"
	MechanismTypeEvidence  = "evidence"
	MechanismTypeSupport   = "support"
)

// Mechanism support values
const (
	MechanismSupportInferred = "inferred"
	MechanismSupportEvidence = "evidence"
)

// MechanismUndetermined is the default mechanism assigned to records
// curated without mechanism data
const MechanismUndetermined = "undetermined"

// CVMolecularMechanism is the controlled vocabulary for molecular
// mechanisms, their synopses (categorisations), evidence values and
// support levels. Only type "evidence" has a subtype (function, rescue,
// functional alteration or models).
type CVMolecularMechanism struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Type        string `json:"type" gorm:"index;not null"`
	Subtype     string `json:"subtype" gorm:"index"`
	Value       string `json:"value" gorm:"index;not null"`
	Description string `json:"description"`
}
