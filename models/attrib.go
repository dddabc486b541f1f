package models

// AttribType groups controlled-vocabulary values by code, e.g. "genotype",
// "confidence_category", "cross_cutting_modifier", "support"
type AttribType struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"uniqueIndex;not null"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Attrib is a single controlled-vocabulary value
type Attrib struct {
	ID     uint       `json:"id" gorm:"primaryKey"`
	Value  string     `json:"value" gorm:"index;not null"`
	TypeID uint       `json:"-" gorm:"index"`
	Type   AttribType `json:"-" gorm:"foreignKey:TypeID"`
}
