package models

// Publication is a PMID-identified paper used as curation evidence
type Publication struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	PMID    int64  `json:"pmid" gorm:"column:pmid;uniqueIndex;not null"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Year    int    `json:"year"`
	Authors string `json:"authors"`
}
