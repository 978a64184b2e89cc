package models

// Specialty represents a medical specialty doctors can be assigned to.
type Specialty struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}
