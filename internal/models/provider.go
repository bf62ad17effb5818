package models

// Provider is a medical practice whose appointments are imported.
type Provider struct {
	BaseModel
	Name         string `gorm:"size:200;not null" json:"name"`
	Email        string `gorm:"size:200;not null" json:"email"`
	Phone        string `gorm:"size:20" json:"phone,omitempty"`
	PracticeType string `gorm:"size:100" json:"practice_type"` // dental, medical, therapy, ...
}
