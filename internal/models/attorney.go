package models

// Attorney is a member of the firm that appointments can be assigned to.
type Attorney struct {
	BaseModel
	Name           string `gorm:"size:255" json:"name"`
	Email          string `gorm:"size:255" json:"email"`
	Specialization string `gorm:"size:128" json:"specialization"`
	IsActive       bool   `gorm:"default:true" json:"isActive"`
}
