package models

import "time"

// InquiryStatus represents the lifecycle of an inquiry.
type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryScheduled InquiryStatus = "scheduled"
	InquiryClosed    InquiryStatus = "closed"
)

// Urgency describes how soon the client needs help.
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencyUrgent    Urgency = "urgent"
	UrgencySoon      Urgency = "soon"
	UrgencyFlexible  Urgency = "flexible"
)

// Inquiry is an initial client contact from the website contact form.
type Inquiry struct {
	ID               string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	FirstName        string        `gorm:"size:128" json:"firstName"`
	LastName         string        `gorm:"size:128" json:"lastName"`
	Email            string        `gorm:"size:255" json:"email"`
	Phone            string        `gorm:"size:32" json:"phone"`
	City             *string       `gorm:"size:128" json:"city"`
	LegalMatter      string        `gorm:"size:128" json:"legalMatter"`
	Urgency          Urgency       `gorm:"size:16;default:'flexible'" json:"urgency"`
	Message          string        `gorm:"type:text" json:"message"`
	HearAbout        *string       `gorm:"size:128" json:"hearAbout"`
	Status           InquiryStatus `gorm:"size:16;default:'new';index" json:"status"`
	AssignedTo       *string       `gorm:"size:128" json:"assignedTo"`
	Notes            *string       `gorm:"type:text" json:"notes"`
	ConsultationDate *string       `gorm:"size:10" json:"consultationDate"`
	CaseValue        *string       `gorm:"size:64" json:"caseValue"`
	FollowedUp       bool          `gorm:"default:false" json:"followedUp"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`

	FollowUps []FollowUp `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"-"`
}
