package models

// FollowUpStatus represents the state of a logged outreach action.
type FollowUpStatus string

const (
	FollowUpPending FollowUpStatus = "pending"
	FollowUpSent    FollowUpStatus = "sent"
)

// FollowUp is an outreach action tied to an inquiry. Rows are removed when
// the owning inquiry is deleted.
type FollowUp struct {
	BaseModel
	InquiryID    string         `gorm:"size:64;index;not null" json:"inquiryId"`
	Type         string         `gorm:"size:64" json:"type"`
	Method       string         `gorm:"size:64" json:"method"`
	Subject      string         `gorm:"size:255" json:"subject"`
	Content      string         `gorm:"type:text" json:"content"`
	ScheduledFor *string        `gorm:"size:32" json:"scheduledFor"`
	Priority     string         `gorm:"size:16;default:'normal'" json:"priority"`
	CreatedBy    string         `gorm:"size:128" json:"createdBy"`
	Status       FollowUpStatus `gorm:"size:16;default:'pending'" json:"status"`
}
