package models

// Case is an engagement opened from an inquiry.
type Case struct {
	BaseModel
	InquiryID  *string `gorm:"size:64;index" json:"inquiryId"`
	ClientName string  `gorm:"size:255" json:"clientName"`
	CaseType   string  `gorm:"size:128" json:"caseType"`
	Status     string  `gorm:"size:32;default:'open'" json:"status"`
	Attorney   *string `gorm:"size:255" json:"attorney"`
}
