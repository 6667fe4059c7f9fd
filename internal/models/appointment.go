package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ActiveStatuses are the statuses that keep a slot occupied.
var ActiveStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed}

// Appointment represents a scheduled consultation.
//
// SlotKey is "<scheduledDate>|<scheduledTime>" while the appointment is
// scheduled or confirmed and NULL otherwise. The unique index on it turns the
// insert into a conditional insert, so two clients racing for the same slot
// cannot both book it.
type Appointment struct {
	ID              string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	InquiryID       *string           `gorm:"size:64;index" json:"inquiryId"`
	CaseID          *string           `gorm:"size:64" json:"caseId"`
	ClientName      string            `gorm:"size:255" json:"clientName"`
	ClientEmail     string            `gorm:"size:255" json:"clientEmail"`
	ClientPhone     string            `gorm:"size:32" json:"clientPhone"`
	AppointmentType string            `gorm:"size:64" json:"appointmentType"`
	ScheduledDate   string            `gorm:"size:10;index" json:"scheduledDate"`
	ScheduledTime   string            `gorm:"size:5" json:"scheduledTime"`
	Duration        int               `gorm:"default:30" json:"duration"`
	Attorney        *string           `gorm:"size:255" json:"attorney"`
	Location        string            `gorm:"size:255;default:'Office'" json:"location"`
	Status          AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes"`
	ReminderSent    bool              `gorm:"default:false" json:"reminderSent"`
	SlotKey         *string           `gorm:"size:20;uniqueIndex" json:"-"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// SlotKeyFor builds the value stored in SlotKey for an active appointment.
func SlotKeyFor(date, timeLabel string) string {
	return date + "|" + timeLabel
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}
