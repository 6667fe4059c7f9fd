package models

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter names used by the intake handlers.
const (
	CounterTotalContacts     = "total_contacts"
	CounterContactsThisMonth = "contacts_this_month"
	CounterTotalAppointments = "total_appointments"
)

// AnalyticsCounter is a named monotonic counter. Increments are single atomic
// UPDATEs, so concurrent submissions cannot lose each other's increment.
type AnalyticsCounter struct {
	Name  string `gorm:"primaryKey;size:64" json:"name"`
	Count int64  `json:"count"`
}

// Activity is an append-only event log row shown on the admin dashboard.
type Activity struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Type        string    `gorm:"size:32" json:"type"`
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"timestamp"`
}

// IncrementCounter bumps the named counter by one, creating it on first use.
func IncrementCounter(ctx context.Context, db *gorm.DB, name string) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
	}).Create(&AnalyticsCounter{Name: name, Count: 1}).Error
}

// RecordActivity appends an event to the activity log.
func RecordActivity(ctx context.Context, db *gorm.DB, activityType, description string) error {
	return db.WithContext(ctx).Create(&Activity{Type: activityType, Description: description}).Error
}
