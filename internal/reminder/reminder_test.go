package reminder

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/flop2top/sharma-and-associates/internal/config"
	"github.com/flop2top/sharma-and-associates/internal/mailer"
	"github.com/flop2top/sharma-and-associates/internal/models"
	"github.com/flop2top/sharma-and-associates/internal/notify"
	"github.com/flop2top/sharma-and-associates/internal/schedule"
)

type flakySender struct {
	fail bool
	sent []mailer.Message
}

func (f *flakySender) Send(_ context.Context, msg mailer.Message) error {
	if f.fail {
		return errors.New("email API down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestWorker(t *testing.T, sender *flakySender) (*Worker, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)
	dispatcher := notify.NewDispatcher(log, sender, config.MailerConfig{
		FirmEmail: "firm@example.com",
		FromEmail: "noreply@example.com",
	})
	return NewWorker(log, db, dispatcher, time.Hour), db
}

func seedAppointment(t *testing.T, db *gorm.DB, id, date, slot string, status models.AppointmentStatus, reminderSent bool) {
	t.Helper()
	slotKey := models.SlotKeyFor(date, slot)
	apt := models.Appointment{
		ID:            id,
		ClientName:    "Priya Sharma",
		ClientEmail:   "priya@example.com",
		ScheduledDate: date,
		ScheduledTime: slot,
		Status:        status,
		ReminderSent:  reminderSent,
	}
	if apt.Active() {
		apt.SlotKey = &slotKey
	}
	require.NoError(t, db.Create(&apt).Error)
}

func TestSweepSendsAndFlags(t *testing.T) {
	sender := &flakySender{}
	w, db := newTestWorker(t, sender)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(schedule.DateLayout)
	dayAfter := time.Now().AddDate(0, 0, 2).Format(schedule.DateLayout)
	seedAppointment(t, db, "APT_due", tomorrow, "10:00", models.StatusScheduled, false)
	seedAppointment(t, db, "APT_later", dayAfter, "10:00", models.StatusScheduled, false)
	seedAppointment(t, db, "APT_done", tomorrow, "10:30", models.StatusScheduled, true)

	w.sweep(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Reminder")

	var apt models.Appointment
	require.NoError(t, db.First(&apt, "id = ?", "APT_due").Error)
	assert.True(t, apt.ReminderSent)

	require.NoError(t, db.First(&apt, "id = ?", "APT_later").Error)
	assert.False(t, apt.ReminderSent)
}

func TestSweepSkipsCancelled(t *testing.T) {
	sender := &flakySender{}
	w, db := newTestWorker(t, sender)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(schedule.DateLayout)
	seedAppointment(t, db, "APT_cancelled", tomorrow, "10:00", models.StatusCancelled, false)

	w.sweep(context.Background())
	assert.Empty(t, sender.sent)
}

func TestSweepRetriesFailedSend(t *testing.T) {
	sender := &flakySender{fail: true}
	w, db := newTestWorker(t, sender)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(schedule.DateLayout)
	seedAppointment(t, db, "APT_retry", tomorrow, "10:00", models.StatusConfirmed, false)

	w.sweep(context.Background())

	var apt models.Appointment
	require.NoError(t, db.First(&apt, "id = ?", "APT_retry").Error)
	assert.False(t, apt.ReminderSent)

	// the next sweep picks it up once the mailer recovers
	sender.fail = false
	w.sweep(context.Background())

	require.NoError(t, db.First(&apt, "id = ?", "APT_retry").Error)
	assert.True(t, apt.ReminderSent)
	assert.Len(t, sender.sent, 1)
}
