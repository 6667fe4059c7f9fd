package reminder

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/flop2top/sharma-and-associates/internal/models"
	"github.com/flop2top/sharma-and-associates/internal/notify"
	"github.com/flop2top/sharma-and-associates/internal/schedule"
)

// Worker periodically sends day-before reminders for upcoming appointments.
type Worker struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
	interval   time.Duration
	log        *logrus.Entry
}

// NewWorker creates a reminder worker that sweeps on the given interval.
func NewWorker(log *logrus.Logger, db *gorm.DB, dispatcher *notify.Dispatcher, interval time.Duration) *Worker {
	return &Worker{
		db:         db,
		dispatcher: dispatcher,
		interval:   interval,
		log:        log.WithField("component", "reminder"),
	}
}

// Run sweeps until the context is cancelled. The first sweep happens
// immediately so a restart does not delay pending reminders by a full
// interval.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep sends reminders for tomorrow's active appointments. The reminderSent
// flag is only set after a successful send, so a failed send is retried on
// the next tick.
func (w *Worker) sweep(ctx context.Context) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(schedule.DateLayout)

	var due []models.Appointment
	err := w.db.WithContext(ctx).
		Where("scheduled_date = ? AND status IN ? AND reminder_sent = ?", tomorrow, models.ActiveStatuses, false).
		Find(&due).Error
	if err != nil {
		w.log.Errorf("reminder sweep query failed: %v", err)
		return
	}

	for i := range due {
		apt := &due[i]
		if err := w.dispatcher.ReminderDue(ctx, apt); err != nil {
			w.log.Errorf("reminder for appointment %s failed: %v", apt.ID, err)
			continue
		}
		if err := w.db.WithContext(ctx).Model(apt).Update("reminder_sent", true).Error; err != nil {
			w.log.Errorf("failed to flag reminder for %s: %v", apt.ID, err)
			continue
		}
		w.log.WithField("appointment", apt.ID).Info("reminder sent")
	}
}
