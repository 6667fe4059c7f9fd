package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/flop2top/sharma-and-associates/internal/config"
	"github.com/flop2top/sharma-and-associates/internal/mailer"
	"github.com/flop2top/sharma-and-associates/internal/metrics"
	"github.com/flop2top/sharma-and-associates/internal/models"
)

// Sender sends a single email message.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Dispatcher formats and sends transactional email for intake events.
//
// Send failures are logged and swallowed: persistence is the source of truth,
// notifications are best effort.
type Dispatcher struct {
	log       *logrus.Entry
	sender    Sender
	from      mailer.Address
	firmEmail string
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(log *logrus.Logger, sender Sender, cfg config.MailerConfig) *Dispatcher {
	return &Dispatcher{
		log:       log.WithField("component", "notify"),
		sender:    sender,
		from:      mailer.Address{Email: cfg.FromEmail, Name: cfg.FromName},
		firmEmail: cfg.FirmEmail,
	}
}

// InquiryReceived sends the firm alert and the client confirmation for a new
// inquiry.
func (d *Dispatcher) InquiryReceived(ctx context.Context, inq *models.Inquiry) {
	if err := d.sender.Send(ctx, mailer.InquiryFirmAlert(inq, d.from, d.firmEmail)); err != nil {
		metrics.NotifyErrCount.WithLabelValues("inquiry_firm").Inc()
		d.log.Errorf("firm alert for inquiry %s failed: %v", inq.ID, err)
	}
	if err := d.sender.Send(ctx, mailer.InquiryClientConfirmation(inq, d.from)); err != nil {
		metrics.NotifyErrCount.WithLabelValues("inquiry_client").Inc()
		d.log.Errorf("client confirmation for inquiry %s failed: %v", inq.ID, err)
	}
}

// AppointmentBooked sends the client confirmation and the firm alert for a
// freshly booked appointment.
func (d *Dispatcher) AppointmentBooked(ctx context.Context, apt *models.Appointment) {
	if err := d.sender.Send(ctx, mailer.AppointmentClientConfirmation(apt, d.from)); err != nil {
		metrics.NotifyErrCount.WithLabelValues("appointment_client").Inc()
		d.log.Errorf("client confirmation for appointment %s failed: %v", apt.ID, err)
	}
	if err := d.sender.Send(ctx, mailer.AppointmentFirmAlert(apt, d.from, d.firmEmail)); err != nil {
		metrics.NotifyErrCount.WithLabelValues("appointment_firm").Inc()
		d.log.Errorf("firm alert for appointment %s failed: %v", apt.ID, err)
	}
}

// ReminderDue sends the day-before reminder for an appointment. Unlike the
// intake notifications the error is returned, so the reminder worker can
// leave the reminderSent flag untouched and retry on the next tick.
func (d *Dispatcher) ReminderDue(ctx context.Context, apt *models.Appointment) error {
	return d.sender.Send(ctx, mailer.AppointmentReminder(apt, d.from))
}
