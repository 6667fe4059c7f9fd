package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/flop2top/sharma-and-associates/internal/metrics"
	"github.com/flop2top/sharma-and-associates/internal/models"
	"github.com/flop2top/sharma-and-associates/internal/notify"
	"github.com/flop2top/sharma-and-associates/internal/schedule"
	"github.com/flop2top/sharma-and-associates/internal/utils"
)

// GormBookingStore answers booked-slot lookups from the appointments table.
type GormBookingStore struct {
	DB *gorm.DB
}

// BookedTimes returns the slot labels occupied on a date.
func (s GormBookingStore) BookedTimes(ctx context.Context, date string) ([]string, error) {
	var times []string
	err := s.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("scheduled_date = ? AND status IN ?", date, models.ActiveStatuses).
		Pluck("scheduled_time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("err reading booked slots for %s: %w", date, err)
	}
	return times, nil
}

// AppointmentHandler handles appointment booking and availability requests.
type AppointmentHandler struct {
	DB         *gorm.DB
	Resolver   *schedule.Resolver
	Dispatcher *notify.Dispatcher
	log        *logrus.Entry
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(log *logrus.Logger, db *gorm.DB, resolver *schedule.Resolver, dispatcher *notify.Dispatcher) *AppointmentHandler {
	return &AppointmentHandler{
		DB:         db,
		Resolver:   resolver,
		Dispatcher: dispatcher,
		log:        log.WithField("component", "appointments"),
	}
}

// CreateAppointmentRequest represents the request body for booking an
// appointment. Required fields are reported back in missingFields, so
// binding tags are not used here.
type CreateAppointmentRequest struct {
	InquiryID       *string `json:"inquiryId"`
	CaseID          *string `json:"caseId"`
	ClientName      string  `json:"clientName" validate:"required"`
	ClientEmail     string  `json:"clientEmail" validate:"required"`
	ClientPhone     string  `json:"clientPhone" validate:"required"`
	AppointmentType string  `json:"appointmentType" validate:"required"`
	PreferredDate   string  `json:"preferredDate" validate:"required"`
	PreferredTime   string  `json:"preferredTime" validate:"required"`
	Duration        int     `json:"duration"`
	Attorney        *string `json:"attorney"`
	Location        string  `json:"location"`
	Notes           string  `json:"notes"`
}

// Create handles POST /api/appointments.
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload")
		return
	}

	if missing := utils.MissingFields(&req); len(missing) > 0 {
		utils.FailWith(c, http.StatusBadRequest,
			"Missing required fields: "+strings.Join(missing, ", "),
			gin.H{"missingFields": missing})
		return
	}

	availability := h.Resolver.Check(c.Request.Context(), req.PreferredDate, req.PreferredTime)
	if !availability.Available {
		metrics.BookingConflicts.Inc()
		utils.FailWith(c, http.StatusConflict,
			"Selected time slot is not available",
			gin.H{"suggestedTimes": availability.SuggestedTimes})
		return
	}

	duration := req.Duration
	if duration == 0 {
		duration = 30
	}
	location := req.Location
	if location == "" {
		location = "Office"
	}

	slotKey := models.SlotKeyFor(req.PreferredDate, req.PreferredTime)
	appointment := models.Appointment{
		ID:              utils.NewReferenceID("APT"),
		InquiryID:       req.InquiryID,
		CaseID:          req.CaseID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		AppointmentType: req.AppointmentType,
		ScheduledDate:   req.PreferredDate,
		ScheduledTime:   req.PreferredTime,
		Duration:        duration,
		Attorney:        req.Attorney,
		Location:        location,
		Status:          models.StatusScheduled,
		Notes:           req.Notes,
		SlotKey:         &slotKey,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		// The unique index on SlotKey catches the race between the
		// availability check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.BookingConflicts.Inc()
			lost := h.Resolver.Check(c.Request.Context(), req.PreferredDate, req.PreferredTime)
			utils.FailWith(c, http.StatusConflict,
				"Selected time slot is not available",
				gin.H{"suggestedTimes": lost.SuggestedTimes})
			return
		}
		h.log.Errorf("failed to store appointment %s: %v", appointment.ID, err)
		utils.InternalServerError(c, "There was an error scheduling your appointment. Please try again or contact us directly.")
		return
	}

	// Booking is committed; everything below is best effort.
	h.Dispatcher.AppointmentBooked(c.Request.Context(), &appointment)
	h.recordAnalytics(c.Request.Context(), &appointment)

	utils.SuccessWith(c, "Appointment scheduled successfully", gin.H{
		"appointmentId": appointment.ID,
		"appointment": gin.H{
			"id":       appointment.ID,
			"date":     appointment.ScheduledDate,
			"time":     appointment.ScheduledTime,
			"type":     appointment.AppointmentType,
			"duration": appointment.Duration,
		},
	})
}

func (h *AppointmentHandler) recordAnalytics(ctx context.Context, apt *models.Appointment) {
	if err := models.IncrementCounter(ctx, h.DB, models.CounterTotalAppointments); err != nil {
		h.log.Warnf("analytics counter update failed: %v", err)
	}
	desc := fmt.Sprintf("New appointment from %s - %s", apt.ClientName, apt.AppointmentType)
	if err := models.RecordActivity(ctx, h.DB, "appointment", desc); err != nil {
		h.log.Warnf("activity log append failed: %v", err)
	}
}

// Query handles GET /api/appointments?action=availability|slots.
func (h *AppointmentHandler) Query(c *gin.Context) {
	switch c.Query("action") {
	case "availability":
		h.availability(c)
	case "slots":
		h.slots(c)
	default:
		utils.BadRequest(c, "Invalid action")
	}
}

func (h *AppointmentHandler) availability(c *gin.Context) {
	start := c.Query("start")
	if start == "" {
		start = time.Now().Format(schedule.DateLayout)
	}
	end := c.Query("end")
	if end == "" {
		end = time.Now().AddDate(0, 0, 7).Format(schedule.DateLayout)
	}

	days, err := h.Resolver.Range(c.Request.Context(), start, end)
	if err != nil {
		utils.BadRequest(c, "Invalid date range")
		return
	}
	utils.Success(c, "", days)
}

func (h *AppointmentHandler) slots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.BadRequest(c, "Date parameter required")
		return
	}

	day := h.Resolver.DaySlots(c.Request.Context(), date)
	utils.Success(c, "", gin.H{
		"date":           date,
		"totalSlots":     day.TotalSlots,
		"availableSlots": day.AvailableSlots,
		"bookedSlots":    day.BookedSlots,
		"slots":          day.Slots,
	})
}
