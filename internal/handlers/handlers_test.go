package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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

type recordingSender struct {
	sent []mailer.Message
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	sender *recordingSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	sender := &recordingSender{}
	dispatcher := notify.NewDispatcher(log, sender, config.MailerConfig{
		FirmEmail: "firm@example.com",
		FromEmail: "noreply@example.com",
		FromName:  "Test Firm",
	})
	resolver := schedule.NewResolver(log, GormBookingStore{DB: db})

	contact := NewContactHandler(log, db, dispatcher)
	appointments := NewAppointmentHandler(log, db, resolver, dispatcher)
	admin := NewAdminHandler(log, db)

	router := gin.New()
	router.POST("/api/contact", contact.Submit)
	router.POST("/api/appointments", appointments.Create)
	router.GET("/api/appointments", appointments.Query)
	router.GET("/admin/inquiries", admin.ListInquiries)
	router.GET("/admin/inquiry", admin.GetInquiry)
	router.POST("/admin/inquiry/update", admin.UpdateInquiry)
	router.POST("/admin/follow-up/create", admin.CreateFollowUp)
	router.GET("/admin/dashboard", admin.Dashboard)

	return &testEnv{db: db, router: router, sender: sender}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func validInquiry() gin.H {
	return gin.H{
		"firstName":   "Priya",
		"lastName":    "Sharma",
		"email":       "priya@example.com",
		"phone":       "+91 98765 43210",
		"legalMatter": "Property Law",
		"message":     "Need help with a property dispute.",
	}
}

func validAppointment(date, slot string) gin.H {
	return gin.H{
		"clientName":      "Priya Sharma",
		"clientEmail":     "priya@example.com",
		"clientPhone":     "+91 98765 43210",
		"appointmentType": "Initial Consultation",
		"preferredDate":   date,
		"preferredTime":   slot,
	}
}

func TestSubmitInquiry(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/contact", validInquiry())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["inquiryId"], "INQ_")

	var stored models.Inquiry
	require.NoError(t, env.db.First(&stored, "id = ?", body["inquiryId"]).Error)
	assert.Equal(t, models.InquiryNew, stored.Status)
	assert.Equal(t, models.UrgencyFlexible, stored.Urgency)

	// firm alert + client confirmation
	assert.Len(t, env.sender.sent, 2)

	var counter models.AnalyticsCounter
	require.NoError(t, env.db.First(&counter, "name = ?", models.CounterTotalContacts).Error)
	assert.EqualValues(t, 1, counter.Count)
}

func TestSubmitInquiryMissingFields(t *testing.T) {
	env := newTestEnv(t)

	payload := validInquiry()
	delete(payload, "email")
	delete(payload, "message")

	w, body := env.do(t, http.MethodPost, "/api/contact", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.ElementsMatch(t, []interface{}{"email", "message"}, body["missingFields"])
}

func TestSubmitInquiryInvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	payload := validInquiry()
	payload["email"] = "not-an-email"

	w, body := env.do(t, http.MethodPost, "/api/contact", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email format", body["message"])
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/appointments", validAppointment("2026-09-07", "10:00"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["appointmentId"], "APT_")

	var stored models.Appointment
	require.NoError(t, env.db.First(&stored, "id = ?", body["appointmentId"]).Error)
	assert.Equal(t, models.StatusScheduled, stored.Status)
	assert.Equal(t, 30, stored.Duration)
	assert.Equal(t, "Office", stored.Location)
	require.NotNil(t, stored.SlotKey)
	assert.Equal(t, "2026-09-07|10:00", *stored.SlotKey)
}

func TestCreateAppointmentDoubleBooking(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/appointments", validAppointment("2026-09-07", "10:00"))
	require.Equal(t, http.StatusOK, w.Code)

	w, body := env.do(t, http.MethodPost, "/api/appointments", validAppointment("2026-09-07", "10:00"))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])

	suggested, ok := body["suggestedTimes"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, suggested)
	assert.LessOrEqual(t, len(suggested), 5)
	assert.NotContains(t, suggested, "10:00")

	var count int64
	env.db.Model(&models.Appointment{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateAppointmentMissingFields(t *testing.T) {
	env := newTestEnv(t)

	payload := validAppointment("2026-09-07", "10:00")
	delete(payload, "clientEmail")

	w, body := env.do(t, http.MethodPost, "/api/appointments", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []interface{}{"clientEmail"}, body["missingFields"])
}

func TestQuerySlots(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/appointments", validAppointment("2026-09-07", "09:00"))
	require.Equal(t, http.StatusOK, w.Code)

	w, body := env.do(t, http.MethodGet, "/api/appointments?action=slots&date=2026-09-07", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 14, data["totalSlots"])
	assert.EqualValues(t, 13, data["availableSlots"])
	assert.EqualValues(t, 1, data["bookedSlots"])
}

func TestQuerySlotsRequiresDate(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodGet, "/api/appointments?action=slots", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Date parameter required", body["message"])
}

func TestCancelledAppointmentFreesSlot(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/appointments", validAppointment("2026-09-07", "10:00"))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, env.db.Model(&models.Appointment{}).
		Where("id = ?", body["appointmentId"]).
		Updates(map[string]interface{}{"status": models.StatusCancelled, "slot_key": nil}).Error)

	w, _ = env.do(t, http.MethodPost, "/api/appointments", validAppointment("2026-09-07", "10:00"))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListInquiriesPaginationClamp(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		inq := models.Inquiry{
			ID:          fmt.Sprintf("INQ_test_%d", i),
			FirstName:   "Client",
			LastName:    fmt.Sprintf("%d", i),
			Email:       "c@example.com",
			LegalMatter: "Family Law",
			Status:      models.InquiryNew,
			Urgency:     models.UrgencyFlexible,
		}
		require.NoError(t, env.db.Create(&inq).Error)
	}

	w, body := env.do(t, http.MethodGet, "/admin/inquiries?limit=10000", nil)
	require.Equal(t, http.StatusOK, w.Code)

	meta, ok := body["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 100, meta["limit"])
	assert.EqualValues(t, 0, meta["offset"])
	assert.EqualValues(t, 3, meta["count"])
}

func TestListInquiriesStatusFilter(t *testing.T) {
	env := newTestEnv(t)

	for i, status := range []models.InquiryStatus{models.InquiryNew, models.InquiryClosed} {
		inq := models.Inquiry{
			ID:          fmt.Sprintf("INQ_filter_%d", i),
			FirstName:   "Client",
			Email:       "c@example.com",
			LegalMatter: "Family Law",
			Status:      status,
			Urgency:     models.UrgencyFlexible,
		}
		require.NoError(t, env.db.Create(&inq).Error)
	}

	w, body := env.do(t, http.MethodGet, "/admin/inquiries?status=closed", nil)
	require.Equal(t, http.StatusOK, w.Code)

	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["count"])
}

func TestUpdateInquiry(t *testing.T) {
	env := newTestEnv(t)

	inq := models.Inquiry{
		ID: "INQ_update", FirstName: "Client", Email: "c@example.com",
		LegalMatter: "Family Law", Status: models.InquiryNew, Urgency: models.UrgencyFlexible,
	}
	require.NoError(t, env.db.Create(&inq).Error)

	status := "contacted"
	notes := "Left a voicemail"
	w, _ := env.do(t, http.MethodPost, "/admin/inquiry/update", gin.H{
		"id": "INQ_update", "status": status, "notes": notes,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Inquiry
	require.NoError(t, env.db.First(&stored, "id = ?", "INQ_update").Error)
	assert.Equal(t, models.InquiryContacted, stored.Status)
	require.NotNil(t, stored.Notes)
	assert.Equal(t, notes, *stored.Notes)
}

func TestUpdateInquiryNotFound(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/admin/inquiry/update", gin.H{
		"id": "INQ_missing", "status": "contacted",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateFollowUpFlagsInquiry(t *testing.T) {
	env := newTestEnv(t)

	inq := models.Inquiry{
		ID: "INQ_fu", FirstName: "Client", Email: "c@example.com",
		LegalMatter: "Family Law", Status: models.InquiryNew, Urgency: models.UrgencyFlexible,
	}
	require.NoError(t, env.db.Create(&inq).Error)

	w, body := env.do(t, http.MethodPost, "/admin/follow-up/create", gin.H{
		"inquiryId": "INQ_fu",
		"type":      "call",
		"content":   "Discussed retainer terms",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["followUpId"])

	var stored models.Inquiry
	require.NoError(t, env.db.First(&stored, "id = ?", "INQ_fu").Error)
	assert.True(t, stored.FollowedUp)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/contact", validInquiry())
	require.Equal(t, http.StatusOK, w.Code)

	w, body := env.do(t, http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, data["totalInquiries"])
}
