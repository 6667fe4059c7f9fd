package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/flop2top/sharma-and-associates/internal/models"
	"github.com/flop2top/sharma-and-associates/internal/schedule"
	"github.com/flop2top/sharma-and-associates/internal/utils"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// AdminHandler serves the admin dashboard's query and update endpoints.
type AdminHandler struct {
	DB  *gorm.DB
	log *logrus.Entry
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(log *logrus.Logger, db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		DB:  db,
		log: log.WithField("component", "admin"),
	}
}

// pagination reads limit/offset query params. The limit is clamped so a
// caller cannot request an unbounded page.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// ListInquiries handles GET /admin/inquiries with status/urgency filters.
func (h *AdminHandler) ListInquiries(c *gin.Context) {
	limit, offset := pagination(c)

	query := h.DB.Model(&models.Inquiry{})
	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if urgency := c.Query("urgency"); urgency != "" && urgency != "all" {
		query = query.Where("urgency = ?", urgency)
	}

	var inquiries []models.Inquiry
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&inquiries).Error; err != nil {
		h.log.Errorf("failed to list inquiries: %v", err)
		utils.InternalServerError(c, "Failed to fetch inquiries")
		return
	}

	utils.SuccessWith(c, "", gin.H{
		"data": inquiries,
		"meta": gin.H{"limit": limit, "offset": offset, "count": len(inquiries)},
	})
}

// GetInquiry handles GET /admin/inquiry?id= and includes follow-ups.
func (h *AdminHandler) GetInquiry(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		utils.BadRequest(c, "Inquiry ID required")
		return
	}

	var inquiry models.Inquiry
	if err := h.DB.First(&inquiry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Inquiry not found")
		} else {
			h.log.Errorf("failed to fetch inquiry %s: %v", id, err)
			utils.InternalServerError(c, "Failed to fetch inquiry")
		}
		return
	}

	var followUps []models.FollowUp
	if err := h.DB.Where("inquiry_id = ?", id).Order("created_at DESC").Find(&followUps).Error; err != nil {
		h.log.Errorf("failed to fetch follow-ups for %s: %v", id, err)
		utils.InternalServerError(c, "Failed to fetch inquiry")
		return
	}

	utils.Success(c, "", gin.H{"inquiry": inquiry, "followUps": followUps})
}

// UpdateInquiryRequest carries a partial inquiry update; only supplied
// fields are written.
type UpdateInquiryRequest struct {
	ID               string  `json:"id" validate:"required"`
	Status           *string `json:"status"`
	AssignedTo       *string `json:"assignedTo"`
	Notes            *string `json:"notes"`
	ConsultationDate *string `json:"consultationDate"`
	CaseValue        *string `json:"caseValue"`
}

// UpdateInquiry handles POST /admin/inquiry/update.
func (h *AdminHandler) UpdateInquiry(c *gin.Context) {
	var req UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload")
		return
	}
	if req.ID == "" {
		utils.BadRequest(c, "Inquiry ID required")
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.ConsultationDate != nil {
		updates["consultation_date"] = *req.ConsultationDate
	}
	if req.CaseValue != nil {
		updates["case_value"] = *req.CaseValue
	}

	result := h.DB.Model(&models.Inquiry{}).Where("id = ?", req.ID).Updates(updates)
	if result.Error != nil {
		h.log.Errorf("failed to update inquiry %s: %v", req.ID, result.Error)
		utils.InternalServerError(c, "Failed to update inquiry")
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Inquiry not found")
		return
	}

	utils.SuccessWith(c, "Inquiry updated successfully", nil)
}

// CreateFollowUpRequest carries a new outreach record for an inquiry.
type CreateFollowUpRequest struct {
	InquiryID    string  `json:"inquiryId" validate:"required"`
	Type         string  `json:"type" validate:"required"`
	Method       string  `json:"method"`
	Subject      string  `json:"subject"`
	Content      string  `json:"content" validate:"required"`
	ScheduledFor *string `json:"scheduledFor"`
	Priority     string  `json:"priority"`
	CreatedBy    string  `json:"createdBy"`
}

// CreateFollowUp handles POST /admin/follow-up/create.
func (h *AdminHandler) CreateFollowUp(c *gin.Context) {
	var req CreateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload")
		return
	}
	if missing := utils.MissingFields(&req); len(missing) > 0 {
		utils.BadRequest(c, "Required fields: inquiryId, type, content")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	followUp := models.FollowUp{
		InquiryID:    req.InquiryID,
		Type:         req.Type,
		Method:       req.Method,
		Subject:      req.Subject,
		Content:      req.Content,
		ScheduledFor: req.ScheduledFor,
		Priority:     priority,
		CreatedBy:    req.CreatedBy,
		Status:       models.FollowUpPending,
	}

	if err := h.DB.Create(&followUp).Error; err != nil {
		h.log.Errorf("failed to create follow-up for %s: %v", req.InquiryID, err)
		utils.InternalServerError(c, "Failed to create follow-up")
		return
	}

	if err := h.DB.Model(&models.Inquiry{}).Where("id = ?", req.InquiryID).
		Update("followed_up", true).Error; err != nil {
		h.log.Warnf("failed to flag inquiry %s as followed up: %v", req.InquiryID, err)
	}

	utils.SuccessWith(c, "Follow-up created successfully", gin.H{"followUpId": followUp.ID})
}

// ListAppointments handles GET /admin/appointments with status and date
// range filters.
func (h *AdminHandler) ListAppointments(c *gin.Context) {
	limit, offset := pagination(c)

	query := h.DB.Model(&models.Appointment{})
	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("scheduled_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("scheduled_date <= ?", to)
	}

	var appointments []models.Appointment
	if err := query.Order("scheduled_date ASC, scheduled_time ASC").
		Limit(limit).Offset(offset).Find(&appointments).Error; err != nil {
		h.log.Errorf("failed to list appointments: %v", err)
		utils.InternalServerError(c, "Failed to fetch appointments")
		return
	}

	utils.SuccessWith(c, "", gin.H{
		"data": appointments,
		"meta": gin.H{"limit": limit, "offset": offset, "count": len(appointments)},
	})
}

// UpdateAppointmentStatusRequest changes an appointment's status.
type UpdateAppointmentStatusRequest struct {
	ID     string                   `json:"id" validate:"required"`
	Status models.AppointmentStatus `json:"status" validate:"required"`
	Notes  *string                  `json:"notes"`
}

// UpdateAppointmentStatus handles POST /admin/appointment/update. Moving an
// appointment out of an active status releases its slot.
func (h *AdminHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload")
		return
	}
	if req.ID == "" || req.Status == "" {
		utils.BadRequest(c, "Required fields: id, status")
		return
	}
	switch req.Status {
	case models.StatusScheduled, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
	default:
		utils.BadRequest(c, "Invalid status")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			h.log.Errorf("failed to fetch appointment %s: %v", req.ID, err)
			utils.InternalServerError(c, "Failed to update appointment")
		}
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	switch req.Status {
	case models.StatusScheduled, models.StatusConfirmed:
		updates["slot_key"] = models.SlotKeyFor(appointment.ScheduledDate, appointment.ScheduledTime)
	default:
		updates["slot_key"] = nil
	}

	if err := h.DB.Model(&appointment).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "Another appointment already occupies this slot")
			return
		}
		h.log.Errorf("failed to update appointment %s: %v", req.ID, err)
		utils.InternalServerError(c, "Failed to update appointment")
		return
	}

	utils.SuccessWith(c, "Appointment updated successfully", nil)
}

// ListAttorneys handles GET /admin/attorneys.
func (h *AdminHandler) ListAttorneys(c *gin.Context) {
	var attorneys []models.Attorney
	if err := h.DB.Where("is_active = ?", true).Order("name").Find(&attorneys).Error; err != nil {
		h.log.Errorf("failed to list attorneys: %v", err)
		utils.InternalServerError(c, "Failed to fetch attorneys")
		return
	}
	utils.SuccessWith(c, "", gin.H{"data": attorneys})
}

// ListCases handles GET /admin/cases.
func (h *AdminHandler) ListCases(c *gin.Context) {
	limit, offset := pagination(c)

	query := h.DB.Model(&models.Case{})
	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var cases []models.Case
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&cases).Error; err != nil {
		h.log.Errorf("failed to list cases: %v", err)
		utils.InternalServerError(c, "Failed to fetch cases")
		return
	}
	utils.SuccessWith(c, "", gin.H{
		"data": cases,
		"meta": gin.H{"limit": limit, "offset": offset, "count": len(cases)},
	})
}

// CreateCaseRequest opens a case, optionally linked to an inquiry.
type CreateCaseRequest struct {
	InquiryID  *string `json:"inquiryId"`
	ClientName string  `json:"clientName" validate:"required"`
	CaseType   string  `json:"caseType" validate:"required"`
	Attorney   *string `json:"attorney"`
}

// CreateCase handles POST /admin/case/create.
func (h *AdminHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload")
		return
	}
	if missing := utils.MissingFields(&req); len(missing) > 0 {
		utils.BadRequest(c, "Required fields: clientName, caseType")
		return
	}

	newCase := models.Case{
		InquiryID:  req.InquiryID,
		ClientName: req.ClientName,
		CaseType:   req.CaseType,
		Status:     "open",
		Attorney:   req.Attorney,
	}
	if err := h.DB.Create(&newCase).Error; err != nil {
		h.log.Errorf("failed to create case: %v", err)
		utils.InternalServerError(c, "Failed to create case")
		return
	}

	utils.SuccessWith(c, "Case created successfully", gin.H{"caseId": newCase.ID})
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type urgencyCount struct {
	Urgency string `json:"urgency"`
	Count   int64  `json:"count"`
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var totalInquiries int64
	if err := h.DB.Model(&models.Inquiry{}).Count(&totalInquiries).Error; err != nil {
		h.log.Errorf("dashboard stats failed: %v", err)
		utils.InternalServerError(c, "Failed to fetch dashboard stats")
		return
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	var newToday int64
	h.DB.Model(&models.Inquiry{}).
		Where("created_at >= ? AND created_at < ?", startOfDay, startOfDay.AddDate(0, 0, 1)).
		Count(&newToday)

	var byStatus []statusCount
	h.DB.Model(&models.Inquiry{}).Select("status, COUNT(*) as count").Group("status").Scan(&byStatus)

	var byUrgency []urgencyCount
	h.DB.Model(&models.Inquiry{}).Select("urgency, COUNT(*) as count").Group("urgency").Scan(&byUrgency)

	var upcoming int64
	h.DB.Model(&models.Appointment{}).
		Where("scheduled_date >= ? AND status IN ?", time.Now().Format(schedule.DateLayout), models.ActiveStatuses).
		Count(&upcoming)

	utils.Success(c, "", gin.H{
		"totalInquiries":       totalInquiries,
		"newToday":             newToday,
		"byStatus":             byStatus,
		"byUrgency":            byUrgency,
		"upcomingAppointments": upcoming,
	})
}

// Analytics handles GET /api/analytics.
func (h *AdminHandler) Analytics(c *gin.Context) {
	var counters []models.AnalyticsCounter
	if err := h.DB.Order("name").Find(&counters).Error; err != nil {
		h.log.Errorf("failed to fetch analytics counters: %v", err)
		utils.InternalServerError(c, "Failed to fetch analytics")
		return
	}

	var recent []models.Activity
	if err := h.DB.Order("id DESC").Limit(50).Find(&recent).Error; err != nil {
		h.log.Errorf("failed to fetch activity log: %v", err)
		utils.InternalServerError(c, "Failed to fetch analytics")
		return
	}

	utils.SuccessWith(c, "", gin.H{
		"analytics": gin.H{
			"counters":       counters,
			"recentActivity": recent,
		},
	})
}
