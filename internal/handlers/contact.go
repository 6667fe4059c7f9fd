package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/flop2top/sharma-and-associates/internal/models"
	"github.com/flop2top/sharma-and-associates/internal/notify"
	"github.com/flop2top/sharma-and-associates/internal/utils"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	DB         *gorm.DB
	Dispatcher *notify.Dispatcher
	log        *logrus.Entry
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(log *logrus.Logger, db *gorm.DB, dispatcher *notify.Dispatcher) *ContactHandler {
	return &ContactHandler{
		DB:         db,
		Dispatcher: dispatcher,
		log:        log.WithField("component", "contact"),
	}
}

// SubmitInquiryRequest represents the contact form payload.
type SubmitInquiryRequest struct {
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    string  `json:"lastName" validate:"required"`
	Email       string  `json:"email" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	City        *string `json:"city"`
	LegalMatter string  `json:"legalMatter" validate:"required"`
	Urgency     string  `json:"urgency"`
	Message     string  `json:"message" validate:"required"`
	HearAbout   *string `json:"hearAbout"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req SubmitInquiryRequest
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

	if !utils.ValidEmail(req.Email) {
		utils.BadRequest(c, "Invalid email format")
		return
	}

	urgency := models.Urgency(req.Urgency)
	if urgency == "" {
		urgency = models.UrgencyFlexible
	}

	inquiry := models.Inquiry{
		ID:          utils.NewReferenceID("INQ"),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		City:        req.City,
		LegalMatter: req.LegalMatter,
		Urgency:     urgency,
		Message:     req.Message,
		HearAbout:   req.HearAbout,
		Status:      models.InquiryNew,
	}

	if err := h.DB.Create(&inquiry).Error; err != nil {
		h.log.Errorf("failed to store inquiry %s: %v", inquiry.ID, err)
		utils.InternalServerError(c, "There was an error processing your request. Please try again or contact us directly.")
		return
	}

	h.recordAnalytics(c.Request.Context(), &inquiry)
	h.Dispatcher.InquiryReceived(c.Request.Context(), &inquiry)

	utils.SuccessWith(c, "Thank you for your inquiry! We will get back to you within 24 hours.", gin.H{
		"inquiryId": inquiry.ID,
	})
}

func (h *ContactHandler) recordAnalytics(ctx context.Context, inq *models.Inquiry) {
	for _, name := range []string{
		models.CounterTotalContacts,
		models.CounterContactsThisMonth,
		"service:" + inq.LegalMatter,
	} {
		if err := models.IncrementCounter(ctx, h.DB, name); err != nil {
			h.log.Warnf("analytics counter %q update failed: %v", name, err)
		}
	}
	desc := fmt.Sprintf("New contact from %s %s - %s", inq.FirstName, inq.LastName, inq.LegalMatter)
	if err := models.RecordActivity(ctx, h.DB, "contact", desc); err != nil {
		h.log.Warnf("activity log append failed: %v", err)
	}
}
