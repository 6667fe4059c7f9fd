package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/flop2top/sharma-and-associates/internal/config"
	"github.com/flop2top/sharma-and-associates/internal/handlers"
	"github.com/flop2top/sharma-and-associates/internal/metrics"
	"github.com/flop2top/sharma-and-associates/internal/middleware"
	"github.com/flop2top/sharma-and-associates/internal/notify"
	"github.com/flop2top/sharma-and-associates/internal/schedule"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, log *logrus.Logger, db *gorm.DB, cfg *config.Config, dispatcher *notify.Dispatcher) {
	resolver := schedule.NewResolver(log, handlers.GormBookingStore{DB: db})

	authHandler := handlers.NewAuthHandler(log, cfg)
	contactHandler := handlers.NewContactHandler(log, db, dispatcher)
	appointmentHandler := handlers.NewAppointmentHandler(log, db, resolver, dispatcher)
	adminHandler := handlers.NewAdminHandler(log, db)

	router.Use(metrics.Middleware())

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		public.POST("/contact", contactHandler.Submit)
		public.POST("/appointments", appointmentHandler.Create)
		public.GET("/appointments", appointmentHandler.Query)
		public.POST("/login", authHandler.Login)
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AdminAuth(cfg))
	{
		private.GET("/analytics", adminHandler.Analytics)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/inquiries", adminHandler.ListInquiries)
		admin.GET("/inquiry", adminHandler.GetInquiry)
		admin.POST("/inquiry/update", adminHandler.UpdateInquiry)
		admin.POST("/follow-up/create", adminHandler.CreateFollowUp)
		admin.GET("/appointments", adminHandler.ListAppointments)
		admin.POST("/appointment/create", appointmentHandler.Create)
		admin.POST("/appointment/update", adminHandler.UpdateAppointmentStatus)
		admin.GET("/attorneys", adminHandler.ListAttorneys)
		admin.GET("/cases", adminHandler.ListCases)
		admin.POST("/case/create", adminHandler.CreateCase)
	}

	router.GET("/metrics", metrics.Handler())

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
