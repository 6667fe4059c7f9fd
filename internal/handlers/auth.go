package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/flop2top/sharma-and-associates/internal/config"
	"github.com/flop2top/sharma-and-associates/internal/utils"
)

// AuthHandler handles admin authentication.
type AuthHandler struct {
	cfg *config.Config
	log *logrus.Entry
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(log *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg: cfg,
		log: log.WithField("component", "auth"),
	}
}

// LoginRequest represents the admin login request body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.BadRequest(c, "Username and password are required")
		return
	}

	if !h.credentialsValid(req.Username, req.Password) {
		h.log.WithField("username", req.Username).Warn("failed admin login attempt")
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	ttl := time.Duration(h.cfg.SessionHours) * time.Hour
	token, err := utils.GenerateAdminToken(req.Username, h.cfg.JWTSecret, ttl)
	if err != nil {
		h.log.Errorf("failed to sign session token: %v", err)
		utils.InternalServerError(c, "Failed to create session")
		return
	}

	utils.SuccessWith(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"username": req.Username,
			"role":     "admin",
		},
	})
}

// credentialsValid checks the supplied credentials against the configured
// admin account. A bcrypt hash takes precedence over a plaintext password.
func (h *AuthHandler) credentialsValid(username, password string) bool {
	admin := h.cfg.Admin
	if admin.Username == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) != 1 {
		return false
	}

	if admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil
	}
	if admin.Password != "" {
		return subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password)) == 1
	}
	return false
}
