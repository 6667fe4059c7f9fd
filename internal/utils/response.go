package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWith sends a 200 response with extra top-level fields merged into
// the envelope (appointmentId, inquiryId and similar).
func SuccessWith(c *gin.Context, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail sends an error response with the given status.
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// FailWith sends an error response with extra top-level fields merged into
// the envelope (missingFields, suggestedTimes and similar).
func FailWith(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{"success": false, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict error response.
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}
