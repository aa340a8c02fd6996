package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", h.extractUserID(c),
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", h.extractUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

func (h *BaseHandler) extractUserID(c *gin.Context) interface{} {
	if userID, exists := c.Get("user_id"); exists {
		return userID
	}
	return nil
}

// RespondWithError maps a service error onto an HTTP status and a
// consistent error body.
func (h *BaseHandler) RespondWithError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case services.IsNotFoundError(err):
		status = http.StatusNotFound
	case services.IsAccessDeniedError(err):
		status = http.StatusForbidden
	case services.IsValidationError(err):
		status = http.StatusBadRequest
	case services.IsConflictError(err):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.LogError(c, err, message)
	}

	c.JSON(status, ErrorResponse{
		Message: message,
		Details: err.Error(),
	})
}

// ===== SHARED HELPERS =====

// CurrentUserID returns the authenticated user's ID from the request
// context, set by the auth middleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// OptionalUserID returns a pointer to the user ID when the request is
// authenticated and nil otherwise.
func OptionalUserID(c *gin.Context) *uint {
	if id, ok := CurrentUserID(c); ok {
		return &id
	}
	return nil
}
