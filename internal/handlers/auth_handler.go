package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Register creates a new account
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Account data"
// @Success 201 {object} SuccessResponse{data=models.User}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Account created",
		Data:    user,
	})
}

// Login exchanges credentials for a token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		// Credential errors are deliberately vague.
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid username or password",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Logged in",
		Data: gin.H{
			"token": token,
			"user":  user,
		},
	})
}

// ChangePassword updates the caller's password
// @Summary Change password
// @Tags auth
// @Security BearerAuth
// @Param request body services.ChangePasswordRequest true "Passwords"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.RespondWithError(c, err, "Password change failed")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Password changed"})
}

// DeleteAccount removes the caller's account
// @Summary Delete account
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.authService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.RespondWithError(c, err, "Account deletion failed")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Account deleted"})
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=models.UserProfile}
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.RespondWithError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: profile})
}

// UpdateProfile updates bio and display preferences
// @Summary Update profile
// @Tags auth
// @Security BearerAuth
// @Param request body models.UserProfile true "Profile"
// @Success 200 {object} SuccessResponse
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.authService.UpdateProfile(c.Request.Context(), userID, &profile); err != nil {
		h.RespondWithError(c, err, "Profile update failed")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Profile updated", Data: profile})
}
