package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
)

type AssistantHandler struct {
	BaseHandler
	assistantService services.AssistantService
}

func NewAssistantHandler(assistantService services.AssistantService, logger utils.Logger) *AssistantHandler {
	return &AssistantHandler{
		BaseHandler:      NewBaseHandler(logger),
		assistantService: assistantService,
	}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat sends one message to the study assistant
// @Summary Chat with the assistant
// @Tags assistant
// @Security BearerAuth
// @Param request body chatRequest true "Message"
// @Success 200 {object} SuccessResponse
// @Failure 502 {object} ErrorResponse
// @Router /assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	reply, err := h.assistantService.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		if services.IsValidationError(err) {
			h.RespondWithError(c, err, "Chat failed")
			return
		}
		h.LogError(c, err, "Assistant chat failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Message: "Assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{"reply": reply},
	})
}
