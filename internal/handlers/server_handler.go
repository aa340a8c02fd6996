package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
)

type ServerHandler struct {
	BaseHandler
	serverService services.ServerService
}

func NewServerHandler(serverService services.ServerService, logger utils.Logger) *ServerHandler {
	return &ServerHandler{
		BaseHandler:   NewBaseHandler(logger),
		serverService: serverService,
	}
}

// CreateServer creates a shared space with a fresh invite code
// @Summary Create server
// @Tags servers
// @Security BearerAuth
// @Param request body services.CreateServerRequest true "Server data"
// @Success 201 {object} SuccessResponse{data=models.Server}
// @Router /servers [post]
func (h *ServerHandler) CreateServer(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	server, err := h.serverService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.RespondWithError(c, err, "Failed to create server")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Server created",
		Data:    server,
	})
}

// GetServer returns one server the caller is a member of
// @Summary Get server
// @Tags servers
// @Security BearerAuth
// @Param id path int true "Server ID"
// @Success 200 {object} SuccessResponse{data=models.Server}
// @Failure 403 {object} ErrorResponse
// @Router /servers/{id} [get]
func (h *ServerHandler) GetServer(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	serverID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	server, err := h.serverService.Get(c.Request.Context(), serverID, userID)
	if err != nil {
		h.RespondWithError(c, err, "Failed to get server")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: server})
}

type joinServerRequest struct {
	Code string `json:"code" binding:"required"`
}

// JoinServer joins a server by invite code
// @Summary Join server
// @Tags servers
// @Security BearerAuth
// @Param request body joinServerRequest true "Invite code"
// @Success 200 {object} SuccessResponse{data=models.Server}
// @Failure 400 {object} ErrorResponse
// @Router /servers/join [post]
func (h *ServerHandler) JoinServer(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req joinServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	server, err := h.serverService.JoinByCode(c.Request.Context(), req.Code, userID)
	if err != nil {
		h.RespondWithError(c, err, "Failed to join server")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Joined server",
		Data:    server,
	})
}

// ListMyServers lists servers the caller belongs to
// @Summary List my servers
// @Tags servers
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /servers [get]
func (h *ServerHandler) ListMyServers(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	servers, err := h.serverService.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.RespondWithError(c, err, "Failed to list servers")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: servers})
}

type postQuizRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

// PostQuiz publishes a quiz to the server feed
// @Summary Post quiz to server
// @Tags servers
// @Security BearerAuth
// @Param id path int true "Server ID"
// @Param request body postQuizRequest true "Quiz"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /servers/{id}/quizzes [post]
func (h *ServerHandler) PostQuiz(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	serverID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req postQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.serverService.PostQuiz(c.Request.Context(), serverID, req.QuizID, userID); err != nil {
		h.RespondWithError(c, err, "Failed to post quiz")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz posted"})
}

// ListServerQuizzes lists quizzes posted to a server
// @Summary List server quizzes
// @Tags servers
// @Security BearerAuth
// @Param id path int true "Server ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /servers/{id}/quizzes [get]
func (h *ServerHandler) ListServerQuizzes(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	serverID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quizzes, err := h.serverService.ListQuizzes(c.Request.Context(), serverID, userID)
	if err != nil {
		h.RespondWithError(c, err, "Failed to list server quizzes")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: quizzes})
}
