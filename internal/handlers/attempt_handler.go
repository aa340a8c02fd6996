package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/repositories"
	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	exportService  services.ExportService
}

func NewAttemptHandler(attemptService services.AttemptService, exportService services.ExportService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		exportService:  exportService,
	}
}

type submitAttemptRequest struct {
	// Answers maps question ID to the submitted answer text.
	Answers map[uint]string `json:"answers" binding:"required"`
}

// SubmitAttempt grades a submission and stores the attempt
// @Summary Submit quiz attempt
// @Tags attempts
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body submitAttemptRequest true "Submitted answers"
// @Success 200 {object} SuccessResponse{data=models.AttemptResult}
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/attempts [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), userID, quizID, req.Answers)
	if err != nil {
		h.RespondWithError(c, err, "Failed to score submission")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Attempt scored",
		Data:    result,
	})
}

// GetAttemptResult returns the stored score and incorrect-answer report
// @Summary Get attempt result
// @Tags attempts
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Success 200 {object} SuccessResponse{data=models.AttemptResult}
// @Failure 404 {object} ErrorResponse
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttemptResult(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	attemptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.attemptService.GetResult(c.Request.Context(), attemptID, userID)
	if err != nil {
		h.RespondWithError(c, err, "Failed to get attempt result")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}

// ListAttempts returns the caller's attempts
// @Summary List my attempts
// @Tags attempts
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	filters := repositories.AttemptFilters{Limit: 20}
	if limit := atoiOrZero(c.Query("limit")); limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset := atoiOrZero(c.Query("offset")); offset > 0 {
		filters.Offset = offset
	}

	attempts, total, err := h.attemptService.ListByUser(c.Request.Context(), userID, filters)
	if err != nil {
		h.RespondWithError(c, err, "Failed to list attempts")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{
			"attempts": attempts,
			"total":    total,
		},
	})
}

// ExportAttemptReport downloads the attempt report as a workbook
// @Summary Export attempt report
// @Tags attempts
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Success 200 {file} binary
// @Router /attempts/{id}/export [get]
func (h *AttemptHandler) ExportAttemptReport(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	attemptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := h.exportService.ExportAttemptReport(c.Request.Context(), attemptID, userID)
	if err != nil {
		h.RespondWithError(c, err, "Export failed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="attempt-report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
