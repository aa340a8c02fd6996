package handlers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/content"
	"github.com/quizhippo/quiz-service/internal/repositories"
	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	exportService services.ExportService
}

func NewQuizHandler(quizService services.QuizService, exportService services.ExportService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		exportService: exportService,
	}
}

// GenerateQuiz generates a quiz from a topic, prompt, URL or pasted text
// @Summary Generate quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body services.GenerateQuizRequest true "Generation parameters"
// @Success 201 {object} SuccessResponse{data=models.Quiz}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /quizzes/generate [post]
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	h.LogRequest(c, "Generating quiz")

	var req services.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	quiz, err := h.quizService.Generate(c.Request.Context(), &req, OptionalUserID(c))
	if err != nil {
		if services.IsValidationError(err) {
			h.RespondWithError(c, err, "Quiz generation failed")
			return
		}
		h.LogError(c, err, "Quiz generation failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Quiz generation failed",
		})
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Quiz generated",
		Data:    quiz,
	})
}

// GenerateQuizFromPDF generates a quiz from an uploaded PDF document
// @Summary Generate quiz from PDF
// @Tags quizzes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Param topic formData string true "Quiz topic"
// @Success 201 {object} SuccessResponse{data=models.Quiz}
// @Failure 400 {object} ErrorResponse
// @Router /quizzes/generate/pdf [post]
func (h *QuizHandler) GenerateQuizFromPDF(c *gin.Context) {
	h.LogRequest(c, "Generating quiz from PDF")

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing PDF upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	path, err := content.SavePDFUpload(file)
	if err != nil {
		h.LogError(c, err, "Failed to store PDF upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to store upload",
		})
		return
	}
	defer os.Remove(path)

	req := services.GenerateQuizRequest{
		Topic:        c.PostForm("topic"),
		Language:     c.PostForm("language"),
		Category:     c.PostForm("category"),
		NumQuestions: atoiOrZero(c.PostForm("num_questions")),
		Difficulty:   atoiOrZero(c.PostForm("difficulty")),
		IsPublic:     c.PostForm("is_public") == "true",
		PDFPath:      path,
	}

	quiz, err := h.quizService.Generate(c.Request.Context(), &req, OptionalUserID(c))
	if err != nil {
		h.RespondWithError(c, err, "Quiz generation failed")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Quiz generated",
		Data:    quiz,
	})
}

// GetQuiz returns one quiz with its questions
// @Summary Get quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} SuccessResponse{data=models.Quiz}
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.Get(c.Request.Context(), quizID, OptionalUserID(c))
	if err != nil {
		h.RespondWithError(c, err, "Failed to get quiz")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: quiz})
}

// ListMyQuizzes lists the caller's quizzes split by attempt state
// @Summary List my quizzes
// @Tags quizzes
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=services.QuizListResult}
// @Router /quizzes [get]
func (h *QuizHandler) ListMyQuizzes(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	result, err := h.quizService.ListMine(c.Request.Context(), userID, quizFiltersFromQuery(c))
	if err != nil {
		h.RespondWithError(c, err, "Failed to list quizzes")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}

// Explore lists public quizzes, optionally trending only
// @Summary Explore public quizzes
// @Tags quizzes
// @Param trending query bool false "Only quizzes rated above the trending floor"
// @Param category query string false "Category filter"
// @Success 200 {object} SuccessResponse
// @Router /quizzes/explore [get]
func (h *QuizHandler) Explore(c *gin.Context) {
	filters := quizFiltersFromQuery(c)
	filters.Trending = c.Query("trending") == "true"

	quizzes, total, err := h.quizService.Explore(c.Request.Context(), filters)
	if err != nil {
		h.RespondWithError(c, err, "Failed to list public quizzes")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: gin.H{
			"quizzes": quizzes,
			"total":   total,
		},
	})
}

// DeleteQuiz removes a quiz the caller owns
// @Summary Delete quiz
// @Tags quizzes
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID, userID); err != nil {
		h.RespondWithError(c, err, "Failed to delete quiz")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz deleted"})
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

// SetVisibility toggles a quiz between public and private
// @Summary Set quiz visibility
// @Tags quizzes
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body visibilityRequest true "Visibility"
// @Success 200 {object} SuccessResponse
// @Router /quizzes/{id}/visibility [put]
func (h *QuizHandler) SetVisibility(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.quizService.SetVisibility(c.Request.Context(), quizID, userID, req.IsPublic); err != nil {
		h.RespondWithError(c, err, "Failed to update visibility")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Visibility updated"})
}

type shareRequest struct {
	Username string `json:"username" binding:"required"`
}

// ShareQuiz shares a quiz with another user by username
// @Summary Share quiz
// @Tags quizzes
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body shareRequest true "Recipient"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/share [post]
func (h *QuizHandler) ShareQuiz(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.quizService.Share(c.Request.Context(), quizID, userID, req.Username); err != nil {
		h.RespondWithError(c, err, "Failed to share quiz")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz shared"})
}

type rateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// RateQuiz stores the caller's 1-5 rating for a quiz
// @Summary Rate quiz
// @Tags quizzes
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body rateRequest true "Rating"
// @Success 200 {object} SuccessResponse
// @Router /quizzes/{id}/rate [post]
func (h *QuizHandler) RateQuiz(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.quizService.Rate(c.Request.Context(), quizID, userID, req.Rating); err != nil {
		h.RespondWithError(c, err, "Failed to rate quiz")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Rating saved"})
}

// ExportQuiz downloads the quiz in xlsx or csv format
// @Summary Export quiz
// @Tags quizzes
// @Param id path int true "Quiz ID"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} binary
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := OptionalUserID(c)
	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, err := h.exportService.ExportQuizToCSV(c.Request.Context(), quizID, userID)
		if err != nil {
			h.RespondWithError(c, err, "Export failed")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="quiz.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.exportService.ExportQuizToExcel(c.Request.Context(), quizID, userID)
		if err != nil {
			h.RespondWithError(c, err, "Export failed")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="quiz.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unsupported export format"})
	}
}

// ===== QUERY HELPERS =====

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func quizFiltersFromQuery(c *gin.Context) repositories.QuizFilters {
	filters := repositories.QuizFilters{
		Limit:     20,
		Offset:    0,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if limit := atoiOrZero(c.Query("limit")); limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset := atoiOrZero(c.Query("offset")); offset > 0 {
		filters.Offset = offset
	}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if difficulty := atoiOrZero(c.Query("difficulty")); difficulty >= 1 && difficulty <= 5 {
		filters.Difficulty = &difficulty
	}

	return filters
}
