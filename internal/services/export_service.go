package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/repositories"
)

// ExportService renders quizzes and attempt results as downloadable files.
type ExportService interface {
	ExportQuizToExcel(ctx context.Context, quizID uint, userID *uint) ([]byte, error)
	ExportQuizToCSV(ctx context.Context, quizID uint, userID *uint) ([]byte, error)
	ExportAttemptReport(ctx context.Context, attemptID, userID uint) ([]byte, error)
}

type exportService struct {
	repo     repositories.Repository
	attempts AttemptService
	logger   *slog.Logger
}

func NewExportService(repo repositories.Repository, attempts AttemptService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:     repo,
		attempts: attempts,
		logger:   logger,
	}
}

// ===== QUIZ EXPORT =====

var quizExportHeaders = []string{
	"Position", "Type", "Question", "Option A", "Option B", "Option C", "Option D",
	"Answer", "Difficulty",
}

func (s *exportService) ExportQuizToExcel(ctx context.Context, quizID uint, userID *uint) ([]byte, error) {
	questions, err := s.getExportableQuestions(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range quizExportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, question := range questions {
		row := questionExportRow(question)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportQuizToCSV(ctx context.Context, quizID uint, userID *uint) ([]byte, error) {
	questions, err := s.getExportableQuestions(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(quizExportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range questions {
		if err := w.Write(questionExportRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== ATTEMPT REPORT =====

// ExportAttemptReport renders an attempt's score summary and incorrect
// answer rows as an Excel workbook.
func (s *exportService) ExportAttemptReport(ctx context.Context, attemptID, userID uint) ([]byte, error) {
	result, err := s.attempts.GetResult(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	f.SetCellValue(sheetName, "A1", "Score")
	f.SetCellValue(sheetName, "B1", fmt.Sprintf("%d / %d", result.Score, result.TotalQuestions))
	f.SetCellValue(sheetName, "A2", "Incorrect")
	f.SetCellValue(sheetName, "B2", result.IncorrectCount)

	headers := []string{"Question", "Your Answer", "Correct Answer"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c4", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, row := range result.Incorrect {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex+5), row.QuestionText)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex+5), row.SubmittedAnswer)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex+5), row.CorrectAnswer)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== HELPERS =====

func (s *exportService) getExportableQuestions(ctx context.Context, quizID uint, userID *uint) ([]*models.Question, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if !quiz.IsPublic {
		if userID == nil {
			return nil, ErrQuizAccessDenied
		}
		owned := quiz.OwnerID != nil && *quiz.OwnerID == *userID
		if !owned {
			shared, err := s.repo.Quiz().IsSharedWith(ctx, quizID, *userID)
			if err != nil {
				return nil, fmt.Errorf("failed to check quiz sharing: %w", err)
			}
			if !shared {
				return nil, ErrQuizAccessDenied
			}
		}
	}

	return s.repo.Quiz().GetQuestions(ctx, quizID)
}

// questionExportRow flattens a question into the shared header layout.
// Only the first four options fit the sheet; real generator output never
// produces more.
func questionExportRow(q *models.Question) []string {
	options := make([]string, 4)
	for i, opt := range q.Options {
		if i >= len(options) {
			break
		}
		options[i] = opt.Text
	}

	return []string{
		strconv.Itoa(q.Position),
		string(q.Type),
		q.Text,
		options[0], options[1], options[2], options[3],
		q.Answer,
		strconv.Itoa(q.Difficulty),
	}
}
