package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt holds one user's latest submission for a quiz. There is at
// most one row per (user, quiz): a retake overwrites score, answers and
// timestamp in place.
type QuizAttempt struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_quiz"`
	QuizID uint `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_user_quiz"`
	Score  int  `json:"score" gorm:"not null;default:0"`

	// Answers maps question ID (as a string key) to the submitted answer.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Quiz *Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
}

// IncorrectAnswer is one row of the incorrect-answer report for an attempt.
type IncorrectAnswer struct {
	QuestionID      uint   `json:"question_id"`
	QuestionText    string `json:"question_text"`
	SubmittedAnswer string `json:"submitted_answer"`
	CorrectAnswer   string `json:"correct_answer"`
}

// AttemptResult is the outcome of scoring one submission.
type AttemptResult struct {
	AttemptID      uint              `json:"attempt_id"`
	QuizID         uint              `json:"quiz_id"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	IncorrectCount int               `json:"incorrect_count"`
	Incorrect      []IncorrectAnswer `json:"incorrect"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
