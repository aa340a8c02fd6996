package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "MCQ"
	TrueFalse      QuestionType = "TF"
	ShortAnswer    QuestionType = "SHORT"
	FillInBlank    QuestionType = "FILL"
)

// QuestionPreference is what the user asked the generator for; the parser
// decides the actual type of each question independently.
type QuestionPreference string

const (
	PreferShort QuestionPreference = "SHORT"
	PreferTF    QuestionPreference = "TF"
	PreferMCQ   QuestionPreference = "MCQ"
	PreferFill  QuestionPreference = "FILL"
	PreferMix   QuestionPreference = "MIX"
)

type Quiz struct {
	ID                 uint               `json:"id" gorm:"primaryKey"`
	Topic              string             `json:"topic" gorm:"not null;size:200;index" validate:"required,max=200"`
	Difficulty         int                `json:"difficulty" gorm:"default:1" validate:"min=1,max=5"`
	Category           string             `json:"category" gorm:"default:General;size:100;index"`
	QuestionPreference QuestionPreference `json:"question_preference" gorm:"default:MIX;size:10" validate:"omitempty,question_preference"`
	IsPublic           bool               `json:"is_public" gorm:"default:false;index"`

	// Owner is nullable: anonymously generated quizzes are kept too.
	OwnerID *uint `json:"owner_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Owner      *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Questions  []Question   `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Attempts   []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Ratings    []QuizRating `json:"ratings,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	SharedWith []User       `json:"shared_with,omitempty" gorm:"many2many:quiz_shares"`

	// Computed fields (not stored)
	QuestionsCount int     `json:"questions_count" gorm:"-"`
	AvgRating      float64 `json:"avg_rating" gorm:"-"`
}

type Question struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	QuizID     uint         `json:"quiz_id" gorm:"not null;index"`
	Text       string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Type       QuestionType `json:"type" gorm:"not null;size:10" validate:"required,question_type"`
	Difficulty int          `json:"difficulty" gorm:"default:1" validate:"min=1,max=5"`
	Answer     string       `json:"answer" gorm:"size:500"`

	// Position is the 1-based ordinal from the generated answer key; the
	// grader and report iterate questions ordered by it.
	Position int `json:"position" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Options []Option `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"size:500;not null"`
}

type QuizRating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_quiz_rater"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_quiz_rater"`
	Rating    int       `json:"rating" gorm:"not null" validate:"min=1,max=5"`
	CreatedAt time.Time `json:"created_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "questions"
}

func (Option) TableName() string {
	return "options"
}

func (QuizRating) TableName() string {
	return "quiz_ratings"
}
