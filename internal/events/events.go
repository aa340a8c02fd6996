package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents the different kinds of quiz events published to Kafka
type EventType string

const (
	// Quiz lifecycle events
	EventQuizGenerated EventType = "quiz.generated"
	EventQuizShared    EventType = "quiz.shared"
	EventQuizRated     EventType = "quiz.rated"

	// Attempt events
	EventAttemptCompleted EventType = "attempt.completed"
)

// QuizEvent is the base envelope for all quiz events
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Quiz lifecycle event payloads

type QuizGeneratedEvent struct {
	QuizID        uint   `json:"quiz_id"`
	Topic         string `json:"topic"`
	Category      string `json:"category"`
	Difficulty    int    `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
	OwnerID       *uint  `json:"owner_id,omitempty"`
}

type QuizSharedEvent struct {
	QuizID       uint   `json:"quiz_id"`
	Topic        string `json:"topic"`
	OwnerID      uint   `json:"owner_id"`
	RecipientIDs []uint `json:"recipient_ids"`
}

type QuizRatedEvent struct {
	QuizID  uint    `json:"quiz_id"`
	RaterID uint    `json:"rater_id"`
	Rating  int     `json:"rating"`
	Average float64 `json:"average"`
}

// Attempt event payload

type AttemptCompletedEvent struct {
	AttemptID      uint      `json:"attempt_id"`
	QuizID         uint      `json:"quiz_id"`
	QuizTopic      string    `json:"quiz_topic"`
	UserID         uint      `json:"user_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Event factory functions

func NewQuizGeneratedEvent(quizID uint, topic, category string, difficulty, questionCount int, ownerID *uint) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      EventQuizGenerated,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: QuizGeneratedEvent{
			QuizID:        quizID,
			Topic:         topic,
			Category:      category,
			Difficulty:    difficulty,
			QuestionCount: questionCount,
			OwnerID:       ownerID,
		},
	}
}

func NewQuizSharedEvent(quizID uint, topic string, ownerID uint, recipientIDs []uint) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      EventQuizShared,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: QuizSharedEvent{
			QuizID:       quizID,
			Topic:        topic,
			OwnerID:      ownerID,
			RecipientIDs: recipientIDs,
		},
	}
}

func NewQuizRatedEvent(quizID, raterID uint, rating int, average float64) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      EventQuizRated,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: QuizRatedEvent{
			QuizID:  quizID,
			RaterID: raterID,
			Rating:  rating,
			Average: average,
		},
	}
}

func NewAttemptCompletedEvent(attemptID, quizID uint, quizTopic string, userID uint, score, totalQuestions int, completedAt time.Time) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      EventAttemptCompleted,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data: AttemptCompletedEvent{
			AttemptID:      attemptID,
			QuizID:         quizID,
			QuizTopic:      quizTopic,
			UserID:         userID,
			Score:          score,
			TotalQuestions: totalQuestions,
			CompletedAt:    completedAt,
		},
	}
}

// GenerateEventID returns a unique identifier for an event
func GenerateEventID() string {
	return watermill.NewUUID()
}
