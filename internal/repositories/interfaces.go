package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository is the aggregate store handed to services.
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	User() UserRepository
	Server() ServerRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Category   *string `json:"category"`
	Difficulty *int    `json:"difficulty"`
	OwnerID    *uint   `json:"owner_id"`
	// Trending keeps only quizzes whose average rating is above
	// TrendingMinRating.
	Trending  bool   `json:"trending"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "topic", "difficulty"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	QuizID *uint `json:"quiz_id"`
	UserID *uint `json:"user_id"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// TrendingMinRating is the average-rating floor for the trending listing.
const TrendingMinRating = 3.5

// IsNotFoundError reports whether err is the store's record-not-found
// condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
