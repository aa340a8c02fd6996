package models

import "time"

// Server is a shared space (a classroom, roughly) that members join by code
// and that quizzes can be posted to.
type Server struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:100" validate:"required,max=100"`
	Description string `json:"description" gorm:"size:500"`
	Code        string `json:"code" gorm:"not null;size:12;uniqueIndex"`
	CreatedBy   uint   `json:"created_by" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Creator *User  `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Members []User `json:"members,omitempty" gorm:"many2many:server_members"`
}

type ServerQuiz struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ServerID uint `json:"server_id" gorm:"not null;index;uniqueIndex:idx_server_quiz"`
	QuizID   uint `json:"quiz_id" gorm:"not null;uniqueIndex:idx_server_quiz"`
	AddedBy  uint `json:"added_by" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Server *Server `json:"server,omitempty" gorm:"foreignKey:ServerID"`
	Quiz   *Quiz   `json:"quiz,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

func (Server) TableName() string {
	return "servers"
}

func (ServerQuiz) TableName() string {
	return "server_quizzes"
}
