package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"not null;size:150;uniqueIndex" validate:"required,min=3,max=150"`
	Email        string `json:"email" gorm:"size:254;index" validate:"omitempty,email"`
	FirstName    string `json:"first_name" gorm:"size:150"`
	LastName     string `json:"last_name" gorm:"size:150"`
	PasswordHash string `json:"-" gorm:"not null;size:128"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type UserProfile struct {
	UserID    uint   `json:"user_id" gorm:"primaryKey"`
	Bio       string `json:"bio" gorm:"size:500"`
	LightMode bool   `json:"light_mode" gorm:"default:false"`
}

func (User) TableName() string {
	return "users"
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
