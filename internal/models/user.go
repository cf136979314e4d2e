package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the learner account. Authentication happens upstream; this service
// only keys content and progress records off the opaque user id.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:255"`
	FullName string `json:"full_name" gorm:"not null;size:100"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`

	// Language is the UI language, not the proficiency level.
	Language string `json:"language" gorm:"default:en;size:10"`

	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Progress *LearnerProgress `json:"progress,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
