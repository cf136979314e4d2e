package models

import "time"

// Lesson is a unit of course content. The core only needs its identity and
// level; the lesson body (media, exercises, i18n strings) lives with the
// content pipeline.
type Lesson struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Level    Level  `json:"level" gorm:"not null;size:2;index" validate:"required,level"`
	Position int    `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
