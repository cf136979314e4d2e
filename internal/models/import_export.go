package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportJobStatus string

const (
	ImportPending    ImportJobStatus = "pending"
	ImportProcessing ImportJobStatus = "processing"
	ImportCompleted  ImportJobStatus = "completed"
	ImportFailed     ImportJobStatus = "failed"
)

// ImportJob tracks a question import run from an authored spreadsheet.
type ImportJob struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"` // UUID
	UserID string `json:"user_id" gorm:"not null;index;size:255"`

	// File info
	FileName string `json:"file_name" gorm:"not null;size:255"`
	FileType string `json:"file_type" gorm:"not null;size:20"` // xlsx, csv
	FileSize int64  `json:"file_size" gorm:"not null"`

	Status ImportJobStatus `json:"status" gorm:"default:pending;index"`

	TotalRows     int `json:"total_rows"`
	ProcessedRows int `json:"processed_rows"`
	SuccessCount  int `json:"success_count"`
	ErrorCount    int `json:"error_count"`

	Errors datatypes.JSON `json:"errors" gorm:"type:jsonb"` // []ImportValidationError

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}

type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
}
