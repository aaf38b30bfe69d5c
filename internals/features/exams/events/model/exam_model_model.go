// internals/features/exams/events/model/exam_model_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ExamModelModel: satu varian soal milik sebuah event.
// assigned_student_count dinaikkan lewat UPDATE atomik (gorm.Expr), bukan read-modify-write.
type ExamModelModel struct {
	ExamModelID uuid.UUID `json:"exam_model_id" gorm:"column:exam_model_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// FK → events
	ExamModelEventID uuid.UUID `json:"exam_model_event_id" gorm:"column:exam_model_event_id;type:uuid;not null;index"`

	ExamModelName    string  `json:"exam_model_name"    gorm:"column:exam_model_name;type:varchar(120);not null"`
	ExamModelVersion *string `json:"exam_model_version" gorm:"column:exam_model_version;type:varchar(60)"`

	// Counter penyeimbang distribusi
	ExamModelAssignedStudentCount int `json:"exam_model_assigned_student_count" gorm:"column:exam_model_assigned_student_count;not null;default:0"`

	// Referensi file soal yang sudah diupload (URL saja; storage di luar scope)
	ExamModelFileURLs pq.StringArray `json:"exam_model_file_urls" gorm:"column:exam_model_file_urls;type:text[]"`

	// Audit
	ExamModelCreatedAt time.Time      `json:"exam_model_created_at" gorm:"column:exam_model_created_at;type:timestamptz;not null;autoCreateTime"`
	ExamModelUpdatedAt time.Time      `json:"exam_model_updated_at" gorm:"column:exam_model_updated_at;type:timestamptz;not null;autoUpdateTime"`
	ExamModelDeletedAt gorm.DeletedAt `json:"exam_model_deleted_at" gorm:"column:exam_model_deleted_at;index"`
}

func (ExamModelModel) TableName() string { return "exam_models" }
