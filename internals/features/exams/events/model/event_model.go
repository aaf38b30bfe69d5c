// internals/features/exams/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventModel: definisi kegiatan (ujian/penugasan) milik satu course.
// Jadwal konkret ada di event_schedules; baris ini cuma metadata lifecycle.
type EventModel struct {
	EventID uuid.UUID `json:"event_id" gorm:"column:event_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// FK → courses
	EventCourseID uuid.UUID `json:"event_course_id" gorm:"column:event_course_id;type:uuid;not null;index"`

	EventName            string `json:"event_name"             gorm:"column:event_name;type:varchar(160);not null"`
	EventDurationMinutes int    `json:"event_duration_minutes" gorm:"column:event_duration_minutes;not null"`

	EventIsExam    bool `json:"event_is_exam"    gorm:"column:event_is_exam;not null;default:false"`
	EventAutoStart bool `json:"event_auto_start" gorm:"column:event_auto_start;not null;default:false"`

	// Lead time sebelum jam mulai: jendela "exam mode" aktif
	EventExamModeStartMinutes int `json:"event_exam_mode_start_minutes" gorm:"column:event_exam_mode_start_minutes;not null;default:0"`

	// Perlu distribusi varian soal saat mulai?
	EventRequiresModels bool `json:"event_requires_models" gorm:"column:event_requires_models;not null;default:false"`

	// Audit
	EventCreatedAt time.Time      `json:"event_created_at" gorm:"column:event_created_at;type:timestamptz;not null;autoCreateTime"`
	EventUpdatedAt time.Time      `json:"event_updated_at" gorm:"column:event_updated_at;type:timestamptz;not null;autoUpdateTime"`
	EventDeletedAt gorm.DeletedAt `json:"event_deleted_at" gorm:"column:event_deleted_at;index"`
}

func (EventModel) TableName() string { return "events" }

// Duration durasi event sebagai time.Duration.
func (e EventModel) Duration() time.Duration {
	return time.Duration(e.EventDurationMinutes) * time.Minute
}

// ExamModeLead lead time exam mode sebagai time.Duration.
func (e EventModel) ExamModeLead() time.Duration {
	return time.Duration(e.EventExamModeStartMinutes) * time.Minute
}
