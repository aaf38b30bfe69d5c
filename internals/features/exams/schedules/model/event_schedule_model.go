// internals/features/exams/schedules/model/event_schedule_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "labku_backend/internals/features/exams/events/model"
)

/* =========================================================
   Enums (mirror dari event_schedule_status_enum di DB)
========================================================= */
type ScheduleStatus string

const (
	ScheduleScheduled      ScheduleStatus = "scheduled"
	ScheduleExamModeActive ScheduleStatus = "exam_mode_active"
	ScheduleStarted        ScheduleStatus = "started"
	ScheduleEnded          ScheduleStatus = "ended" // terminal
)

/* =========================================================
   Model
========================================================= */
// EventScheduleModel: satu sesi konkret (event + lab + jam mulai).
// Status hanya maju: scheduled → exam_mode_active → started → ended.
// Semua perubahan status lewat update kondisional di repository
// (WHERE status IN prasyarat), jadi tidak ada lost update.
type EventScheduleModel struct {
	// PK
	EventScheduleID uuid.UUID `json:"event_schedule_id" gorm:"column:event_schedule_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// Relasi utama
	EventScheduleEventID     uuid.UUID  `json:"event_schedule_event_id"      gorm:"column:event_schedule_event_id;type:uuid;not null;index"`
	EventScheduleLabID       uuid.UUID  `json:"event_schedule_lab_id"        gorm:"column:event_schedule_lab_id;type:uuid;not null;index"`
	EventScheduleExamGroupID *uuid.UUID `json:"event_schedule_exam_group_id" gorm:"column:event_schedule_exam_group_id;type:uuid;index"`

	// Occurrence
	EventScheduleDateTime time.Time `json:"event_schedule_date_time" gorm:"column:event_schedule_date_time;type:timestamptz;not null;index"`

	// Kapasitas: dikunci saat pembuatan group (≤ hasil Capacity Calculator waktu itu);
	// tidak dihitung ulang otomatis walau inventaris berubah.
	EventScheduleMaxStudents      int `json:"event_schedule_max_students"      gorm:"column:event_schedule_max_students;not null;default:0"`
	EventScheduleEnrolledStudents int `json:"event_schedule_enrolled_students" gorm:"column:event_schedule_enrolled_students;not null;default:0"`

	// Lifecycle
	EventScheduleStatus ScheduleStatus `json:"event_schedule_status" gorm:"column:event_schedule_status;type:event_schedule_status_enum;not null;default:'scheduled';index"`

	// Override auto-start per sesi; nil = ikut flag event
	EventScheduleAutoStart *bool `json:"event_schedule_auto_start" gorm:"column:event_schedule_auto_start"`

	// Timestamps aktual
	EventScheduleExamModeActivatedAt *time.Time `json:"event_schedule_exam_mode_activated_at" gorm:"column:event_schedule_exam_mode_activated_at;type:timestamptz"`
	EventScheduleActualStartAt       *time.Time `json:"event_schedule_actual_start_at"        gorm:"column:event_schedule_actual_start_at;type:timestamptz"`
	EventScheduleActualEndAt         *time.Time `json:"event_schedule_actual_end_at"          gorm:"column:event_schedule_actual_end_at;type:timestamptz"`

	// Audit
	EventScheduleCreatedAt time.Time      `json:"event_schedule_created_at" gorm:"column:event_schedule_created_at;type:timestamptz;not null;autoCreateTime"`
	EventScheduleUpdatedAt time.Time      `json:"event_schedule_updated_at" gorm:"column:event_schedule_updated_at;type:timestamptz;not null;autoUpdateTime"`
	EventScheduleDeletedAt gorm.DeletedAt `json:"event_schedule_deleted_at" gorm:"column:event_schedule_deleted_at;index"`

	// Relasi (eager-load lewat Preload; engine tidak mengandalkan lazy loading)
	Event *eventModel.EventModel `json:"event,omitempty" gorm:"foreignKey:EventScheduleEventID;references:EventID"`
}

func (EventScheduleModel) TableName() string { return "event_schedules" }

// AutoStartEffective: override per sesi menang; kalau nil ikut event.
func (s EventScheduleModel) AutoStartEffective() bool {
	if s.EventScheduleAutoStart != nil {
		return *s.EventScheduleAutoStart
	}
	if s.Event != nil {
		return s.Event.EventAutoStart
	}
	return false
}
