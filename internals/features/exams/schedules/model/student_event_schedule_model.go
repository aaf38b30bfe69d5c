// internals/features/exams/schedules/model/student_event_schedule_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Go-side enum buat attendance_status_enum
type AttendanceStatus string

const (
	AttendanceUnknown AttendanceStatus = "unknown"
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// StudentEventScheduleModel: join student ↔ event_schedule.
// Dibuat saat distribusi student ke jadwal; dimutasi selama student
// berprogres (masuk exam mode, submit, dinilai); tidak pernah dihapus
// kecuali lewat removal eksplisit.
type StudentEventScheduleModel struct {
	StudentEventScheduleID uuid.UUID `json:"student_event_schedule_id" gorm:"column:student_event_schedule_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// Satu student maksimal satu baris aktif per jadwal
	StudentEventScheduleScheduleID uuid.UUID `json:"student_event_schedule_schedule_id" gorm:"column:student_event_schedule_schedule_id;type:uuid;not null;index;uniqueIndex:uq_student_event_schedule"`
	StudentEventScheduleStudentID  uuid.UUID `json:"student_event_schedule_student_id"  gorm:"column:student_event_schedule_student_id;type:uuid;not null;index;uniqueIndex:uq_student_event_schedule"`

	// Varian soal yang diberikan (diisi Model Distribution Service)
	StudentEventScheduleExamModelID *uuid.UUID `json:"student_event_schedule_exam_model_id" gorm:"column:student_event_schedule_exam_model_id;type:uuid"`

	// Progres student (dimutasi flow submission/marking di luar engine)
	StudentEventScheduleAttendance        AttendanceStatus `json:"student_event_schedule_attendance"           gorm:"column:student_event_schedule_attendance;type:attendance_status_enum;not null;default:'unknown'"`
	StudentEventScheduleEnteredExamModeAt *time.Time       `json:"student_event_schedule_entered_exam_mode_at" gorm:"column:student_event_schedule_entered_exam_mode_at;type:timestamptz"`
	StudentEventScheduleSubmittedAt       *time.Time       `json:"student_event_schedule_submitted_at"         gorm:"column:student_event_schedule_submitted_at;type:timestamptz"`
	StudentEventScheduleMark              *float64         `json:"student_event_schedule_mark"                 gorm:"column:student_event_schedule_mark;type:numeric(5,2)"`

	// Audit
	StudentEventScheduleCreatedAt time.Time      `json:"student_event_schedule_created_at" gorm:"column:student_event_schedule_created_at;type:timestamptz;not null;autoCreateTime"`
	StudentEventScheduleUpdatedAt time.Time      `json:"student_event_schedule_updated_at" gorm:"column:student_event_schedule_updated_at;type:timestamptz;not null;autoUpdateTime"`
	StudentEventScheduleDeletedAt gorm.DeletedAt `json:"student_event_schedule_deleted_at" gorm:"column:student_event_schedule_deleted_at;index"`
}

func (StudentEventScheduleModel) TableName() string { return "student_event_schedules" }
