// internals/features/exams/schedules/dto/schedule_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

/* ===================== Requests ===================== */

// Jadwal dibuat lewat commit Group Formation Planner, bukan endpoint
// create tersendiri; di sini hanya edit + pendaftaran student.
type UpdateScheduleRequest struct {
	DateTime    *time.Time `json:"date_time"`
	MaxStudents *int       `json:"max_students" validate:"omitempty,gte=0"`
	AutoStart   *bool      `json:"auto_start"`
}

type AddStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

/* ===================== Responses ===================== */

type ScheduleResponse struct {
	ScheduleID       uuid.UUID                    `json:"schedule_id"`
	EventID          uuid.UUID                    `json:"event_id"`
	LabID            uuid.UUID                    `json:"lab_id"`
	DateTime         time.Time                    `json:"date_time"`
	MaxStudents      int                          `json:"max_students"`
	EnrolledStudents int                          `json:"enrolled_students"`
	Status           scheduleModel.ScheduleStatus `json:"status"`
	AutoStart        *bool                        `json:"auto_start,omitempty"`
	ExamModeAt       *time.Time                   `json:"exam_mode_activated_at,omitempty"`
	ActualStartAt    *time.Time                   `json:"actual_start_at,omitempty"`
	ActualEndAt      *time.Time                   `json:"actual_end_at,omitempty"`
}

func FromModel(m scheduleModel.EventScheduleModel) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:       m.EventScheduleID,
		EventID:          m.EventScheduleEventID,
		LabID:            m.EventScheduleLabID,
		DateTime:         m.EventScheduleDateTime,
		MaxStudents:      m.EventScheduleMaxStudents,
		EnrolledStudents: m.EventScheduleEnrolledStudents,
		Status:           m.EventScheduleStatus,
		AutoStart:        m.EventScheduleAutoStart,
		ExamModeAt:       m.EventScheduleExamModeActivatedAt,
		ActualStartAt:    m.EventScheduleActualStartAt,
		ActualEndAt:      m.EventScheduleActualEndAt,
	}
}

/* ===================== Snapshot per student ===================== */

// StudentExamStatus: satu baris status exam-mode milik student;
// dipush ke channel personal tiap ada transisi, karena student bisa
// terdaftar di beberapa sesi sekaligus.
type StudentExamStatus struct {
	ScheduleID    uuid.UUID                    `json:"schedule_id"`
	EventID       uuid.UUID                    `json:"event_id"`
	Status        scheduleModel.ScheduleStatus `json:"status"`
	DateTime      time.Time                    `json:"date_time"`
	ActualStartAt *time.Time                   `json:"actual_start_at,omitempty"`
}
