// internals/features/exams/events/dto/event_dto.go
package dto

import (
	"github.com/google/uuid"
)

type CreateEventRequest struct {
	CourseID             uuid.UUID `json:"course_id"               validate:"required"`
	Name                 string    `json:"name"                    validate:"required,min=3,max=160"`
	DurationMinutes      int       `json:"duration_minutes"        validate:"required,gt=0"`
	IsExam               bool      `json:"is_exam"`
	AutoStart            bool      `json:"auto_start"`
	ExamModeStartMinutes int       `json:"exam_mode_start_minutes" validate:"gte=0"`
	RequiresModels       bool      `json:"requires_models"`
}

type UpdateEventRequest struct {
	Name                 *string `json:"name"                    validate:"omitempty,min=3,max=160"`
	DurationMinutes      *int    `json:"duration_minutes"        validate:"omitempty,gt=0"`
	AutoStart            *bool   `json:"auto_start"`
	ExamModeStartMinutes *int    `json:"exam_mode_start_minutes" validate:"omitempty,gte=0"`
	RequiresModels       *bool   `json:"requires_models"`
}

type CreateExamModelRequest struct {
	Name     string   `json:"name"      validate:"required,min=1,max=120"`
	Version  *string  `json:"version"   validate:"omitempty,max=60"`
	FileURLs []string `json:"file_urls" validate:"omitempty,dive,url"`
}
