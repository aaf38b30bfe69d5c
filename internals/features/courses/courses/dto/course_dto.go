// internals/features/courses/courses/dto/course_dto.go
package dto

import (
	"github.com/google/uuid"
)

type CreateCourseRequest struct {
	Code     string `json:"code"      validate:"required,min=2,max=40"`
	Name     string `json:"name"      validate:"required,min=3,max=160"`
	NeedsLab bool   `json:"needs_lab"`
}

// SetRequiredSoftwareRequest mengganti seluruh required-set
// software sebuah course (replace-set).
type SetRequiredSoftwareRequest struct {
	SoftwareIDs []uuid.UUID `json:"software_ids" validate:"dive,required"`
}

type EnrollStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}
