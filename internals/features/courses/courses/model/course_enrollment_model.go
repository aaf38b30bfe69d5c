// internals/features/courses/courses/model/course_enrollment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseEnrollmentModel: fakta pendaftaran student ↔ course.
// Total baris per course = snapshot "total enrolled" untuk Group Formation Planner.
type CourseEnrollmentModel struct {
	CourseEnrollmentID uuid.UUID `json:"course_enrollment_id" gorm:"column:course_enrollment_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	CourseEnrollmentCourseID  uuid.UUID `json:"course_enrollment_course_id"  gorm:"column:course_enrollment_course_id;type:uuid;not null;index;uniqueIndex:uq_course_enrollment"`
	CourseEnrollmentStudentID uuid.UUID `json:"course_enrollment_student_id" gorm:"column:course_enrollment_student_id;type:uuid;not null;uniqueIndex:uq_course_enrollment"`

	// Audit
	CourseEnrollmentCreatedAt time.Time      `json:"course_enrollment_created_at" gorm:"column:course_enrollment_created_at;type:timestamptz;not null;autoCreateTime"`
	CourseEnrollmentDeletedAt gorm.DeletedAt `json:"course_enrollment_deleted_at" gorm:"column:course_enrollment_deleted_at;index"`
}

func (CourseEnrollmentModel) TableName() string { return "course_enrollments" }
