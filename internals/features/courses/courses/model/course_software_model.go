// internals/features/courses/courses/model/course_software_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CourseSoftwareModel: himpunan software wajib sebuah mata kuliah
// (dipakai Capacity Calculator sebagai required-set).
type CourseSoftwareModel struct {
	CourseSoftwareID uuid.UUID `json:"course_software_id" gorm:"column:course_software_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	CourseSoftwareCourseID   uuid.UUID `json:"course_software_course_id"   gorm:"column:course_software_course_id;type:uuid;not null;index;uniqueIndex:uq_course_software"`
	CourseSoftwareSoftwareID uuid.UUID `json:"course_software_software_id" gorm:"column:course_software_software_id;type:uuid;not null;uniqueIndex:uq_course_software"`

	CourseSoftwareCreatedAt time.Time `json:"course_software_created_at" gorm:"column:course_software_created_at;type:timestamptz;not null;autoCreateTime"`
}

func (CourseSoftwareModel) TableName() string { return "course_softwares" }
