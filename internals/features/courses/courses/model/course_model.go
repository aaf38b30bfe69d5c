// internals/features/courses/courses/model/course_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID uuid.UUID `json:"course_id" gorm:"column:course_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	CourseCode string `json:"course_code" gorm:"column:course_code;type:varchar(40);not null;uniqueIndex"`
	CourseName string `json:"course_name" gorm:"column:course_name;type:varchar(160);not null"`

	// Mata kuliah yang butuh lab wajib cek kapasitas sebelum bikin jadwal ujian
	CourseNeedsLab bool `json:"course_needs_lab" gorm:"column:course_needs_lab;not null;default:false"`

	// Audit
	CourseCreatedAt time.Time      `json:"course_created_at" gorm:"column:course_created_at;type:timestamptz;not null;autoCreateTime"`
	CourseUpdatedAt time.Time      `json:"course_updated_at" gorm:"column:course_updated_at;type:timestamptz;not null;autoUpdateTime"`
	CourseDeletedAt gorm.DeletedAt `json:"course_deleted_at" gorm:"column:course_deleted_at;index"`

	// Relasi
	RequiredSoftwares []CourseSoftwareModel `json:"required_softwares,omitempty" gorm:"foreignKey:CourseSoftwareCourseID;references:CourseID"`
}

func (CourseModel) TableName() string { return "courses" }
