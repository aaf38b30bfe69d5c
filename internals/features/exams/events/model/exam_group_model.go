// internals/features/exams/events/model/exam_group_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExamGroupModel: kohor logis sebuah event (hasil Group Formation Planner).
type ExamGroupModel struct {
	ExamGroupID uuid.UUID `json:"exam_group_id" gorm:"column:exam_group_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// FK → events
	ExamGroupEventID uuid.UUID `json:"exam_group_event_id" gorm:"column:exam_group_event_id;type:uuid;not null;index"`

	ExamGroupIndex int `json:"exam_group_index" gorm:"column:exam_group_index;not null"`

	ExamGroupExpectedStudentCount int `json:"exam_group_expected_student_count" gorm:"column:exam_group_expected_student_count;not null;default:0"`
	ExamGroupActualStudentCount   int `json:"exam_group_actual_student_count"   gorm:"column:exam_group_actual_student_count;not null;default:0"`

	// Audit
	ExamGroupCreatedAt time.Time      `json:"exam_group_created_at" gorm:"column:exam_group_created_at;type:timestamptz;not null;autoCreateTime"`
	ExamGroupUpdatedAt time.Time      `json:"exam_group_updated_at" gorm:"column:exam_group_updated_at;type:timestamptz;not null;autoUpdateTime"`
	ExamGroupDeletedAt gorm.DeletedAt `json:"exam_group_deleted_at" gorm:"column:exam_group_deleted_at;index"`

	// Relasi m2m ke varian soal yang dipakai kohor ini
	Models []ExamModelModel `json:"models,omitempty" gorm:"many2many:exam_group_models;foreignKey:ExamGroupID;joinForeignKey:ExamGroupID;references:ExamModelID;joinReferences:ExamModelID"`
}

func (ExamGroupModel) TableName() string { return "exam_groups" }
