// internals/features/labs/labs/model/lab_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LabModel struct {
	LabID uuid.UUID `json:"lab_id" gorm:"column:lab_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	LabName     string  `json:"lab_name"     gorm:"column:lab_name;type:varchar(120);not null"`
	LabLocation *string `json:"lab_location" gorm:"column:lab_location;type:varchar(160)"`

	// Fasilitas bebas-bentuk (proyektor, image OS, dsb.)
	LabFeatures datatypes.JSON `json:"lab_features" gorm:"column:lab_features;type:jsonb"`

	// Audit
	LabCreatedAt time.Time      `json:"lab_created_at" gorm:"column:lab_created_at;type:timestamptz;not null;autoCreateTime"`
	LabUpdatedAt time.Time      `json:"lab_updated_at" gorm:"column:lab_updated_at;type:timestamptz;not null;autoUpdateTime"`
	LabDeletedAt gorm.DeletedAt `json:"lab_deleted_at" gorm:"column:lab_deleted_at;index"`

	// Relasi
	Devices []DeviceModel `json:"devices,omitempty" gorm:"foreignKey:DeviceLabID;references:LabID"`
}

func (LabModel) TableName() string { return "labs" }
