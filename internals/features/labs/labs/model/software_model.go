// internals/features/labs/labs/model/software_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SoftwareModel struct {
	SoftwareID uuid.UUID `json:"software_id" gorm:"column:software_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	SoftwareName    string  `json:"software_name"    gorm:"column:software_name;type:varchar(120);not null"`
	SoftwareVersion *string `json:"software_version" gorm:"column:software_version;type:varchar(60)"`

	// Audit
	SoftwareCreatedAt time.Time      `json:"software_created_at" gorm:"column:software_created_at;type:timestamptz;not null;autoCreateTime"`
	SoftwareUpdatedAt time.Time      `json:"software_updated_at" gorm:"column:software_updated_at;type:timestamptz;not null;autoUpdateTime"`
	SoftwareDeletedAt gorm.DeletedAt `json:"software_deleted_at" gorm:"column:software_deleted_at;index"`
}

func (SoftwareModel) TableName() string { return "softwares" }
