// internals/features/labs/labs/model/device_software_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Go-side enum buat device_software_status_enum
type DeviceSoftwareStatus string

const (
	DeviceSoftwareAvailable    DeviceSoftwareStatus = "available"
	DeviceSoftwareNotAvailable DeviceSoftwareStatus = "not_available"
)

// DeviceSoftwareModel: satu entri software terpasang pada satu device,
// masing-masing bawa status + flag issue sendiri.
type DeviceSoftwareModel struct {
	DeviceSoftwareID uuid.UUID `json:"device_software_id" gorm:"column:device_software_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	DeviceSoftwareDeviceID   uuid.UUID `json:"device_software_device_id"   gorm:"column:device_software_device_id;type:uuid;not null;index;uniqueIndex:uq_device_software"`
	DeviceSoftwareSoftwareID uuid.UUID `json:"device_software_software_id" gorm:"column:device_software_software_id;type:uuid;not null;uniqueIndex:uq_device_software"`

	DeviceSoftwareStatus   DeviceSoftwareStatus `json:"device_software_status"    gorm:"column:device_software_status;type:device_software_status_enum;not null;default:'available'"`
	DeviceSoftwareHasIssue bool                 `json:"device_software_has_issue" gorm:"column:device_software_has_issue;not null;default:false"`
	DeviceSoftwareIssue    *string              `json:"device_software_issue"     gorm:"column:device_software_issue;type:text"`

	// Audit
	DeviceSoftwareCreatedAt time.Time      `json:"device_software_created_at" gorm:"column:device_software_created_at;type:timestamptz;not null;autoCreateTime"`
	DeviceSoftwareUpdatedAt time.Time      `json:"device_software_updated_at" gorm:"column:device_software_updated_at;type:timestamptz;not null;autoUpdateTime"`
	DeviceSoftwareDeletedAt gorm.DeletedAt `json:"device_software_deleted_at" gorm:"column:device_software_deleted_at;index"`

	// Relasi opsional (buat response yang butuh nama software)
	Software *SoftwareModel `json:"software,omitempty" gorm:"foreignKey:DeviceSoftwareSoftwareID;references:SoftwareID"`
}

func (DeviceSoftwareModel) TableName() string { return "device_softwares" }
