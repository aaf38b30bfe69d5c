// internals/features/labs/labs/model/device_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Go-side enum buat device_status_enum
type DeviceStatus string

const (
	DeviceAvailable    DeviceStatus = "available"
	DeviceNotAvailable DeviceStatus = "not_available"
	DeviceMaintenance  DeviceStatus = "maintenance"
)

type DeviceModel struct {
	DeviceID uuid.UUID `json:"device_id" gorm:"column:device_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// FK → labs (device selalu milik tepat satu lab)
	DeviceLabID uuid.UUID `json:"device_lab_id" gorm:"column:device_lab_id;type:uuid;not null;index"`

	DeviceName   string       `json:"device_name"   gorm:"column:device_name;type:varchar(120);not null"`
	DeviceStatus DeviceStatus `json:"device_status" gorm:"column:device_status;type:device_status_enum;not null;default:'available'"`

	// Audit
	DeviceCreatedAt time.Time      `json:"device_created_at" gorm:"column:device_created_at;type:timestamptz;not null;autoCreateTime"`
	DeviceUpdatedAt time.Time      `json:"device_updated_at" gorm:"column:device_updated_at;type:timestamptz;not null;autoUpdateTime"`
	DeviceDeletedAt gorm.DeletedAt `json:"device_deleted_at" gorm:"column:device_deleted_at;index"`

	// Relasi
	Softwares []DeviceSoftwareModel `json:"softwares,omitempty" gorm:"foreignKey:DeviceSoftwareDeviceID;references:DeviceID"`
}

func (DeviceModel) TableName() string { return "devices" }
