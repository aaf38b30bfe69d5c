// internals/features/labs/labs/dto/lab_dto.go
package dto

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	labModel "labku_backend/internals/features/labs/labs/model"
)

type CreateLabRequest struct {
	Name     string         `json:"name"     validate:"required,min=2,max=120"`
	Location *string        `json:"location" validate:"omitempty,max=160"`
	Features datatypes.JSON `json:"features" validate:"omitempty"`
}

type CreateDeviceRequest struct {
	Name   string                `json:"name"   validate:"required,min=1,max=120"`
	Status labModel.DeviceStatus `json:"status" validate:"omitempty,oneof=available not_available maintenance"`
}

type UpdateDeviceRequest struct {
	Name   *string                `json:"name"   validate:"omitempty,min=1,max=120"`
	Status *labModel.DeviceStatus `json:"status" validate:"omitempty,oneof=available not_available maintenance"`
}

type DeviceSoftwareEntry struct {
	SoftwareID uuid.UUID                     `json:"software_id" validate:"required"`
	Status     labModel.DeviceSoftwareStatus `json:"status"      validate:"omitempty,oneof=available not_available"`
	HasIssue   bool                          `json:"has_issue"`
	Issue      *string                       `json:"issue"       validate:"omitempty,max=500"`
}

// SetDeviceSoftwareRequest mengganti seluruh daftar software
// terpasang sebuah device (replace-set, bukan merge).
type SetDeviceSoftwareRequest struct {
	Softwares []DeviceSoftwareEntry `json:"softwares" validate:"dive"`
}

type CreateSoftwareRequest struct {
	Name    string  `json:"name"    validate:"required,min=1,max=120"`
	Version *string `json:"version" validate:"omitempty,max=60"`
}
