// internals/features/exams/planner/dto/planner_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// Satu usulan group dari admin. Kapasitas 0 = pakai hasil
// Capacity Calculator sebagai default.
type GroupProposalRequest struct {
	LabID             uuid.UUID `json:"lab_id"             validate:"required"`
	StartTime         time.Time `json:"start_time"         validate:"required"`
	RequestedCapacity int       `json:"requested_capacity" validate:"gte=0"`
}

// PlanRequest: seluruh daftar proposal (replay stateless — daftar
// dipegang admin/klien, server tinggal menghitung ulang).
type PlanRequest struct {
	Groups []GroupProposalRequest `json:"groups" validate:"required,min=1,dive"`
}
