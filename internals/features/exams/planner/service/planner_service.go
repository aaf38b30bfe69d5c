// internals/features/exams/planner/service/planner_service.go
package service

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   Group Formation Planner — replay murni di atas daftar
   proposal milik admin. Tidak ada state tersembunyi: input
   sama → plan sama. Kapasitas hasil Capacity Calculator
   di-resolve oleh caller sebelum replay, jadi core ini
   bebas database.
========================================================= */

// GroupProposal: satu usulan group dari admin.
type GroupProposal struct {
	LabID     uuid.UUID `json:"lab_id"`
	StartTime time.Time `json:"start_time"`

	// 0 atau negatif = pakai ComputedCapacity sebagai default
	RequestedCapacity int `json:"requested_capacity"`

	// Hasil Capacity Calculator untuk (lab, course) saat proposal dibuat
	ComputedCapacity int `json:"computed_capacity"`
}

// PlannedGroup: hasil replay satu proposal.
type PlannedGroup struct {
	Index     int       `json:"index"`
	LabID     uuid.UUID `json:"lab_id"`
	StartTime time.Time `json:"start_time"`

	Capacity int `json:"capacity"`

	// Effective menyusut otomatis saat group sebelumnya sudah
	// menyerap sebagian student: min(capacity, sisa uncovered).
	EffectiveStudents int `json:"effective_students"`

	// Kapasitas diminta melebihi hasil hitung lab: dilaporkan,
	// TIDAK ditolak.
	OverCapacity bool `json:"over_capacity"`
}

type Plan struct {
	TotalStudents     int            `json:"total_students"`
	Groups            []PlannedGroup `json:"groups"`
	UncoveredStudents int            `json:"uncovered_students"`
	CanCreateEvent    bool           `json:"can_create_event"`
}

// BuildPlan replay seluruh daftar proposal terhadap snapshot
// total student terdaftar.
func BuildPlan(totalStudents int, proposals []GroupProposal) Plan {
	plan := Plan{
		TotalStudents: totalStudents,
		Groups:        make([]PlannedGroup, 0, len(proposals)),
	}

	remaining := totalStudents
	for i, p := range proposals {
		capacity := p.RequestedCapacity
		if capacity <= 0 {
			capacity = p.ComputedCapacity
		}

		effective := capacity
		if effective > remaining {
			effective = remaining
		}
		if effective < 0 {
			effective = 0
		}

		plan.Groups = append(plan.Groups, PlannedGroup{
			Index:             i + 1,
			LabID:             p.LabID,
			StartTime:         p.StartTime,
			Capacity:          capacity,
			EffectiveStudents: effective,
			OverCapacity:      p.RequestedCapacity > 0 && p.RequestedCapacity > p.ComputedCapacity,
		})
		remaining -= effective
	}

	plan.UncoveredStudents = remaining
	plan.CanCreateEvent = remaining == 0
	return plan
}

// SplitStudents membagi snapshot student terurut ke tiap group
// sesuai EffectiveStudents-nya. Batas slice di-clamp ke panjang
// snapshot, jadi pembagian tetap aman walau snapshot lebih pendek
// dari plan yang dibangun sebelumnya.
func SplitStudents(studentIDs []uuid.UUID, groups []PlannedGroup) [][]uuid.UUID {
	out := make([][]uuid.UUID, len(groups))
	cursor := 0
	for i, g := range groups {
		end := cursor + g.EffectiveStudents
		if end > len(studentIDs) {
			end = len(studentIDs)
		}
		if end < cursor {
			end = cursor
		}
		out[i] = studentIDs[cursor:end]
		cursor = end
	}
	return out
}

// AddGroup menambah proposal di akhir daftar (replay dilakukan caller).
func AddGroup(proposals []GroupProposal, p GroupProposal) []GroupProposal {
	return append(proposals, p)
}

// RemoveGroup membuang proposal index ke-i (1-based, mengikuti
// penomoran PlannedGroup); sisanya otomatis ternomor ulang saat replay.
func RemoveGroup(proposals []GroupProposal, index int) []GroupProposal {
	i := index - 1
	if i < 0 || i >= len(proposals) {
		return proposals
	}
	out := make([]GroupProposal, 0, len(proposals)-1)
	out = append(out, proposals[:i]...)
	out = append(out, proposals[i+1:]...)
	return out
}
