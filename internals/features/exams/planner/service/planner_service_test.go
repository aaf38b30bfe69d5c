package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanCoversStudents(t *testing.T) {
	labA := uuid.New()
	labB := uuid.New()
	start := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	proposals := []GroupProposal{
		{LabID: labA, StartTime: start, ComputedCapacity: 30},
		{LabID: labB, StartTime: start.Add(2 * time.Hour), ComputedCapacity: 25},
	}

	plan := BuildPlan(50, proposals)

	require.Len(t, plan.Groups, 2)
	assert.Equal(t, 1, plan.Groups[0].Index)
	assert.Equal(t, 30, plan.Groups[0].Capacity) // default dari hasil hitung
	assert.Equal(t, 30, plan.Groups[0].EffectiveStudents)
	assert.Equal(t, 2, plan.Groups[1].Index)
	assert.Equal(t, 20, plan.Groups[1].EffectiveStudents) // menyusut ke sisa
	assert.Equal(t, 0, plan.UncoveredStudents)
	assert.True(t, plan.CanCreateEvent)
}

func TestBuildPlanUncoveredBlocksCreate(t *testing.T) {
	proposals := []GroupProposal{
		{LabID: uuid.New(), ComputedCapacity: 20},
	}

	plan := BuildPlan(50, proposals)

	assert.Equal(t, 30, plan.UncoveredStudents)
	assert.False(t, plan.CanCreateEvent)
}

func TestBuildPlanOverCapacityReportedNotRejected(t *testing.T) {
	proposals := []GroupProposal{
		{LabID: uuid.New(), RequestedCapacity: 40, ComputedCapacity: 25},
	}

	plan := BuildPlan(40, proposals)

	require.Len(t, plan.Groups, 1)
	assert.True(t, plan.Groups[0].OverCapacity)
	assert.Equal(t, 40, plan.Groups[0].Capacity) // permintaan admin tetap dipakai
	assert.Equal(t, 40, plan.Groups[0].EffectiveStudents)
	assert.True(t, plan.CanCreateEvent)
}

func TestBuildPlanRequestedBelowComputed(t *testing.T) {
	proposals := []GroupProposal{
		{LabID: uuid.New(), RequestedCapacity: 10, ComputedCapacity: 25},
	}

	plan := BuildPlan(10, proposals)

	require.Len(t, plan.Groups, 1)
	assert.False(t, plan.Groups[0].OverCapacity)
	assert.Equal(t, 10, plan.Groups[0].Capacity)
}

func TestBuildPlanZeroStudents(t *testing.T) {
	plan := BuildPlan(0, []GroupProposal{{LabID: uuid.New(), ComputedCapacity: 30}})

	assert.Equal(t, 0, plan.Groups[0].EffectiveStudents)
	assert.Equal(t, 0, plan.UncoveredStudents)
	assert.True(t, plan.CanCreateEvent)
}

func TestRemoveGroupReplayRestoresUncovered(t *testing.T) {
	labA := uuid.New()
	labB := uuid.New()

	proposals := []GroupProposal{
		{LabID: labA, ComputedCapacity: 30},
		{LabID: labB, ComputedCapacity: 20},
	}
	require.True(t, BuildPlan(50, proposals).CanCreateEvent)

	// buang group ke-2: replay harus kembali melaporkan sisa student
	proposals = RemoveGroup(proposals, 2)
	plan := BuildPlan(50, proposals)

	require.Len(t, plan.Groups, 1)
	assert.Equal(t, labA, plan.Groups[0].LabID)
	assert.Equal(t, 20, plan.UncoveredStudents)
	assert.False(t, plan.CanCreateEvent)
}

func TestRemoveGroupIndexOutOfRange(t *testing.T) {
	proposals := []GroupProposal{{LabID: uuid.New(), ComputedCapacity: 10}}

	assert.Len(t, RemoveGroup(proposals, 0), 1)
	assert.Len(t, RemoveGroup(proposals, 5), 1)
}

func TestAddGroupRenumbersOnReplay(t *testing.T) {
	proposals := []GroupProposal{{LabID: uuid.New(), ComputedCapacity: 10}}
	proposals = AddGroup(proposals, GroupProposal{LabID: uuid.New(), ComputedCapacity: 15})

	plan := BuildPlan(25, proposals)

	require.Len(t, plan.Groups, 2)
	assert.Equal(t, 1, plan.Groups[0].Index)
	assert.Equal(t, 2, plan.Groups[1].Index)
	assert.True(t, plan.CanCreateEvent)
}

func TestSplitStudentsPerGroup(t *testing.T) {
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
	}

	groups := []PlannedGroup{
		{Index: 1, EffectiveStudents: 3},
		{Index: 2, EffectiveStudents: 2},
	}

	sets := SplitStudents(ids, groups)

	require.Len(t, sets, 2)
	assert.Equal(t, ids[:3], sets[0])
	assert.Equal(t, ids[3:], sets[1])
}

func TestSplitStudentsSnapshotLebihPendekDariPlan(t *testing.T) {
	// Snapshot bisa lebih pendek dari plan yang dibangun lebih dulu
	// (enrollment berubah di antara preview dan commit). Pembagian
	// harus clamp ke panjang snapshot, bukan panic.
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	groups := []PlannedGroup{
		{Index: 1, EffectiveStudents: 3},
		{Index: 2, EffectiveStudents: 2},
	}

	var sets [][]uuid.UUID
	require.NotPanics(t, func() { sets = SplitStudents(ids, groups) })

	require.Len(t, sets, 2)
	assert.Equal(t, ids, sets[0])
	assert.Empty(t, sets[1])
}

func TestSplitStudentsTanpaGroup(t *testing.T) {
	sets := SplitStudents([]uuid.UUID{uuid.New()}, nil)
	assert.Empty(t, sets)
}
