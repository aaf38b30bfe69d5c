package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventModel "labku_backend/internals/features/exams/events/model"
	scheduleDTO "labku_backend/internals/features/exams/schedules/dto"
	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

/* =========================================================
   Fakes — store in-memory yang meniru semantik update
   kondisional repository (menang hanya kalau status masih
   di himpunan prasyarat).
========================================================= */

var errFakeNotFound = errors.New("schedule tidak ditemukan")

type fakeStore struct {
	schedules map[uuid.UUID]*scheduleModel.EventScheduleModel
	students  map[uuid.UUID][]scheduleModel.StudentEventScheduleModel

	transitions int
}

func newFakeStore(schedules ...*scheduleModel.EventScheduleModel) *fakeStore {
	st := &fakeStore{
		schedules: map[uuid.UUID]*scheduleModel.EventScheduleModel{},
		students:  map[uuid.UUID][]scheduleModel.StudentEventScheduleModel{},
	}
	for _, s := range schedules {
		st.schedules[s.EventScheduleID] = s
	}
	return st
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*scheduleModel.EventScheduleModel, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) TransitionStatus(_ context.Context, id uuid.UUID, from []scheduleModel.ScheduleStatus, to scheduleModel.ScheduleStatus, patch map[string]interface{}) (bool, error) {
	s, ok := f.schedules[id]
	if !ok {
		return false, nil
	}
	eligible := false
	for _, st := range from {
		if s.EventScheduleStatus == st {
			eligible = true
			break
		}
	}
	if !eligible {
		return false, nil
	}

	s.EventScheduleStatus = to
	for col, v := range patch {
		switch col {
		case "event_schedule_date_time":
			s.EventScheduleDateTime = v.(time.Time)
		case "event_schedule_auto_start":
			b := v.(bool)
			s.EventScheduleAutoStart = &b
		case "event_schedule_exam_mode_activated_at":
			ts := v.(time.Time)
			s.EventScheduleExamModeActivatedAt = &ts
		case "event_schedule_actual_start_at":
			ts := v.(time.Time)
			s.EventScheduleActualStartAt = &ts
		case "event_schedule_actual_end_at":
			ts := v.(time.Time)
			s.EventScheduleActualEndAt = &ts
		}
	}
	f.transitions++
	return true, nil
}

func (f *fakeStore) StudentsOf(_ context.Context, scheduleID uuid.UUID) ([]scheduleModel.StudentEventScheduleModel, error) {
	return f.students[scheduleID], nil
}

func (f *fakeStore) UnassignedStudentsOf(_ context.Context, scheduleID uuid.UUID) ([]scheduleModel.StudentEventScheduleModel, error) {
	var out []scheduleModel.StudentEventScheduleModel
	for _, st := range f.students[scheduleID] {
		if st.StudentEventScheduleExamModelID == nil {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStore) StudentExamStatuses(_ context.Context, studentID uuid.UUID) ([]scheduleDTO.StudentExamStatus, error) {
	var out []scheduleDTO.StudentExamStatus
	for scheduleID, list := range f.students {
		for _, st := range list {
			if st.StudentEventScheduleStudentID != studentID {
				continue
			}
			s := f.schedules[scheduleID]
			if s == nil || s.EventScheduleStatus == scheduleModel.ScheduleEnded {
				continue
			}
			out = append(out, scheduleDTO.StudentExamStatus{
				ScheduleID: s.EventScheduleID,
				EventID:    s.EventScheduleEventID,
				Status:     s.EventScheduleStatus,
				DateTime:   s.EventScheduleDateTime,
			})
		}
	}
	return out, nil
}

type publishedEvent struct {
	ScheduleID uuid.UUID
	Event      string
}

type fakeNotifier struct {
	events    []publishedEvent
	snapshots int
}

func (f *fakeNotifier) PublishScheduleEvent(_ context.Context, scheduleID uuid.UUID, event string, _ map[string]any) {
	f.events = append(f.events, publishedEvent{ScheduleID: scheduleID, Event: event})
}

func (f *fakeNotifier) PublishStudentStatus(_ context.Context, _ uuid.UUID, _ any) {
	f.snapshots++
}

func (f *fakeNotifier) eventNames() []string {
	names := make([]string, 0, len(f.events))
	for _, e := range f.events {
		names = append(names, e.Event)
	}
	return names
}

type fakeAssigner struct {
	failFor  map[uuid.UUID]bool // keyed by student schedule row ID
	assigned []uuid.UUID
}

func (f *fakeAssigner) AssignModel(_ context.Context, _ uuid.UUID, studentScheduleID uuid.UUID) (uuid.UUID, error) {
	if f.failFor[studentScheduleID] {
		return uuid.Nil, errors.New("tidak ada model tersisa")
	}
	f.assigned = append(f.assigned, studentScheduleID)
	return uuid.New(), nil
}

/* ===================== helpers ===================== */

// examSchedule: sesi ujian durasi 60 menit, exam-mode lead 30 menit,
// auto-start ikut event.
func examSchedule(now time.Time, status scheduleModel.ScheduleStatus, startIn time.Duration) *scheduleModel.EventScheduleModel {
	eventID := uuid.New()
	return &scheduleModel.EventScheduleModel{
		EventScheduleID:       uuid.New(),
		EventScheduleEventID:  eventID,
		EventScheduleLabID:    uuid.New(),
		EventScheduleDateTime: now.Add(startIn),
		EventScheduleStatus:   status,
		Event: &eventModel.EventModel{
			EventID:                   eventID,
			EventDurationMinutes:      60,
			EventIsExam:               true,
			EventAutoStart:            true,
			EventExamModeStartMinutes: 30,
		},
	}
}

func newMachine(store *fakeStore) (*StateMachine, *fakeNotifier, *fakeAssigner) {
	notify := &fakeNotifier{}
	assign := &fakeAssigner{}
	return NewStateMachine(store, assign, notify), notify, assign
}

/* ===================== exam mode ===================== */

func TestActivateExamModeWithinWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 7, 35, 0, 0, time.UTC)
	s := examSchedule(now, scheduleModel.ScheduleScheduled, 25*time.Minute)
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.ActivateExamMode(context.Background(), s, now))

	got := store.schedules[s.EventScheduleID]
	assert.Equal(t, scheduleModel.ScheduleExamModeActive, got.EventScheduleStatus)
	require.NotNil(t, got.EventScheduleExamModeActivatedAt)
	assert.Equal(t, now, *got.EventScheduleExamModeActivatedAt)
	assert.Equal(t, []string{"exam_mode_start"}, notify.eventNames())
}

func TestActivateExamModeIdempotent(t *testing.T) {
	now := time.Date(2026, 9, 1, 7, 35, 0, 0, time.UTC)
	s := examSchedule(now, scheduleModel.ScheduleScheduled, 25*time.Minute)
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.ActivateExamMode(context.Background(), s, now))
	// tick kedua di data yang sama: CAS kalah, tidak ada efek tambahan
	require.NoError(t, machine.ActivateExamMode(context.Background(), s, now.Add(time.Minute)))

	assert.Equal(t, 1, store.transitions)
	assert.Len(t, notify.events, 1)
}

func TestActivateExamModeBeforeWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
	s := examSchedule(now, scheduleModel.ScheduleScheduled, 40*time.Minute) // lead 30m, belum buka
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.ActivateExamMode(context.Background(), s, now))

	assert.Equal(t, scheduleModel.ScheduleScheduled, store.schedules[s.EventScheduleID].EventScheduleStatus)
	assert.Empty(t, notify.events)
}

func TestActivateExamModeSkipsNonExam(t *testing.T) {
	now := time.Now()
	s := examSchedule(now, scheduleModel.ScheduleScheduled, 10*time.Minute)
	s.Event.EventIsExam = false
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.ActivateExamMode(context.Background(), s, now))

	assert.Equal(t, scheduleModel.ScheduleScheduled, store.schedules[s.EventScheduleID].EventScheduleStatus)
	assert.Empty(t, notify.events)
}

/* ===================== auto-start ===================== */

func TestAutoStartAssignsModels(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 1, 0, 0, time.UTC)
	s := examSchedule(now, scheduleModel.ScheduleExamModeActive, -time.Minute)
	s.Event.EventRequiresModels = true

	store := newFakeStore(s)
	studentA := scheduleModel.StudentEventScheduleModel{
		StudentEventScheduleID:         uuid.New(),
		StudentEventScheduleScheduleID: s.EventScheduleID,
		StudentEventScheduleStudentID:  uuid.New(),
	}
	studentB := scheduleModel.StudentEventScheduleModel{
		StudentEventScheduleID:         uuid.New(),
		StudentEventScheduleScheduleID: s.EventScheduleID,
		StudentEventScheduleStudentID:  uuid.New(),
	}
	store.students[s.EventScheduleID] = []scheduleModel.StudentEventScheduleModel{studentA, studentB}

	machine, notify, assign := newMachine(store)

	require.NoError(t, machine.AutoStart(context.Background(), s, now))

	got := store.schedules[s.EventScheduleID]
	assert.Equal(t, scheduleModel.ScheduleStarted, got.EventScheduleStatus)
	require.NotNil(t, got.EventScheduleActualStartAt)
	assert.Equal(t, now, *got.EventScheduleActualStartAt)

	assert.Len(t, assign.assigned, 2)
	assert.Contains(t, notify.eventNames(), "exam_access_granted")
	// satu event model-status per assignment
	assert.Equal(t, []string{"exam_model_status", "exam_model_status", "exam_access_granted"}, notify.eventNames())
	assert.Equal(t, 2, notify.snapshots)
}

func TestAutoStartSkipsFailedStudent(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 1, 0, 0, time.UTC)
	s := examSchedule(now, scheduleModel.ScheduleExamModeActive, -time.Minute)
	s.Event.EventRequiresModels = true

	store := newFakeStore(s)
	ok := scheduleModel.StudentEventScheduleModel{
		StudentEventScheduleID:         uuid.New(),
		StudentEventScheduleScheduleID: s.EventScheduleID,
		StudentEventScheduleStudentID:  uuid.New(),
	}
	failing := scheduleModel.StudentEventScheduleModel{
		StudentEventScheduleID:         uuid.New(),
		StudentEventScheduleScheduleID: s.EventScheduleID,
		StudentEventScheduleStudentID:  uuid.New(),
	}
	store.students[s.EventScheduleID] = []scheduleModel.StudentEventScheduleModel{ok, failing}

	machine, notify, assign := newMachine(store)
	assign.failFor = map[uuid.UUID]bool{failing.StudentEventScheduleID: true}

	// student gagal dilewati, transisi tetap jadi
	require.NoError(t, machine.AutoStart(context.Background(), s, now))

	assert.Equal(t, scheduleModel.ScheduleStarted, store.schedules[s.EventScheduleID].EventScheduleStatus)
	assert.Equal(t, []uuid.UUID{ok.StudentEventScheduleID}, assign.assigned)
	assert.Contains(t, notify.eventNames(), "exam_access_granted")
}

func TestAutoStartRespectsDisabledFlag(t *testing.T) {
	now := time.Now()
	s := examSchedule(now, scheduleModel.ScheduleScheduled, -time.Minute)
	off := false
	s.EventScheduleAutoStart = &off // override per sesi menang atas flag event
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.AutoStart(context.Background(), s, now))

	assert.Equal(t, scheduleModel.ScheduleScheduled, store.schedules[s.EventScheduleID].EventScheduleStatus)
	assert.Empty(t, notify.events)
}

func TestAutoStartAfterWindowClosed(t *testing.T) {
	now := time.Now()
	// jam mulai + durasi sudah lewat semua
	s := examSchedule(now, scheduleModel.ScheduleScheduled, -90*time.Minute)
	store := newFakeStore(s)
	machine, _, _ := newMachine(store)

	require.NoError(t, machine.AutoStart(context.Background(), s, now))

	assert.Equal(t, scheduleModel.ScheduleScheduled, store.schedules[s.EventScheduleID].EventScheduleStatus)
}

func TestAutoStartIdempotent(t *testing.T) {
	now := time.Now()
	s := examSchedule(now, scheduleModel.ScheduleExamModeActive, -time.Minute)
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.AutoStart(context.Background(), s, now))
	require.NoError(t, machine.AutoStart(context.Background(), s, now.Add(time.Minute)))

	assert.Equal(t, 1, store.transitions)
	assert.Len(t, notify.events, 1)
}

/* ===================== manual start ===================== */

func TestManualStartRewritesClock(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	s := examSchedule(now, scheduleModel.ScheduleScheduled, 3*time.Hour)
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	newStart, err := machine.ManualStart(context.Background(), s.EventScheduleID, now)
	require.NoError(t, err)
	require.NotNil(t, newStart)
	assert.Equal(t, now.Add(time.Minute), *newStart)

	got := store.schedules[s.EventScheduleID]
	assert.Equal(t, scheduleModel.ScheduleExamModeActive, got.EventScheduleStatus)
	assert.Equal(t, *newStart, got.EventScheduleDateTime)
	require.NotNil(t, got.EventScheduleAutoStart)
	assert.True(t, *got.EventScheduleAutoStart)
	assert.Equal(t, []string{"exam_starting_soon"}, notify.eventNames())

	// tick berikutnya (setelah menitnya lewat) yang menyalakan STARTED
	require.NoError(t, machine.AutoStart(context.Background(), got, newStart.Add(time.Second)))
	assert.Equal(t, scheduleModel.ScheduleStarted, got.EventScheduleStatus)
}

func TestManualStartRejectedAfterEnd(t *testing.T) {
	now := time.Now()
	s := examSchedule(now, scheduleModel.ScheduleEnded, -2*time.Hour)
	store := newFakeStore(s)
	machine, _, _ := newMachine(store)

	_, err := machine.ManualStart(context.Background(), s.EventScheduleID, now)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestManualStartRejectedWhenRunning(t *testing.T) {
	now := time.Now()
	s := examSchedule(now, scheduleModel.ScheduleStarted, -10*time.Minute)
	store := newFakeStore(s)
	machine, _, _ := newMachine(store)

	_, err := machine.ManualStart(context.Background(), s.EventScheduleID, now)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestManualStartUnknownSchedule(t *testing.T) {
	machine, _, _ := newMachine(newFakeStore())

	_, err := machine.ManualStart(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, errFakeNotFound)
}

/* ===================== end ===================== */

func TestAutoEndAfterDuration(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	s := examSchedule(now, scheduleModel.ScheduleStarted, -2*time.Hour)
	started := now.Add(-61 * time.Minute)
	s.EventScheduleActualStartAt = &started
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.AutoEnd(context.Background(), s, now))

	got := store.schedules[s.EventScheduleID]
	assert.Equal(t, scheduleModel.ScheduleEnded, got.EventScheduleStatus)
	require.NotNil(t, got.EventScheduleActualEndAt)
	assert.Equal(t, []string{"exam_end"}, notify.eventNames())

	// sudah ended: AutoEnd berikutnya diam, bukan error
	require.NoError(t, machine.AutoEnd(context.Background(), s, now.Add(time.Minute)))
	assert.Equal(t, 1, store.transitions)
}

func TestAutoEndBeforeDuration(t *testing.T) {
	now := time.Now()
	s := examSchedule(now, scheduleModel.ScheduleStarted, -10*time.Minute)
	started := now.Add(-10 * time.Minute) // durasi 60m belum habis
	s.EventScheduleActualStartAt = &started
	store := newFakeStore(s)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.AutoEnd(context.Background(), s, now))

	assert.Equal(t, scheduleModel.ScheduleStarted, store.schedules[s.EventScheduleID].EventScheduleStatus)
	assert.Empty(t, notify.events)
}

func TestManualEndOnlyFromStarted(t *testing.T) {
	now := time.Now()
	running := examSchedule(now, scheduleModel.ScheduleStarted, -10*time.Minute)
	pending := examSchedule(now, scheduleModel.ScheduleScheduled, time.Hour)
	store := newFakeStore(running, pending)
	machine, notify, _ := newMachine(store)

	require.NoError(t, machine.ManualEnd(context.Background(), running.EventScheduleID, now))
	assert.Equal(t, scheduleModel.ScheduleEnded, store.schedules[running.EventScheduleID].EventScheduleStatus)
	assert.Equal(t, []string{"exam_end"}, notify.eventNames())

	assert.ErrorIs(t, machine.ManualEnd(context.Background(), pending.EventScheduleID, now), ErrInvalidState)
	// ended bersifat terminal
	assert.ErrorIs(t, machine.ManualEnd(context.Background(), running.EventScheduleID, now), ErrInvalidState)
}
