package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

type fakeScanner struct {
	examMode  []scheduleModel.EventScheduleModel
	autoStart []scheduleModel.EventScheduleModel
	autoEnd   []scheduleModel.EventScheduleModel

	examModeErr error

	calls []string
}

func (f *fakeScanner) DueForExamMode(_ context.Context, _ time.Time) ([]scheduleModel.EventScheduleModel, error) {
	f.calls = append(f.calls, "exam_mode")
	return f.examMode, f.examModeErr
}

func (f *fakeScanner) DueForAutoStart(_ context.Context, _ time.Time) ([]scheduleModel.EventScheduleModel, error) {
	f.calls = append(f.calls, "auto_start")
	return f.autoStart, nil
}

func (f *fakeScanner) DueForAutoEnd(_ context.Context, _ time.Time) ([]scheduleModel.EventScheduleModel, error) {
	f.calls = append(f.calls, "auto_end")
	return f.autoEnd, nil
}

type fakeMachine struct {
	activated []uuid.UUID
	started   []uuid.UUID
	ended     []uuid.UUID

	failActivate map[uuid.UUID]bool
}

func (f *fakeMachine) ActivateExamMode(_ context.Context, s *scheduleModel.EventScheduleModel, _ time.Time) error {
	if f.failActivate[s.EventScheduleID] {
		return errors.New("db timeout")
	}
	f.activated = append(f.activated, s.EventScheduleID)
	return nil
}

func (f *fakeMachine) AutoStart(_ context.Context, s *scheduleModel.EventScheduleModel, _ time.Time) error {
	f.started = append(f.started, s.EventScheduleID)
	return nil
}

func (f *fakeMachine) AutoEnd(_ context.Context, s *scheduleModel.EventScheduleModel, _ time.Time) error {
	f.ended = append(f.ended, s.EventScheduleID)
	return nil
}

func session() scheduleModel.EventScheduleModel {
	return scheduleModel.EventScheduleModel{EventScheduleID: uuid.New()}
}

func TestRunOnceSweepsAllPhasesInOrder(t *testing.T) {
	scan := &fakeScanner{
		examMode:  []scheduleModel.EventScheduleModel{session(), session()},
		autoStart: []scheduleModel.EventScheduleModel{session()},
		autoEnd:   []scheduleModel.EventScheduleModel{session()},
	}
	machine := &fakeMachine{}
	r := NewReconciler(scan, machine, time.Minute)

	r.runOnce(context.Background())

	assert.Equal(t, []string{"exam_mode", "auto_start", "auto_end"}, scan.calls)
	assert.Len(t, machine.activated, 2)
	assert.Len(t, machine.started, 1)
	assert.Len(t, machine.ended, 1)
}

func TestRunOnceFailedSessionDoesNotBlockOthers(t *testing.T) {
	bad := session()
	good := session()
	scan := &fakeScanner{examMode: []scheduleModel.EventScheduleModel{bad, good}}
	machine := &fakeMachine{failActivate: map[uuid.UUID]bool{bad.EventScheduleID: true}}
	r := NewReconciler(scan, machine, time.Minute)

	r.runOnce(context.Background())

	// sesi gagal cuma di-log; sesi lain tetap diproses
	assert.Equal(t, []uuid.UUID{good.EventScheduleID}, machine.activated)
}

func TestRunOnceScanErrorSkipsPhaseOnly(t *testing.T) {
	scan := &fakeScanner{
		examModeErr: errors.New("connection refused"),
		autoEnd:     []scheduleModel.EventScheduleModel{session()},
	}
	machine := &fakeMachine{}
	r := NewReconciler(scan, machine, time.Minute)

	r.runOnce(context.Background())

	// fase exam-mode gagal, dua fase berikutnya tetap jalan
	assert.Equal(t, []string{"exam_mode", "auto_start", "auto_end"}, scan.calls)
	assert.Empty(t, machine.activated)
	assert.Len(t, machine.ended, 1)
}

func TestRunOnceIdempotentOnQuietData(t *testing.T) {
	scan := &fakeScanner{}
	machine := &fakeMachine{}
	r := NewReconciler(scan, machine, time.Minute)

	r.runOnce(context.Background())
	r.runOnce(context.Background())

	assert.Empty(t, machine.activated)
	assert.Empty(t, machine.started)
	assert.Empty(t, machine.ended)
}

func TestStartStopRunsImmediateTick(t *testing.T) {
	scan := &fakeScanner{examMode: []scheduleModel.EventScheduleModel{session()}}
	machine := &fakeMachine{}
	r := NewReconciler(scan, machine, time.Hour) // interval panjang: hanya tick pertama

	r.Start()
	r.Stop() // menunggu loop selesai, aman baca state fake setelah ini

	require.GreaterOrEqual(t, len(scan.calls), 3)
	assert.Len(t, machine.activated, 1)
}

func TestNewReconcilerDefaultInterval(t *testing.T) {
	r := NewReconciler(&fakeScanner{}, &fakeMachine{}, 0)
	assert.Equal(t, time.Minute, r.Interval)
}
