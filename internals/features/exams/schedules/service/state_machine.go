// internals/features/exams/schedules/service/state_machine.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	scheduleDTO "labku_backend/internals/features/exams/schedules/dto"
	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

var (
	// ErrInvalidState: perintah manual dari status yang tidak mengizinkan.
	// Scan otomatis tidak pernah memunculkan ini — filter query-nya
	// sudah menyaring status yang tidak eligible.
	ErrInvalidState = errors.New("transisi tidak valid untuk status sekarang")
)

/* =========================================================
   Port — state machine tidak pegang *gorm.DB langsung supaya
   transisinya bisa diuji dengan fake store tanpa database.
========================================================= */

type ScheduleStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*scheduleModel.EventScheduleModel, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []scheduleModel.ScheduleStatus, to scheduleModel.ScheduleStatus, patch map[string]interface{}) (bool, error)
	StudentsOf(ctx context.Context, scheduleID uuid.UUID) ([]scheduleModel.StudentEventScheduleModel, error)
	UnassignedStudentsOf(ctx context.Context, scheduleID uuid.UUID) ([]scheduleModel.StudentEventScheduleModel, error)
	StudentExamStatuses(ctx context.Context, studentID uuid.UUID) ([]scheduleDTO.StudentExamStatus, error)
}

type ModelAssigner interface {
	AssignModel(ctx context.Context, eventID, studentScheduleID uuid.UUID) (uuid.UUID, error)
}

type Notifier interface {
	PublishScheduleEvent(ctx context.Context, scheduleID uuid.UUID, event string, data map[string]any)
	PublishStudentStatus(ctx context.Context, studentID uuid.UUID, snapshot any)
}

// Nama event — mirror konstanta di notifications/service (dipisah
// supaya paket ini tidak tergantung redis).
const (
	eventExamModeStart     = "exam_mode_start"
	eventExamAccessGranted = "exam_access_granted"
	eventExamStartingSoon  = "exam_starting_soon"
	eventExamEnd           = "exam_end"
	eventExamModelStatus   = "exam_model_status"
)

/* =========================================================
   State machine — scheduled → exam_mode_active → started → ended.
   Status hanya maju; tiap transisi menang lewat update kondisional
   (prasyarat status dicek ulang persis sebelum tulis), jadi tick
   periodik dan perintah admin boleh balapan tanpa double-start /
   double-end.
========================================================= */

type StateMachine struct {
	Store  ScheduleStore
	Models ModelAssigner
	Notify Notifier
}

func NewStateMachine(store ScheduleStore, models ModelAssigner, notify Notifier) *StateMachine {
	return &StateMachine{Store: store, Models: models, Notify: notify}
}

/* ===================== scheduled → exam_mode_active ===================== */

// ActivateExamMode: jendela [date_time − lead, date_time) untuk event
// ujian. Dipanggil tick; kalau CAS kalah (status sudah berubah) cukup
// diam — scan berikutnya tidak akan memilih baris ini lagi.
func (m *StateMachine) ActivateExamMode(ctx context.Context, s *scheduleModel.EventScheduleModel, now time.Time) error {
	if s.Event == nil || !s.Event.EventIsExam {
		return nil
	}
	windowOpen := s.EventScheduleDateTime.Add(-s.Event.ExamModeLead())
	if now.Before(windowOpen) || !now.Before(s.EventScheduleDateTime) {
		return nil
	}

	ok, err := m.Store.TransitionStatus(ctx, s.EventScheduleID,
		[]scheduleModel.ScheduleStatus{scheduleModel.ScheduleScheduled},
		scheduleModel.ScheduleExamModeActive,
		map[string]interface{}{"event_schedule_exam_mode_activated_at": now},
	)
	if err != nil {
		return err
	}
	if !ok {
		return nil // path lain sudah memproses
	}

	m.Notify.PublishScheduleEvent(ctx, s.EventScheduleID, eventExamModeStart, map[string]any{
		"starts_at": s.EventScheduleDateTime.Format(time.RFC3339),
	})
	m.pushStudentSnapshots(ctx, s.EventScheduleID)
	return nil
}

/* ===================== scheduled|exam_mode_active → started ===================== */

// AutoStart: flag auto-start efektif + jam mulai sudah lewat + jendela
// durasi belum tutup. Distribusi varian best-effort per student: satu
// student gagal cuma di-log, sisanya dan transisi tetap jalan.
func (m *StateMachine) AutoStart(ctx context.Context, s *scheduleModel.EventScheduleModel, now time.Time) error {
	if s.Event == nil {
		return nil
	}
	if !s.AutoStartEffective() {
		return nil
	}
	if now.Before(s.EventScheduleDateTime) || !now.Before(s.EventScheduleDateTime.Add(s.Event.Duration())) {
		return nil
	}

	ok, err := m.Store.TransitionStatus(ctx, s.EventScheduleID,
		[]scheduleModel.ScheduleStatus{scheduleModel.ScheduleScheduled, scheduleModel.ScheduleExamModeActive},
		scheduleModel.ScheduleStarted,
		map[string]interface{}{"event_schedule_actual_start_at": now},
	)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if s.Event.EventRequiresModels {
		m.assignModelsBestEffort(ctx, s)
	}

	m.Notify.PublishScheduleEvent(ctx, s.EventScheduleID, eventExamAccessGranted, map[string]any{
		"actual_start_at": now.Format(time.RFC3339),
	})
	m.pushStudentSnapshots(ctx, s.EventScheduleID)
	return nil
}

func (m *StateMachine) assignModelsBestEffort(ctx context.Context, s *scheduleModel.EventScheduleModel) {
	students, err := m.Store.UnassignedStudentsOf(ctx, s.EventScheduleID)
	if err != nil {
		log.Printf("[STATE ERROR] ambil student tanpa model %s: %v", s.EventScheduleID, err)
		return
	}
	for _, st := range students {
		modelID, err := m.Models.AssignModel(ctx, s.EventScheduleEventID, st.StudentEventScheduleID)
		if err != nil {
			// student ini dilewati, ditindaklanjuti manual oleh admin
			log.Printf("[STATE ERROR] assign model student %s: %v", st.StudentEventScheduleStudentID, err)
			continue
		}
		m.Notify.PublishScheduleEvent(ctx, s.EventScheduleID, eventExamModelStatus, map[string]any{
			"student_id":    st.StudentEventScheduleStudentID,
			"exam_model_id": modelID,
		})
	}
}

/* ===================== manual start ===================== */

// ManualStart: perintah admin. Jam mulai digeser ke now+1 menit dan
// status dipaksa exam_mode_active; auto-start normal yang menyalakan
// STARTED begitu menitnya lewat. Ditolak kalau status bukan
// scheduled/exam_mode_active.
func (m *StateMachine) ManualStart(ctx context.Context, scheduleID uuid.UUID, now time.Time) (*time.Time, error) {
	s, err := m.Store.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if s.EventScheduleStatus != scheduleModel.ScheduleScheduled &&
		s.EventScheduleStatus != scheduleModel.ScheduleExamModeActive {
		return nil, ErrInvalidState
	}

	newStart := now.Add(time.Minute)
	autoStart := true
	ok, err := m.Store.TransitionStatus(ctx, scheduleID,
		[]scheduleModel.ScheduleStatus{scheduleModel.ScheduleScheduled, scheduleModel.ScheduleExamModeActive},
		scheduleModel.ScheduleExamModeActive,
		map[string]interface{}{
			"event_schedule_date_time":              newStart,
			"event_schedule_auto_start":             autoStart,
			"event_schedule_exam_mode_activated_at": now,
		},
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		// balapan dengan tick/admin lain; prasyarat sudah tidak terpenuhi
		return nil, ErrInvalidState
	}

	m.Notify.PublishScheduleEvent(ctx, scheduleID, eventExamStartingSoon, map[string]any{
		"starts_at": newStart.Format(time.RFC3339),
	})
	m.pushStudentSnapshots(ctx, scheduleID)
	return &newStart, nil
}

/* ===================== started → ended ===================== */

// AutoEnd: durasi habis (dihitung dari actual_start_at).
func (m *StateMachine) AutoEnd(ctx context.Context, s *scheduleModel.EventScheduleModel, now time.Time) error {
	if s.Event == nil || s.EventScheduleActualStartAt == nil {
		return nil
	}
	if now.Before(s.EventScheduleActualStartAt.Add(s.Event.Duration())) {
		return nil
	}
	if err := m.endSchedule(ctx, s.EventScheduleID, now); err != nil {
		if errors.Is(err, ErrInvalidState) {
			return nil // sudah diakhiri path lain
		}
		return err
	}
	return nil
}

// ManualEnd: perintah admin; hanya sah dari STARTED.
func (m *StateMachine) ManualEnd(ctx context.Context, scheduleID uuid.UUID, now time.Time) error {
	s, err := m.Store.FindByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if s.EventScheduleStatus != scheduleModel.ScheduleStarted {
		return ErrInvalidState
	}
	if err := m.endSchedule(ctx, scheduleID, now); err != nil {
		return err
	}
	return nil
}

func (m *StateMachine) endSchedule(ctx context.Context, scheduleID uuid.UUID, now time.Time) error {
	ok, err := m.Store.TransitionStatus(ctx, scheduleID,
		[]scheduleModel.ScheduleStatus{scheduleModel.ScheduleStarted},
		scheduleModel.ScheduleEnded,
		map[string]interface{}{"event_schedule_actual_end_at": now},
	)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}

	m.Notify.PublishScheduleEvent(ctx, scheduleID, eventExamEnd, map[string]any{
		"actual_end_at": now.Format(time.RFC3339),
	})
	m.pushStudentSnapshots(ctx, scheduleID)
	return nil
}

/* ===================== snapshot per student ===================== */

// Tiap transisi juga push status exam-mode terkonsolidasi ke channel
// personal semua student sesi itu (student bisa aktif di beberapa
// sesi sekaligus). Gagal ambil snapshot cuma di-log.
func (m *StateMachine) pushStudentSnapshots(ctx context.Context, scheduleID uuid.UUID) {
	students, err := m.Store.StudentsOf(ctx, scheduleID)
	if err != nil {
		log.Printf("[STATE ERROR] ambil students %s: %v", scheduleID, err)
		return
	}
	for _, st := range students {
		statuses, err := m.Store.StudentExamStatuses(ctx, st.StudentEventScheduleStudentID)
		if err != nil {
			log.Printf("[STATE ERROR] snapshot student %s: %v", st.StudentEventScheduleStudentID, err)
			continue
		}
		m.Notify.PublishStudentStatus(ctx, st.StudentEventScheduleStudentID, statuses)
	}
}
