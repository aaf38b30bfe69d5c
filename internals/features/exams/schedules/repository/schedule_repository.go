// internals/features/exams/schedules/repository/schedule_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	scheduleDTO "labku_backend/internals/features/exams/schedules/dto"
	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

var ErrScheduleNotFound = errors.New("jadwal tidak ditemukan")

// ScheduleRepository: semua akses baris event_schedules /
// student_event_schedules milik engine. Query scan membawa filter
// status + jendela waktu di WHERE-nya sendiri — kunci idempotensi
// tick (re-run di data sama = nol transisi tambahan).
type ScheduleRepository struct {
	DB *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduleModel.EventScheduleModel, error) {
	var row scheduleModel.EventScheduleModel
	if err := r.DB.WithContext(ctx).
		Preload("Event").
		First(&row, "event_schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &row, nil
}

/* =========================================================
   Scan queries (dipakai reconciliation tick)
========================================================= */

// DueForExamMode: sesi scheduled milik event ujian yang jendela
// aktivasinya sudah terbuka: now ∈ [date_time − lead, date_time).
func (r *ScheduleRepository) DueForExamMode(ctx context.Context, now time.Time) ([]scheduleModel.EventScheduleModel, error) {
	var rows []scheduleModel.EventScheduleModel
	err := r.DB.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.event_id = event_schedules.event_schedule_event_id AND events.event_deleted_at IS NULL").
		Where("event_schedules.event_schedule_status = ?", scheduleModel.ScheduleScheduled).
		Where("events.event_is_exam = TRUE").
		Where("event_schedules.event_schedule_date_time > ?", now).
		Where("event_schedules.event_schedule_date_time - make_interval(mins => events.event_exam_mode_start_minutes) <= ?", now).
		Find(&rows).Error
	return rows, err
}

// DueForAutoStart: sesi scheduled/exam_mode_active ber-auto-start
// yang jam mulainya sudah lewat tapi jendela durasinya belum tutup.
func (r *ScheduleRepository) DueForAutoStart(ctx context.Context, now time.Time) ([]scheduleModel.EventScheduleModel, error) {
	var rows []scheduleModel.EventScheduleModel
	err := r.DB.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.event_id = event_schedules.event_schedule_event_id AND events.event_deleted_at IS NULL").
		Where("event_schedules.event_schedule_status IN ?", []scheduleModel.ScheduleStatus{
			scheduleModel.ScheduleScheduled, scheduleModel.ScheduleExamModeActive,
		}).
		Where("COALESCE(event_schedules.event_schedule_auto_start, events.event_auto_start) = TRUE").
		Where("event_schedules.event_schedule_date_time <= ?", now).
		Where("event_schedules.event_schedule_date_time + make_interval(mins => events.event_duration_minutes) > ?", now).
		Find(&rows).Error
	return rows, err
}

// DueForAutoEnd: sesi started yang durasinya sudah habis
// (dihitung dari actual_start_at, bukan jam terjadwal).
func (r *ScheduleRepository) DueForAutoEnd(ctx context.Context, now time.Time) ([]scheduleModel.EventScheduleModel, error) {
	var rows []scheduleModel.EventScheduleModel
	err := r.DB.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.event_id = event_schedules.event_schedule_event_id AND events.event_deleted_at IS NULL").
		Where("event_schedules.event_schedule_status = ?", scheduleModel.ScheduleStarted).
		Where("event_schedules.event_schedule_actual_start_at IS NOT NULL").
		Where("event_schedules.event_schedule_actual_start_at + make_interval(mins => events.event_duration_minutes) <= ?", now).
		Find(&rows).Error
	return rows, err
}

/* =========================================================
   Transisi status
========================================================= */

// TransitionStatus: update kondisional — cuma jalan bila status
// sekarang masih salah satu prasyarat. RowsAffected == 0 berarti
// path lain (tick / perintah admin) sudah menang duluan.
func (r *ScheduleRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from []scheduleModel.ScheduleStatus,
	to scheduleModel.ScheduleStatus,
	patch map[string]interface{},
) (bool, error) {
	if patch == nil {
		patch = map[string]interface{}{}
	}
	patch["event_schedule_status"] = to
	patch["event_schedule_updated_at"] = time.Now()

	res := r.DB.WithContext(ctx).
		Model(&scheduleModel.EventScheduleModel{}).
		Where("event_schedule_id = ? AND event_schedule_status IN ?", id, from).
		Updates(patch)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

/* =========================================================
   Baris student
========================================================= */

func (r *ScheduleRepository) StudentsOf(ctx context.Context, scheduleID uuid.UUID) ([]scheduleModel.StudentEventScheduleModel, error) {
	var rows []scheduleModel.StudentEventScheduleModel
	err := r.DB.WithContext(ctx).
		Where("student_event_schedule_schedule_id = ?", scheduleID).
		Find(&rows).Error
	return rows, err
}

func (r *ScheduleRepository) UnassignedStudentsOf(ctx context.Context, scheduleID uuid.UUID) ([]scheduleModel.StudentEventScheduleModel, error) {
	var rows []scheduleModel.StudentEventScheduleModel
	err := r.DB.WithContext(ctx).
		Where("student_event_schedule_schedule_id = ? AND student_event_schedule_exam_model_id IS NULL", scheduleID).
		Find(&rows).Error
	return rows, err
}

// StudentExamStatuses: snapshot terkonsolidasi semua sesi non-ended
// milik satu student (bahan push channel personal).
func (r *ScheduleRepository) StudentExamStatuses(ctx context.Context, studentID uuid.UUID) ([]scheduleDTO.StudentExamStatus, error) {
	var rows []scheduleDTO.StudentExamStatus
	err := r.DB.WithContext(ctx).
		Table("student_event_schedules").
		Select(`
			event_schedules.event_schedule_id       AS schedule_id,
			event_schedules.event_schedule_event_id AS event_id,
			event_schedules.event_schedule_status   AS status,
			event_schedules.event_schedule_date_time AS date_time,
			event_schedules.event_schedule_actual_start_at AS actual_start_at
		`).
		Joins("JOIN event_schedules ON event_schedules.event_schedule_id = student_event_schedules.student_event_schedule_schedule_id AND event_schedules.event_schedule_deleted_at IS NULL").
		Where("student_event_schedules.student_event_schedule_student_id = ?", studentID).
		Where("student_event_schedules.student_event_schedule_deleted_at IS NULL").
		Where("event_schedules.event_schedule_status <> ?", scheduleModel.ScheduleEnded).
		Order("event_schedules.event_schedule_date_time ASC").
		Scan(&rows).Error
	return rows, err
}

/* =========================================================
   Kursi (enrolled counter)
========================================================= */

// seatAvailable: sesi belum ended dan kapasitas masih tersisa
// (max <= 0 = tanpa batas).
func seatAvailable(db *gorm.DB) *gorm.DB {
	return db.
		Where("event_schedule_status <> ?", scheduleModel.ScheduleEnded).
		Where("event_schedule_max_students <= 0 OR event_schedule_enrolled_students < event_schedule_max_students")
}

// ReserveSeat menaikkan enrolled counter dalam satu UPDATE
// kondisional. Guard kapasitasnya ikut di WHERE, jadi dua request
// paralel tidak bisa sama-sama lolos melewati max_students.
// false = tidak ada kursi (penuh / ended / tidak ada barisnya).
func (r *ScheduleRepository) ReserveSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&scheduleModel.EventScheduleModel{}).
		Scopes(seatAvailable).
		Where("event_schedule_id = ?", id).
		UpdateColumn("event_schedule_enrolled_students", gorm.Expr("event_schedule_enrolled_students + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReleaseSeat menurunkan enrolled counter, clamp di nol.
func (r *ScheduleRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Model(&scheduleModel.EventScheduleModel{}).
		Where("event_schedule_id = ?", id).
		UpdateColumn("event_schedule_enrolled_students", gorm.Expr("GREATEST(event_schedule_enrolled_students - 1, 0)")).Error
}
