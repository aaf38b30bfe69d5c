// internals/features/exams/schedules/controller/schedule_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "labku_backend/internals/helpers"

	distService "labku_backend/internals/features/exams/distribution/service"
	notifService "labku_backend/internals/features/exams/notifications/service"
	scheduleDTO "labku_backend/internals/features/exams/schedules/dto"
	scheduleModel "labku_backend/internals/features/exams/schedules/model"
	"labku_backend/internals/features/exams/schedules/repository"
	scheduleService "labku_backend/internals/features/exams/schedules/service"
)

type ScheduleController struct {
	DB          *gorm.DB
	Machine     *scheduleService.StateMachine
	Distributor *distService.DistributionService

	validate *validator.Validate
}

func NewScheduleController(db *gorm.DB, machine *scheduleService.StateMachine, distributor *distService.DistributionService) *ScheduleController {
	return &ScheduleController{
		DB:          db,
		Machine:     machine,
		Distributor: distributor,
		validate:    validator.New(),
	}
}

// kolom yang boleh dipakai sort_by (key → kolom asli)
var scheduleSortColumns = map[string]string{
	"date_time":  "event_schedule_date_time",
	"status":     "event_schedule_status",
	"created_at": "event_schedule_created_at",
}

/* =========================================================
   GET /exam-schedules?event_id=&status=&page=&per_page=
========================================================= */
func (ctrl *ScheduleController) List(c *fiber.Ctx) error {
	p := helper.ParsePagination(c, "date_time", "asc")
	order, err := p.SafeOrderClause(scheduleSortColumns, "date_time")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Konfigurasi sort tidak valid")
	}

	q := ctrl.DB.WithContext(c.UserContext()).Model(&scheduleModel.EventScheduleModel{})

	if raw := strings.TrimSpace(c.Query("event_id")); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "event_id tidak valid")
		}
		q = q.Where("event_schedule_event_id = ?", eventID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("event_schedule_status = ?", status)
	}

	var rows []scheduleModel.EventScheduleModel
	if err := q.
		Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil jadwal")
	}

	out := make([]scheduleDTO.ScheduleResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, scheduleDTO.FromModel(r))
	}
	return helper.Success(c, "OK", out)
}

/* =========================================================
   GET /exam-schedules/:id  (jadwal + baris student)
========================================================= */
func (ctrl *ScheduleController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var row scheduleModel.EventScheduleModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Preload("Event").
		First(&row, "event_schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil jadwal")
	}

	var students []scheduleModel.StudentEventScheduleModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("student_event_schedule_schedule_id = ?", id).
		Find(&students).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil students")
	}

	return helper.Success(c, "OK", fiber.Map{
		"schedule": scheduleDTO.FromModel(row),
		"students": students,
	})
}

/* =========================================================
   PATCH /exam-schedules/:id  (edit admin; kapasitas TIDAK
   dihitung ulang otomatis — cap tetap sampai diedit manual)
========================================================= */
func (ctrl *ScheduleController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req scheduleDTO.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	patch := map[string]interface{}{}
	if req.DateTime != nil {
		patch["event_schedule_date_time"] = *req.DateTime
	}
	if req.MaxStudents != nil {
		patch["event_schedule_max_students"] = *req.MaxStudents
	}
	if req.AutoStart != nil {
		patch["event_schedule_auto_start"] = *req.AutoStart
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	// sesi ended terminal, tidak bisa diedit lagi
	res := ctrl.DB.WithContext(c.UserContext()).
		Model(&scheduleModel.EventScheduleModel{}).
		Where("event_schedule_id = ? AND event_schedule_status <> ?", id, scheduleModel.ScheduleEnded).
		Updates(patch)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal update jadwal")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "Jadwal tidak ditemukan atau sudah ended")
	}
	return helper.Success(c, "Jadwal diperbarui", fiber.Map{"schedule_id": id})
}

/* =========================================================
   POST /exam-schedules/:id/start  (manual start admin)
========================================================= */
func (ctrl *ScheduleController) ManualStart(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	newStart, err := ctrl.Machine.ManualStart(c.UserContext(), id, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrScheduleNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		case errors.Is(err, scheduleService.ErrInvalidState):
			return fiber.NewError(fiber.StatusConflict, "Jadwal tidak bisa dimulai dari status sekarang")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memulai jadwal")
		}
	}

	return helper.Success(c, "Jadwal akan dimulai", fiber.Map{
		"schedule_id": id,
		"starts_at":   newStart.Format(time.RFC3339),
	})
}

/* =========================================================
   POST /exam-schedules/:id/end  (manual end admin)
========================================================= */
func (ctrl *ScheduleController) ManualEnd(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	if err := ctrl.Machine.ManualEnd(c.UserContext(), id, time.Now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrScheduleNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		case errors.Is(err, scheduleService.ErrInvalidState):
			return fiber.NewError(fiber.StatusConflict, "Jadwal hanya bisa diakhiri dari status started")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengakhiri jadwal")
		}
	}
	return helper.Success(c, "Jadwal diakhiri", fiber.Map{"schedule_id": id})
}

/* =========================================================
   POST /exam-schedules/:id/students
   Insert baris student + naikkan enrolled count di transaksi
   yang sama (invariant: enrolled == jumlah baris).
========================================================= */
func (ctrl *ScheduleController) AddStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req scheduleDTO.AddStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row := scheduleModel.StudentEventScheduleModel{
		StudentEventScheduleScheduleID: id,
		StudentEventScheduleStudentID:  req.StudentID,
	}

	err = ctrl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		// Reservasi kursi duluan: increment + guard kapasitas dalam
		// satu UPDATE kondisional, baru insert barisnya. Kalau insert
		// gagal, rollback ikut membatalkan incrementnya.
		ok, err := repository.NewScheduleRepository(tx).ReserveSeat(c.UserContext(), id)
		if err != nil {
			return err
		}
		if !ok {
			// bedakan: tidak ada / ended / penuh
			var sched scheduleModel.EventScheduleModel
			if err := tx.
				Select("event_schedule_status").
				First(&sched, "event_schedule_id = ?", id).Error; err != nil {
				return err
			}
			if sched.EventScheduleStatus == scheduleModel.ScheduleEnded {
				return scheduleService.ErrInvalidState
			}
			return errScheduleFull
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		case errors.Is(err, scheduleService.ErrInvalidState):
			return fiber.NewError(fiber.StatusConflict, "Jadwal sudah ended")
		case errors.Is(err, errScheduleFull):
			return fiber.NewError(fiber.StatusConflict, "Kapasitas jadwal penuh")
		case isUniqueViolation(err):
			return fiber.NewError(fiber.StatusConflict, "Student sudah terdaftar di jadwal ini")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menambah student")
		}
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Student ditambahkan", row)
}

/* =========================================================
   DELETE /exam-schedules/:id/students/:student_id
   (removal eksplisit — satu-satunya jalur penghapusan baris)
========================================================= */
func (ctrl *ScheduleController) RemoveStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("student_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "student_id tidak valid")
	}

	err = ctrl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("student_event_schedule_schedule_id = ? AND student_event_schedule_student_id = ?", id, studentID).
			Delete(&scheduleModel.StudentEventScheduleModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return repository.NewScheduleRepository(tx).ReleaseSeat(c.UserContext(), id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Student tidak terdaftar di jadwal ini")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus student")
	}
	return helper.Success(c, "Student dihapus dari jadwal", fiber.Map{
		"schedule_id": id,
		"student_id":  studentID,
	})
}

/* =========================================================
   POST /exam-schedules/:id/students/:student_id/exam-model
   Tindak lanjut manual untuk student yang gagal dapat model
   saat auto-start.
========================================================= */
func (ctrl *ScheduleController) AssignModelManually(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("student_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "student_id tidak valid")
	}

	var sched scheduleModel.EventScheduleModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		First(&sched, "event_schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Jadwal tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil jadwal")
	}

	var row scheduleModel.StudentEventScheduleModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		First(&row, "student_event_schedule_schedule_id = ? AND student_event_schedule_student_id = ?", id, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Student tidak terdaftar di jadwal ini")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil student")
	}

	modelID, err := ctrl.Distributor.AssignModel(c.UserContext(), sched.EventScheduleEventID, row.StudentEventScheduleID)
	if err != nil {
		switch {
		case errors.Is(err, distService.ErrAlreadyAssigned):
			return fiber.NewError(fiber.StatusConflict, "Student sudah punya exam model")
		case errors.Is(err, distService.ErrNoModelsAvailable):
			return fiber.NewError(fiber.StatusConflict, "Event belum punya exam model")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal assign exam model")
		}
	}

	ctrl.Machine.Notify.PublishScheduleEvent(c.UserContext(), id, notifService.EventExamModelStatus, map[string]any{
		"student_id":    studentID,
		"exam_model_id": modelID,
	})

	return helper.Success(c, "Exam model diberikan", fiber.Map{
		"schedule_id":   id,
		"student_id":    studentID,
		"exam_model_id": modelID,
	})
}

/* ========== small helpers ========== */

var errScheduleFull = errors.New("kapasitas jadwal penuh")

// Deteksi unique violation Postgres (kode "23505")
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "23505")
}
