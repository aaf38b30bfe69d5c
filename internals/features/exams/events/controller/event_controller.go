// internals/features/exams/events/controller/event_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	helper "labku_backend/internals/helpers"

	courseModel "labku_backend/internals/features/courses/courses/model"
	eventDTO "labku_backend/internals/features/exams/events/dto"
	eventModel "labku_backend/internals/features/exams/events/model"
)

type EventController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db, validate: validator.New()}
}

/* =========================================================
   POST /exam-events
========================================================= */
func (ctrl *EventController) Create(c *fiber.Ctx) error {
	var req eventDTO.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// course harus ada (fakta read-only dari modul course)
	var course courseModel.CourseModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Select("course_id").
		First(&course, "course_id = ?", req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek course")
	}

	row := eventModel.EventModel{
		EventCourseID:             req.CourseID,
		EventName:                 req.Name,
		EventDurationMinutes:      req.DurationMinutes,
		EventIsExam:               req.IsExam,
		EventAutoStart:            req.AutoStart,
		EventExamModeStartMinutes: req.ExamModeStartMinutes,
		EventRequiresModels:       req.RequiresModels,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat event")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Event dibuat", row)
}

// kolom yang boleh dipakai sort_by (key → kolom asli)
var eventSortColumns = map[string]string{
	"created_at": "event_created_at",
	"name":       "event_name",
}

/* =========================================================
   GET /exam-events?course_id=
========================================================= */
func (ctrl *EventController) List(c *fiber.Ctx) error {
	p := helper.ParsePagination(c, "created_at", "desc")
	order, err := p.SafeOrderClause(eventSortColumns, "created_at")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Konfigurasi sort tidak valid")
	}

	q := ctrl.DB.WithContext(c.UserContext()).Model(&eventModel.EventModel{})
	if raw := strings.TrimSpace(c.Query("course_id")); raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "course_id tidak valid")
		}
		q = q.Where("event_course_id = ?", courseID)
	}

	var rows []eventModel.EventModel
	if err := q.
		Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil events")
	}
	return helper.Success(c, "OK", rows)
}

/* =========================================================
   PATCH /exam-events/:id
========================================================= */
func (ctrl *EventController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req eventDTO.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["event_name"] = *req.Name
	}
	if req.DurationMinutes != nil {
		patch["event_duration_minutes"] = *req.DurationMinutes
	}
	if req.AutoStart != nil {
		patch["event_auto_start"] = *req.AutoStart
	}
	if req.ExamModeStartMinutes != nil {
		patch["event_exam_mode_start_minutes"] = *req.ExamModeStartMinutes
	}
	if req.RequiresModels != nil {
		patch["event_requires_models"] = *req.RequiresModels
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	res := ctrl.DB.WithContext(c.UserContext()).
		Model(&eventModel.EventModel{}).
		Where("event_id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal update event")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Event tidak ditemukan")
	}
	return helper.Success(c, "Event diperbarui", fiber.Map{"event_id": id})
}

/* =========================================================
   POST /exam-events/:id/models  &  GET /exam-events/:id/models
========================================================= */
func (ctrl *EventController) CreateExamModel(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req eventDTO.CreateExamModelRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var event eventModel.EventModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Select("event_id").
		First(&event, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek event")
	}

	row := eventModel.ExamModelModel{
		ExamModelEventID:  eventID,
		ExamModelName:     req.Name,
		ExamModelVersion:  req.Version,
		ExamModelFileURLs: pq.StringArray(req.FileURLs),
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat exam model")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Exam model dibuat", row)
}

func (ctrl *EventController) ListExamModels(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var rows []eventModel.ExamModelModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("exam_model_event_id = ?", eventID).
		Order("exam_model_name ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil exam models")
	}
	return helper.Success(c, "OK", rows)
}
