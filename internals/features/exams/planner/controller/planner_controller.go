// internals/features/exams/planner/controller/planner_controller.go
package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "labku_backend/internals/helpers"

	courseModel "labku_backend/internals/features/courses/courses/model"
	eventModel "labku_backend/internals/features/exams/events/model"
	plannerDTO "labku_backend/internals/features/exams/planner/dto"
	plannerService "labku_backend/internals/features/exams/planner/service"
	scheduleModel "labku_backend/internals/features/exams/schedules/model"
	capacityService "labku_backend/internals/features/labs/capacity/service"
)

type PlannerController struct {
	DB       *gorm.DB
	Capacity *capacityService.CapacityService

	validate *validator.Validate
}

func NewPlannerController(db *gorm.DB, capacity *capacityService.CapacityService) *PlannerController {
	return &PlannerController{DB: db, Capacity: capacity, validate: validator.New()}
}

/* =========================================================
   POST /exam-events/:event_id/group-plan
   Replay daftar proposal → plan (uncovered, over-capacity,
   can_create_event). Tidak menulis apa pun.
========================================================= */
func (ctrl *PlannerController) PreviewPlan(c *fiber.Ctx) error {
	event, req, err := ctrl.parsePlanRequest(c)
	if err != nil {
		return err
	}

	total, err := ctrl.countEnrolled(c.UserContext(), event.EventCourseID)
	if err != nil {
		return err
	}
	proposals, err := ctrl.resolveProposals(c.UserContext(), event, req)
	if err != nil {
		return err
	}

	return helper.Success(c, "OK", plannerService.BuildPlan(total, proposals))
}

/* =========================================================
   POST /exam-events/:event_id/group-plan/commit
   Materialisasi plan: exam_groups + event_schedules + distribusi
   student course ke tiap jadwal — satu transaksi, invariant
   enrolled == jumlah baris student dijaga di sini.
========================================================= */
func (ctrl *PlannerController) CommitPlan(c *fiber.Ctx) error {
	event, req, err := ctrl.parsePlanRequest(c)
	if err != nil {
		return err
	}

	// Satu snapshot enrollment untuk plan DAN pembagian member:
	// total diambil dari panjang daftar yang sama, bukan COUNT
	// terpisah yang bisa bergeser di antara dua query.
	studentIDs, err := ctrl.listEnrolledStudents(c.UserContext(), event.EventCourseID)
	if err != nil {
		return err
	}

	proposals, err := ctrl.resolveProposals(c.UserContext(), event, req)
	if err != nil {
		return err
	}

	plan := plannerService.BuildPlan(len(studentIDs), proposals)
	if !plan.CanCreateEvent {
		return fiber.NewError(fiber.StatusConflict, "Masih ada student yang belum tercover oleh group")
	}
	memberSets := plannerService.SplitStudents(studentIDs, plan.Groups)

	var createdSchedules []uuid.UUID
	err = ctrl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		for gi, g := range plan.Groups {
			group := eventModel.ExamGroupModel{
				ExamGroupEventID:              event.EventID,
				ExamGroupIndex:                g.Index,
				ExamGroupExpectedStudentCount: g.EffectiveStudents,
			}
			if err := tx.Create(&group).Error; err != nil {
				return err
			}

			sched := scheduleModel.EventScheduleModel{
				EventScheduleEventID:     event.EventID,
				EventScheduleLabID:       g.LabID,
				EventScheduleExamGroupID: &group.ExamGroupID,
				EventScheduleDateTime:    g.StartTime,
				EventScheduleMaxStudents: g.Capacity,
				EventScheduleStatus:      scheduleModel.ScheduleScheduled,
			}
			if err := tx.Create(&sched).Error; err != nil {
				return err
			}

			members := memberSets[gi]

			for _, studentID := range members {
				row := scheduleModel.StudentEventScheduleModel{
					StudentEventScheduleScheduleID: sched.EventScheduleID,
					StudentEventScheduleStudentID:  studentID,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}

			// enrolled == jumlah baris yang barusan dibuat
			if err := tx.Model(&scheduleModel.EventScheduleModel{}).
				Where("event_schedule_id = ?", sched.EventScheduleID).
				UpdateColumn("event_schedule_enrolled_students", len(members)).Error; err != nil {
				return err
			}
			if err := tx.Model(&eventModel.ExamGroupModel{}).
				Where("exam_group_id = ?", group.ExamGroupID).
				UpdateColumn("exam_group_actual_student_count", len(members)).Error; err != nil {
				return err
			}

			createdSchedules = append(createdSchedules, sched.EventScheduleID)
		}
		return nil
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat jadwal dari plan")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Jadwal ujian dibuat", fiber.Map{
		"plan":         plan,
		"schedule_ids": createdSchedules,
	})
}

/* ========== internal ========== */

func (ctrl *PlannerController) parsePlanRequest(c *fiber.Ctx) (*eventModel.EventModel, *plannerDTO.PlanRequest, error) {
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("event_id")))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "event_id tidak valid")
	}

	var event eventModel.EventModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		First(&event, "event_id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "Event tidak ditemukan")
		}
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil event")
	}

	var req plannerDTO.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return nil, nil, helper.ValidationError(c, err)
	}
	return &event, &req, nil
}

// countEnrolled: snapshot jumlah enrollment course (untuk preview).
func (ctrl *PlannerController) countEnrolled(ctx context.Context, courseID uuid.UUID) (int, error) {
	var total int64
	if err := ctrl.DB.WithContext(ctx).
		Model(&courseModel.CourseEnrollmentModel{}).
		Where("course_enrollment_course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Gagal hitung enrollment")
	}
	return int(total), nil
}

// listEnrolledStudents: snapshot student terdaftar, urutan
// deterministik → pembagian per group reproducible.
func (ctrl *PlannerController) listEnrolledStudents(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var studentIDs []uuid.UUID
	if err := ctrl.DB.WithContext(ctx).
		Model(&courseModel.CourseEnrollmentModel{}).
		Where("course_enrollment_course_id = ?", courseID).
		Order("course_enrollment_created_at ASC").
		Pluck("course_enrollment_student_id", &studentIDs).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil enrollment")
	}
	return studentIDs, nil
}

// resolveProposals: resolve kapasitas tiap lab lewat Capacity
// Calculator (selalu hitung ulang, tidak di-cache).
func (ctrl *PlannerController) resolveProposals(ctx context.Context, event *eventModel.EventModel, req *plannerDTO.PlanRequest) ([]plannerService.GroupProposal, error) {
	proposals := make([]plannerService.GroupProposal, 0, len(req.Groups))
	for _, g := range req.Groups {
		computed, err := ctrl.Capacity.ComputeLabCapacity(ctx, g.LabID, event.EventCourseID)
		if err != nil {
			switch {
			case errors.Is(err, capacityService.ErrLabNotFound):
				return nil, fiber.NewError(fiber.StatusNotFound, "Lab tidak ditemukan")
			case errors.Is(err, capacityService.ErrCourseNotFound):
				return nil, fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
			default:
				return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal hitung kapasitas lab")
			}
		}
		proposals = append(proposals, plannerService.GroupProposal{
			LabID:             g.LabID,
			StartTime:         g.StartTime,
			RequestedCapacity: g.RequestedCapacity,
			ComputedCapacity:  computed,
		})
	}
	return proposals, nil
}
