// internals/features/courses/courses/controller/course_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "labku_backend/internals/helpers"

	courseDTO "labku_backend/internals/features/courses/courses/dto"
	courseModel "labku_backend/internals/features/courses/courses/model"
)

type CourseController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{DB: db, validate: validator.New()}
}

/* =========================================================
   POST /courses  &  GET /courses
========================================================= */
func (ctrl *CourseController) Create(c *fiber.Ctx) error {
	var req courseDTO.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row := courseModel.CourseModel{
		CourseCode:     strings.ToUpper(strings.TrimSpace(req.Code)),
		CourseName:     req.Name,
		CourseNeedsLab: req.NeedsLab,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "Kode course sudah dipakai")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat course")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Course dibuat", row)
}

// kolom yang boleh dipakai sort_by (key → kolom asli)
var courseSortColumns = map[string]string{
	"code":       "course_code",
	"name":       "course_name",
	"created_at": "course_created_at",
}

func (ctrl *CourseController) List(c *fiber.Ctx) error {
	p := helper.ParsePagination(c, "code", "asc")
	order, err := p.SafeOrderClause(courseSortColumns, "code")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Konfigurasi sort tidak valid")
	}

	var rows []courseModel.CourseModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Preload("RequiredSoftwares").
		Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil courses")
	}
	return helper.Success(c, "OK", rows)
}

/* =========================================================
   PUT /courses/:id/required-softwares  (replace-set)
========================================================= */
func (ctrl *CourseController) SetRequiredSoftwares(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req courseDTO.SetRequiredSoftwareRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	err = ctrl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var course courseModel.CourseModel
		if err := tx.
			Select("course_id").
			First(&course, "course_id = ?", courseID).Error; err != nil {
			return err
		}

		if err := tx.
			Where("course_software_course_id = ?", courseID).
			Delete(&courseModel.CourseSoftwareModel{}).Error; err != nil {
			return err
		}

		for _, softwareID := range req.SoftwareIDs {
			row := courseModel.CourseSoftwareModel{
				CourseSoftwareCourseID:   courseID,
				CourseSoftwareSoftwareID: softwareID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal set required software")
	}
	return helper.Success(c, "Required software diperbarui", fiber.Map{"course_id": courseID})
}

/* =========================================================
   POST /courses/:id/enrollments  &  GET /courses/:id/enrollments
========================================================= */
func (ctrl *CourseController) EnrollStudent(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req courseDTO.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var course courseModel.CourseModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Select("course_id").
		First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek course")
	}

	row := courseModel.CourseEnrollmentModel{
		CourseEnrollmentCourseID:  courseID,
		CourseEnrollmentStudentID: req.StudentID,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "Student sudah terdaftar di course ini")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal enroll student")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Student ter-enroll", row)
}

func (ctrl *CourseController) ListEnrollments(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var rows []courseModel.CourseEnrollmentModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("course_enrollment_course_id = ?", courseID).
		Order("course_enrollment_created_at ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil enrollment")
	}
	return helper.Success(c, "OK", fiber.Map{
		"course_id":   courseID,
		"total":       len(rows),
		"enrollments": rows,
	})
}

/* ========== small helpers ========== */

// Deteksi unique violation Postgres (kode "23505")
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "23505")
}
