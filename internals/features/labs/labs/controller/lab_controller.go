// internals/features/labs/labs/controller/lab_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "labku_backend/internals/helpers"

	capacityService "labku_backend/internals/features/labs/capacity/service"
	labDTO "labku_backend/internals/features/labs/labs/dto"
	labModel "labku_backend/internals/features/labs/labs/model"
)

type LabController struct {
	DB       *gorm.DB
	Capacity *capacityService.CapacityService

	validate *validator.Validate
}

func NewLabController(db *gorm.DB, capacity *capacityService.CapacityService) *LabController {
	return &LabController{DB: db, Capacity: capacity, validate: validator.New()}
}

/* =========================================================
   POST /labs  &  GET /labs
========================================================= */
func (ctrl *LabController) Create(c *fiber.Ctx) error {
	var req labDTO.CreateLabRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row := labModel.LabModel{
		LabName:     req.Name,
		LabLocation: req.Location,
		LabFeatures: req.Features,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat lab")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Lab dibuat", row)
}

// kolom yang boleh dipakai sort_by (key → kolom asli)
var labSortColumns = map[string]string{
	"name":       "lab_name",
	"location":   "lab_location",
	"created_at": "lab_created_at",
}

func (ctrl *LabController) List(c *fiber.Ctx) error {
	p := helper.ParsePagination(c, "name", "asc")
	order, err := p.SafeOrderClause(labSortColumns, "name")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Konfigurasi sort tidak valid")
	}

	var rows []labModel.LabModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil labs")
	}
	return helper.Success(c, "OK", rows)
}

/* =========================================================
   GET /labs/:id  (lab + devices + software terpasang)
========================================================= */
func (ctrl *LabController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var row labModel.LabModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Preload("Devices").
		Preload("Devices.Softwares").
		Preload("Devices.Softwares.Software").
		First(&row, "lab_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Lab tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil lab")
	}
	return helper.Success(c, "OK", row)
}

/* =========================================================
   GET /labs/:id/capacity?course_id=
   Kapasitas dihitung on-demand — TIDAK di-cache, inventaris
   bisa berubah antar panggilan.
========================================================= */
func (ctrl *LabController) GetCapacity(c *fiber.Ctx) error {
	labID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}
	courseID, err := uuid.Parse(strings.TrimSpace(c.Query("course_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "course_id tidak valid")
	}

	capacity, err := ctrl.Capacity.ComputeLabCapacity(c.UserContext(), labID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, capacityService.ErrLabNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Lab tidak ditemukan")
		case errors.Is(err, capacityService.ErrCourseNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Course tidak ditemukan")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal hitung kapasitas")
		}
	}

	return helper.Success(c, "OK", fiber.Map{
		"lab_id":    labID,
		"course_id": courseID,
		"capacity":  capacity,
	})
}

/* =========================================================
   POST /labs/:id/devices
========================================================= */
func (ctrl *LabController) CreateDevice(c *fiber.Ctx) error {
	labID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id tidak valid")
	}

	var req labDTO.CreateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var lab labModel.LabModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Select("lab_id").
		First(&lab, "lab_id = ?", labID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Lab tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal cek lab")
	}

	status := req.Status
	if status == "" {
		status = labModel.DeviceAvailable
	}
	row := labModel.DeviceModel{
		DeviceLabID:  labID,
		DeviceName:   req.Name,
		DeviceStatus: status,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat device")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Device dibuat", row)
}

/* =========================================================
   PATCH /devices/:device_id
========================================================= */
func (ctrl *LabController) UpdateDevice(c *fiber.Ctx) error {
	deviceID, err := uuid.Parse(strings.TrimSpace(c.Params("device_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "device_id tidak valid")
	}

	var req labDTO.UpdateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["device_name"] = *req.Name
	}
	if req.Status != nil {
		patch["device_status"] = *req.Status
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	res := ctrl.DB.WithContext(c.UserContext()).
		Model(&labModel.DeviceModel{}).
		Where("device_id = ?", deviceID).
		Updates(patch)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal update device")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Device tidak ditemukan")
	}
	return helper.Success(c, "Device diperbarui", fiber.Map{"device_id": deviceID})
}

/* =========================================================
   PUT /devices/:device_id/softwares  (replace-set)
========================================================= */
func (ctrl *LabController) SetDeviceSoftwares(c *fiber.Ctx) error {
	deviceID, err := uuid.Parse(strings.TrimSpace(c.Params("device_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "device_id tidak valid")
	}

	var req labDTO.SetDeviceSoftwareRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	err = ctrl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var device labModel.DeviceModel
		if err := tx.
			Select("device_id").
			First(&device, "device_id = ?", deviceID).Error; err != nil {
			return err
		}

		if err := tx.
			Where("device_software_device_id = ?", deviceID).
			Delete(&labModel.DeviceSoftwareModel{}).Error; err != nil {
			return err
		}

		for _, entry := range req.Softwares {
			status := entry.Status
			if status == "" {
				status = labModel.DeviceSoftwareAvailable
			}
			row := labModel.DeviceSoftwareModel{
				DeviceSoftwareDeviceID:   deviceID,
				DeviceSoftwareSoftwareID: entry.SoftwareID,
				DeviceSoftwareStatus:     status,
				DeviceSoftwareHasIssue:   entry.HasIssue,
				DeviceSoftwareIssue:      entry.Issue,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Device tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal set software device")
	}
	return helper.Success(c, "Software device diperbarui", fiber.Map{"device_id": deviceID})
}

/* =========================================================
   POST /softwares  &  GET /softwares
========================================================= */
func (ctrl *LabController) CreateSoftware(c *fiber.Ctx) error {
	var req labDTO.CreateSoftwareRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row := labModel.SoftwareModel{
		SoftwareName:    req.Name,
		SoftwareVersion: req.Version,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat software")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Software dibuat", row)
}

// kolom yang boleh dipakai sort_by (key → kolom asli)
var softwareSortColumns = map[string]string{
	"name":       "software_name",
	"version":    "software_version",
	"created_at": "software_created_at",
}

func (ctrl *LabController) ListSoftwares(c *fiber.Ctx) error {
	p := helper.ParsePagination(c, "name", "asc")
	order, err := p.SafeOrderClause(softwareSortColumns, "name")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Konfigurasi sort tidak valid")
	}

	var rows []labModel.SoftwareModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal ambil softwares")
	}
	return helper.Success(c, "OK", rows)
}
