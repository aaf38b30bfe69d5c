// internals/features/labs/capacity/service/capacity_service.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "labku_backend/internals/features/courses/courses/model"
	labModel "labku_backend/internals/features/labs/labs/model"
)

var (
	ErrLabNotFound    = errors.New("lab tidak ditemukan")
	ErrCourseNotFound = errors.New("course tidak ditemukan")
)

/* =========================================================
   Pure core — hitungan di atas snapshot eager-loaded,
   bisa diuji tanpa database.
========================================================= */

type SoftwareFacts struct {
	SoftwareID uuid.UUID
	Status     labModel.DeviceSoftwareStatus
	HasIssue   bool
}

type DeviceFacts struct {
	Status    labModel.DeviceStatus
	Softwares []SoftwareFacts
}

// CountUsableDevices: device kepake kalau status available dan,
// saat required-set tidak kosong, SEMUA software wajib terpasang
// dengan status available tanpa issue. Required-set kosong →
// cukup hitung device available.
func CountUsableDevices(devices []DeviceFacts, requiredSoftwareIDs []uuid.UUID) int {
	count := 0
	for _, d := range devices {
		if d.Status != labModel.DeviceAvailable {
			continue
		}
		if deviceHasAllSoftware(d, requiredSoftwareIDs) {
			count++
		}
	}
	return count
}

func deviceHasAllSoftware(d DeviceFacts, required []uuid.UUID) bool {
	for _, softwareID := range required {
		found := false
		for _, sw := range d.Softwares {
			if sw.SoftwareID != softwareID {
				continue
			}
			if sw.Status == labModel.DeviceSoftwareAvailable && !sw.HasIssue {
				found = true
			}
			break
		}
		if !found {
			return false
		}
	}
	return true
}

/* =========================================================
   Service — load fakta inventaris lalu panggil pure core.
   Hasil TIDAK boleh di-cache oleh caller (inventaris bisa
   berubah antar panggilan).
========================================================= */

type CapacityService struct {
	DB *gorm.DB
}

func NewCapacityService(db *gorm.DB) *CapacityService {
	return &CapacityService{DB: db}
}

// ComputeLabCapacity: kapasitas lab untuk satu course =
// jumlah device yang available + lengkap software wajibnya.
func (s *CapacityService) ComputeLabCapacity(ctx context.Context, labID, courseID uuid.UUID) (int, error) {
	requiredIDs, err := s.requiredSoftwareIDs(ctx, courseID)
	if err != nil {
		return 0, err
	}

	devices, err := s.loadDeviceFacts(ctx, labID)
	if err != nil {
		return 0, err
	}

	return CountUsableDevices(devices, requiredIDs), nil
}

func (s *CapacityService) requiredSoftwareIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var course courseModel.CourseModel
	if err := s.DB.WithContext(ctx).
		Select("course_id").
		First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var ids []uuid.UUID
	if err := s.DB.WithContext(ctx).
		Model(&courseModel.CourseSoftwareModel{}).
		Where("course_software_course_id = ?", courseID).
		Pluck("course_software_software_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *CapacityService) loadDeviceFacts(ctx context.Context, labID uuid.UUID) ([]DeviceFacts, error) {
	var lab labModel.LabModel
	if err := s.DB.WithContext(ctx).
		Select("lab_id").
		First(&lab, "lab_id = ?", labID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabNotFound
		}
		return nil, err
	}

	var devices []labModel.DeviceModel
	if err := s.DB.WithContext(ctx).
		Preload("Softwares").
		Where("device_lab_id = ?", labID).
		Find(&devices).Error; err != nil {
		return nil, err
	}

	facts := make([]DeviceFacts, 0, len(devices))
	for _, d := range devices {
		f := DeviceFacts{Status: d.DeviceStatus}
		for _, sw := range d.Softwares {
			f.Softwares = append(f.Softwares, SoftwareFacts{
				SoftwareID: sw.DeviceSoftwareSoftwareID,
				Status:     sw.DeviceSoftwareStatus,
				HasIssue:   sw.DeviceSoftwareHasIssue,
			})
		}
		facts = append(facts, f)
	}
	return facts, nil
}
