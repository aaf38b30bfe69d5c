// internals/features/exams/distribution/service/distribution_service.go
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "labku_backend/internals/features/exams/events/model"
	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

var (
	ErrNoModelsAvailable = errors.New("event belum punya exam model")
	ErrAlreadyAssigned   = errors.New("student sudah punya exam model")
)

/* =========================================================
   Pure core — pemilihan varian dengan preferensi counter
   rendah. Kandidat = model dengan assigned count di bawah
   ambang fairness (minCount + ceil(n/2)); kalau kandidat
   kosong, fallback acak rata di semua model.
========================================================= */

// PickModel memilih satu varian dari himpunan model milik event.
func PickModel(models []eventModel.ExamModelModel, rng *rand.Rand) (uuid.UUID, bool) {
	if len(models) == 0 {
		return uuid.Nil, false
	}

	minCount := models[0].ExamModelAssignedStudentCount
	for _, m := range models[1:] {
		if m.ExamModelAssignedStudentCount < minCount {
			minCount = m.ExamModelAssignedStudentCount
		}
	}

	threshold := minCount + (len(models)+1)/2

	candidates := make([]uuid.UUID, 0, len(models))
	for _, m := range models {
		if m.ExamModelAssignedStudentCount < threshold {
			candidates = append(candidates, m.ExamModelID)
		}
	}
	if len(candidates) == 0 {
		for _, m := range models {
			candidates = append(candidates, m.ExamModelID)
		}
	}

	return candidates[rng.Intn(len(candidates))], true
}

/* =========================================================
   Service — assignment transaksional. Kolom model-ref cuma
   terisi kalau masih NULL (guard RowsAffected) dan counter
   model naik lewat UPDATE atomik, aman dari request paralel.
========================================================= */

type DistributionService struct {
	DB *gorm.DB

	mu  sync.Mutex
	rng *rand.Rand
}

func NewDistributionService(db *gorm.DB) *DistributionService {
	return &DistributionService{
		DB:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AssignModel memberikan satu varian soal ke satu baris
// student_event_schedules. Idempoten per student: baris yang sudah
// terisi mengembalikan ErrAlreadyAssigned tanpa menyentuh counter.
func (s *DistributionService) AssignModel(ctx context.Context, eventID, studentScheduleID uuid.UUID) (uuid.UUID, error) {
	var chosen uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []eventModel.ExamModelModel
		if err := tx.
			Where("exam_model_event_id = ?", eventID).
			Order("exam_model_name ASC").
			Find(&models).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return ErrNoModelsAvailable
		}

		s.mu.Lock()
		modelID, ok := PickModel(models, s.rng)
		s.mu.Unlock()
		if !ok {
			return ErrNoModelsAvailable
		}

		// Isi model-ref hanya bila masih kosong
		res := tx.Model(&scheduleModel.StudentEventScheduleModel{}).
			Where("student_event_schedule_id = ? AND student_event_schedule_exam_model_id IS NULL", studentScheduleID).
			Update("student_event_schedule_exam_model_id", modelID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyAssigned
		}

		// Counter naik atomik di DB, bukan read-increment-write
		if err := tx.Model(&eventModel.ExamModelModel{}).
			Where("exam_model_id = ?", modelID).
			UpdateColumn("exam_model_assigned_student_count", gorm.Expr("exam_model_assigned_student_count + 1")).Error; err != nil {
			return err
		}

		chosen = modelID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return chosen, nil
}
