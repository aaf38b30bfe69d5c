package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	scheduleModel "labku_backend/internals/features/exams/schedules/model"
)

// DryRun: SQL dibangun tapi tidak pernah dieksekusi, jadi tidak
// butuh koneksi Postgres sungguhan.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=labku dbname=labku sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db
}

// Guard kapasitas harus ikut di WHERE pada UPDATE yang sama dengan
// incrementnya — dua request paralel tidak boleh sama-sama lolos
// melewati max_students lewat read-then-write terpisah.
func TestReserveSeatGuardSatuUpdate(t *testing.T) {
	db := newDryRunDB(t)

	tx := db.Model(&scheduleModel.EventScheduleModel{}).
		Scopes(seatAvailable).
		Where("event_schedule_id = ?", uuid.New()).
		UpdateColumn("event_schedule_enrolled_students", gorm.Expr("event_schedule_enrolled_students + 1"))
	require.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, "event_schedule_enrolled_students + 1")
	assert.Contains(t, sql, "event_schedule_status <> ")
	assert.Contains(t, sql, "event_schedule_max_students <= 0 OR event_schedule_enrolled_students < event_schedule_max_students")
}

func TestReserveSeatDryRunTanpaError(t *testing.T) {
	repo := NewScheduleRepository(newDryRunDB(t))

	ok, err := repo.ReserveSeat(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok) // DryRun tidak pernah mengubah baris
}

func TestReleaseSeatClampDiNol(t *testing.T) {
	db := newDryRunDB(t)

	tx := db.Model(&scheduleModel.EventScheduleModel{}).
		Where("event_schedule_id = ?", uuid.New()).
		UpdateColumn("event_schedule_enrolled_students", gorm.Expr("GREATEST(event_schedule_enrolled_students - 1, 0)"))
	require.NoError(t, tx.Error)

	assert.Contains(t, tx.Statement.SQL.String(), "GREATEST(event_schedule_enrolled_students - 1, 0)")
}
