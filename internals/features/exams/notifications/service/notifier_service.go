// internals/features/exams/notifications/service/notifier_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Nama event yang dipublish engine (lihat juga relay websocket).
const (
	EventExamModeStart     = "exam_mode_start"
	EventExamAccessGranted = "exam_access_granted"
	EventExamStartingSoon  = "exam_starting_soon"
	EventExamEnd           = "exam_end"
	EventExamModelStatus   = "exam_model_status"

	// snapshot terkonsolidasi per student, dikirim tiap transisi status
	EventExamModeStatus = "exam_mode_status"
)

// ScheduleChannel: channel per sesi (semua client yang subscribe sesi itu).
func ScheduleChannel(scheduleID uuid.UUID) string {
	return fmt.Sprintf("exam:schedule:%s", scheduleID)
}

// StudentChannel: channel personal per student (status exam-mode
// terkonsolidasi lintas sesi).
func StudentChannel(studentID uuid.UUID) string {
	return fmt.Sprintf("exam:student:%s", studentID)
}

type schedulePayload struct {
	ScheduleID uuid.UUID      `json:"schedule_id"`
	Event      string         `json:"event"`
	At         string         `json:"at"`
	Data       map[string]any `json:"data,omitempty"`
}

type studentPayload struct {
	StudentID uuid.UUID `json:"student_id"`
	Event     string    `json:"event"`
	At        string    `json:"at"`
	Snapshot  any       `json:"snapshot"`
}

// Notifier: fan-out fire-and-forget ke redis pub/sub. Client nil
// (REDIS_ADDR kosong) atau publish gagal cuma di-log — transisi
// state yang memicunya tidak boleh ikut gagal.
type Notifier struct {
	RDB *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{RDB: rdb}
}

func (n *Notifier) PublishScheduleEvent(ctx context.Context, scheduleID uuid.UUID, event string, data map[string]any) {
	n.publish(ScheduleChannel(scheduleID), schedulePayload{
		ScheduleID: scheduleID,
		Event:      event,
		At:         time.Now().Format(time.RFC3339),
		Data:       data,
	})
}

func (n *Notifier) PublishStudentStatus(ctx context.Context, studentID uuid.UUID, snapshot any) {
	n.publish(StudentChannel(studentID), studentPayload{
		StudentID: studentID,
		Event:     EventExamModeStatus,
		At:        time.Now().Format(time.RFC3339),
		Snapshot:  snapshot,
	})
}

func (n *Notifier) publish(channel string, payload any) {
	if n == nil || n.RDB == nil {
		log.Printf("[NOTIFY] redis off, drop %s", channel)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[NOTIFY ERROR] marshal %s: %v", channel, err)
		return
	}

	// fire-and-forget: jangan pernah blok persistence jadwal
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := n.RDB.Publish(ctx, channel, body).Err(); err != nil {
			log.Printf("[NOTIFY ERROR] publish %s: %v", channel, err)
		}
	}()
}
