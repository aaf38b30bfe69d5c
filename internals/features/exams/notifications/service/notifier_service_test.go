package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestChannelNames(t *testing.T) {
	scheduleID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	studentID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	assert.Equal(t, "exam:schedule:11111111-2222-3333-4444-555555555555", ScheduleChannel(scheduleID))
	assert.Equal(t, "exam:student:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", StudentChannel(studentID))
}

func TestPublishWithoutRedisIsSilent(t *testing.T) {
	// redis off (REDIS_ADDR kosong): publish di-drop, tidak panic
	n := NewNotifier(nil)

	assert.NotPanics(t, func() {
		n.PublishScheduleEvent(context.Background(), uuid.New(), EventExamModeStart, map[string]any{"x": 1})
		n.PublishStudentStatus(context.Background(), uuid.New(), nil)
	})
}
