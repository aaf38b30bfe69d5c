// internals/features/exams/notifications/realtime/relay.go
package realtime

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	notifService "labku_backend/internals/features/exams/notifications/service"
)

// Relay: jembatan tipis redis pub/sub → websocket, supaya fan-out
// per-sesi dan per-student bisa dipantau klien langsung. Consumer
// lain (mobile, proctoring) tetap bebas subscribe redis sendiri.
type Relay struct {
	RDB *redis.Client
}

func NewRelay(rdb *redis.Client) *Relay {
	return &Relay{RDB: rdb}
}

// UpgradeGuard menolak request non-websocket sebelum handler upgrade.
func UpgradeGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// GET /ws/exam-schedules/:id
func (r *Relay) ScheduleSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, err := uuid.Parse(strings.TrimSpace(conn.Params("id")))
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "id tidak valid"))
			return
		}
		r.pump(conn, notifService.ScheduleChannel(id))
	})
}

// GET /ws/students/:id
func (r *Relay) StudentSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, err := uuid.Parse(strings.TrimSpace(conn.Params("id")))
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "id tidak valid"))
			return
		}
		r.pump(conn, notifService.StudentChannel(id))
	})
}

// pump: subscribe satu channel redis dan teruskan payload apa adanya.
// Klien putus → subscription ditutup; redis mati → koneksi ditutup
// baik-baik, tidak ada yang panik.
func (r *Relay) pump(conn *websocket.Conn, channel string) {
	defer conn.Close()

	if r.RDB == nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "notifikasi realtime nonaktif"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := r.RDB.Subscribe(ctx, channel)
	defer sub.Close()

	// reader cuma buat deteksi close dari klien
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	msgs := sub.Channel()
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("[RELAY] tulis ke klien %s gagal: %v", channel, err)
				return
			}
		case <-done:
			return
		}
	}
}
