// internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	distService "labku_backend/internals/features/exams/distribution/service"
	"labku_backend/internals/features/exams/notifications/realtime"
	scheduleService "labku_backend/internals/features/exams/schedules/service"
	capacityService "labku_backend/internals/features/labs/capacity/service"
	authMw "labku_backend/internals/middlewares/auth"
	routeDetails "labku_backend/internals/route/details"
)

// Deps: service yang dibangun main.go (state machine juga dipakai
// reconciler, jadi wiring-nya di luar route).
type Deps struct {
	DB          *gorm.DB
	RDB         *redis.Client
	Capacity    *capacityService.CapacityService
	Distributor *distService.DistributionService
	Machine     *scheduleService.StateMachine
}

var startTime time.Time

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)

	api := app.Group("/api")

	// 🔓 read-only publik (fakta inventaris + status jadwal)
	routeDetails.LabUserRoutes(api, d.DB, d.Capacity)
	routeDetails.CourseUserRoutes(api, d.DB)
	routeDetails.ExamUserRoutes(api, d.DB, d.Machine, d.Distributor)

	// 🔐 mutasi hanya admin
	admin := api.Group("/a", authMw.AuthMiddleware(), authMw.AdminOnly())
	routeDetails.LabAdminRoutes(admin, d.DB, d.Capacity)
	routeDetails.CourseAdminRoutes(admin, d.DB)
	routeDetails.ExamAdminRoutes(admin, d.DB, d.Capacity, d.Machine, d.Distributor)

	// 📡 relay realtime (subscribe channel fan-out)
	relay := realtime.NewRelay(d.RDB)
	ws := app.Group("/ws", realtime.UpgradeGuard())
	ws.Get("/exam-schedules/:id", relay.ScheduleSocket())
	ws.Get("/students/:id", relay.StudentSocket())
}
