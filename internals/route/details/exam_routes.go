// internals/route/details/exam_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	distService "labku_backend/internals/features/exams/distribution/service"
	eventController "labku_backend/internals/features/exams/events/controller"
	plannerController "labku_backend/internals/features/exams/planner/controller"
	scheduleController "labku_backend/internals/features/exams/schedules/controller"
	scheduleService "labku_backend/internals/features/exams/schedules/service"
	capacityService "labku_backend/internals/features/labs/capacity/service"
)

// ExamUserRoutes: status jadwal ujian bisa dilihat tanpa token
// (mahasiswa memantau status lewat sini + websocket).
func ExamUserRoutes(api fiber.Router, db *gorm.DB, machine *scheduleService.StateMachine, distributor *distService.DistributionService) {
	schedCtrl := scheduleController.NewScheduleController(db, machine, distributor)
	eventCtrl := eventController.NewEventController(db)

	events := api.Group("/exam-events")
	events.Get("/", eventCtrl.List)
	events.Get("/:id/models", eventCtrl.ListExamModels)

	schedules := api.Group("/exam-schedules")
	schedules.Get("/", schedCtrl.List)
	schedules.Get("/:id", schedCtrl.GetByID)
}

// ExamAdminRoutes: lifecycle jadwal + planner + peserta + model soal.
func ExamAdminRoutes(api fiber.Router, db *gorm.DB, capacity *capacityService.CapacityService, machine *scheduleService.StateMachine, distributor *distService.DistributionService) {
	schedCtrl := scheduleController.NewScheduleController(db, machine, distributor)
	eventCtrl := eventController.NewEventController(db)
	planCtrl := plannerController.NewPlannerController(db, capacity)

	events := api.Group("/exam-events")
	events.Post("/", eventCtrl.Create)
	events.Put("/:id", eventCtrl.Update)
	events.Post("/:id/models", eventCtrl.CreateExamModel)
	events.Post("/:event_id/group-plan", planCtrl.PreviewPlan)
	events.Post("/:event_id/group-plan/commit", planCtrl.CommitPlan)

	schedules := api.Group("/exam-schedules")
	schedules.Put("/:id", schedCtrl.Update)
	schedules.Post("/:id/start", schedCtrl.ManualStart)
	schedules.Post("/:id/end", schedCtrl.ManualEnd)
	schedules.Post("/:id/students", schedCtrl.AddStudent)
	schedules.Delete("/:id/students/:student_id", schedCtrl.RemoveStudent)
	schedules.Post("/:id/students/:student_id/exam-model", schedCtrl.AssignModelManually)
}
