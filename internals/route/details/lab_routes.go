// internals/route/details/lab_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	capacityService "labku_backend/internals/features/labs/capacity/service"
	labController "labku_backend/internals/features/labs/labs/controller"
)

// LabUserRoutes: baca inventaris lab + hitung kapasitas (tanpa token).
func LabUserRoutes(api fiber.Router, db *gorm.DB, capacity *capacityService.CapacityService) {
	ctrl := labController.NewLabController(db, capacity)

	labs := api.Group("/labs")
	labs.Get("/", ctrl.List)
	labs.Get("/:id", ctrl.GetByID)
	labs.Get("/:id/capacity", ctrl.GetCapacity)

	softwares := api.Group("/softwares")
	softwares.Get("/", ctrl.ListSoftwares)
}

// LabAdminRoutes: mutasi inventaris (lab, perangkat, software).
func LabAdminRoutes(api fiber.Router, db *gorm.DB, capacity *capacityService.CapacityService) {
	ctrl := labController.NewLabController(db, capacity)

	labs := api.Group("/labs")
	labs.Post("/", ctrl.Create)
	labs.Post("/:id/devices", ctrl.CreateDevice)

	devices := api.Group("/devices")
	devices.Put("/:device_id", ctrl.UpdateDevice)
	devices.Put("/:device_id/softwares", ctrl.SetDeviceSoftwares)

	softwares := api.Group("/softwares")
	softwares.Post("/", ctrl.CreateSoftware)
}
