// internals/route/details/course_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseController "labku_backend/internals/features/courses/courses/controller"
)

func CourseUserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := courseController.NewCourseController(db)

	courses := api.Group("/courses")
	courses.Get("/", ctrl.List)
	courses.Get("/:id/enrollments", ctrl.ListEnrollments)
}

func CourseAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := courseController.NewCourseController(db)

	courses := api.Group("/courses")
	courses.Post("/", ctrl.Create)
	courses.Put("/:id/required-softwares", ctrl.SetRequiredSoftwares)
	courses.Post("/:id/enrollments", ctrl.EnrollStudent)
}
