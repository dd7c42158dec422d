package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/curriculum/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	dashboardController *controllers.DashboardController,
) {
	router.GET("/", dashboardController.Index)
	router.GET("/healthz", controllers.Health)

	api := router.Group("/api")
	{
		api.GET("/dashboard", dashboardController.GetDashboard)

		// /api/module is kept for clients of the earlier API.
		for _, prefix := range []string{"/course", "/module"} {
			courses := api.Group(prefix)
			courses.GET("/:id", courseController.GetCourse)
			courses.POST("/:id", courseController.UpdateCourse)
		}
	}
}
