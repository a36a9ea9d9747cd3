package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yigit/buspass/internal/app/controllers"
	"github.com/yigit/buspass/internal/middleware"
)

// Controllers groups the handlers the router needs
type Controllers struct {
	Auth    *controllers.AuthController
	Student *controllers.StudentController
	BusPass *controllers.BusPassController
	Route   *controllers.RouteController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// --- Public probes ---
	router.GET("/ping", c.Health.Ping)
	router.GET("/healthz", c.Health.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Login / logout ---
	for _, path := range []string{"/login/", "/accounts/login/"} {
		router.GET(path, c.Auth.LoginPage)
		router.POST(path, c.Auth.Login)
	}
	router.GET("/logout/", c.Auth.Logout)
	router.POST("/logout/", c.Auth.Logout)

	// --- Office screens, session required ---
	office := router.Group("")
	office.Use(authMiddleware.SessionAuth(), authMiddleware.CSRFProtect())
	{
		office.GET("/", c.Student.Home)
		office.GET("/add_student/", c.Student.AddStudentPage)
		office.POST("/add_student/", c.Student.AddStudent)

		office.GET("/issue_bus_pass/", c.BusPass.IssuePassPage)
		office.POST("/issue_bus_pass/", c.BusPass.IssuePass)
		office.GET("/download_pass/:student_id/", c.BusPass.DownloadPass)

		office.GET("/bus_routes/", c.Route.ListRoutes)
		office.GET("/add_route/", c.Route.AddRoutePage)
		office.POST("/add_route/", c.Route.AddRoute)
	}

	router.NoRoute(middleware.NotFound())
}
