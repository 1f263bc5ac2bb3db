package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.auth.Me)

	student := group.Group("/")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/courses", c.learning.ListCourses)
		student.POST("/courses/:id/enroll", c.learning.Enroll)
		student.GET("/courses/:id", c.learning.GetCourseContent)
		student.GET("/content/:id", c.learning.GetContentItem)
		student.POST("/content/:id/complete", c.learning.CompleteContent)
		student.POST("/content/:id/quiz", c.learning.SubmitQuiz)
	}
}

func (a *App) registerInstructorRoutes(group *gin.RouterGroup, c *controllers) {
	instructor := group.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.GET("/courses", c.course.ListCourses)
		instructor.GET("/courses/:id", c.course.GetCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)

		instructor.POST("/courses/:id/modules", c.course.CreateModule)
		instructor.PUT("/modules/:id", c.course.UpdateModule)
		instructor.DELETE("/modules/:id", c.course.DeleteModule)

		instructor.POST("/modules/:id/content", c.course.CreateContent)
		instructor.PUT("/content/:id", c.course.UpdateContent)
		instructor.DELETE("/content/:id", c.course.DeleteContent)

		instructor.POST("/uploads", c.course.UploadFile)
		instructor.GET("/uploads/:id/progress", c.course.UploadProgress)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users", c.admin.CreateUser)
		admin.GET("/users", c.admin.ListUsers)
		admin.PATCH("/users/:id", c.admin.UpdateUser)

		admin.GET("/courses", c.admin.ListCourses)
		admin.DELETE("/courses/:id", c.admin.DeleteCourse)
	}
}
