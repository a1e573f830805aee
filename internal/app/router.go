package app

import (
	"rovia_backend/docs"
	"rovia_backend/internal/config"
	"rovia_backend/internal/middleware"
	"rovia_backend/internal/model"
	"rovia_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes: catalog browsing, quiz play views, leaderboard.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/attractions", c.attraction.List)
		public.GET("/attractions/:id", c.attraction.Get)
		public.GET("/attractions/:id/quizzes", c.quiz.ListByAttraction)
		public.GET("/quizzes/:id", c.quiz.GetForPlay)

		public.GET("/leaderboard", c.profile.GetLeaderboard)
	}

	// Authenticated routes: play and profile.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.profile.GetProfile)
		authGroup.POST("/quizzes/:id/submit", c.quiz.Submit)
	}

	// Authoring routes: promoters manage their own content, admins manage
	// everything. Per-object ownership is enforced in the services.
	manage := router.Group("/api")
	manage.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Promoter))
	{
		manage.POST("/attractions", c.attraction.Create)
		manage.PUT("/attractions/:id", c.attraction.Update)
		manage.DELETE("/attractions/:id", c.attraction.Delete)
		manage.POST("/attractions/:id/image", c.attraction.UploadImage)

		manage.GET("/manage/quizzes/:id", c.quiz.GetForManagement)
		manage.POST("/quizzes", c.quiz.Create)
		manage.PUT("/quizzes/:id", c.quiz.Update)
		manage.DELETE("/quizzes/:id", c.quiz.Delete)
	}
}
