package app

import (
	"ctf_platform_backend/docs"
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/middleware"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// 题目对游客可见，flag 字段只有管理员身份才保留
		public.GET("/challenges", middleware.TryAuthMiddleware(cfg), c.challenge.List)
		public.GET("/challenges/:id", middleware.TryAuthMiddleware(cfg), c.challenge.Get)
		public.GET("/challenges/:id/attachments", c.attachment.List)

		public.GET("/scoreboard", c.scoreboard.List)
		public.GET("/scoreboard/:id", c.scoreboard.User)
	}

	// 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/profile", c.auth.GetProfile)
		authGroup.PUT("/auth/profile", c.auth.UpdateProfile)
		authGroup.PUT("/auth/change-password", c.auth.ChangePassword)

		authGroup.POST("/challenges", c.challenge.Create)
		authGroup.PUT("/challenges/:id", c.challenge.Update)
		authGroup.DELETE("/challenges/:id", c.challenge.Delete)

		authGroup.POST("/submissions", c.submission.Submit)
		authGroup.GET("/submissions/my", c.submission.ListMy)

		authGroup.GET("/scoreboard/me", c.scoreboard.My)
	}

	// 管理员路由
	adminGroup := router.Group("/api")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		adminGroup.GET("/users", c.user.List)
		adminGroup.GET("/users/:id", c.user.Get)
		adminGroup.PUT("/users/:id", c.user.Update)
		adminGroup.DELETE("/users/:id", c.user.Delete)

		adminGroup.GET("/submissions", c.submission.ListAll)

		adminGroup.POST("/challenges/:id/attachments", c.attachment.Upload)
		adminGroup.DELETE("/attachments/:attachmentId", c.attachment.Delete)
	}
}
