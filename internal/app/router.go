package app

import (
	"time"

	"qcm_edu_backend/internal/middleware"
	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/util"
	"qcm_edu_backend/pkg/monitoring"
	"qcm_edu_backend/pkg/security"
	"qcm_edu_backend/pkg/tracing"

	"qcm_edu_backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	r.Use(security.Secure())
	r.Use(monitoring.MetricsMiddleware())
	if a.Config.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}
	if a.Config.RateLimit.MaxRequests > 0 {
		r.Use(security.RateLimiter(
			a.Config.RateLimit.MaxRequests,
			time.Duration(a.Config.RateLimit.WindowMinutes)*time.Minute,
		))
	}

	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	// Locally stored uploads are served straight from disk; object-store
	// backends serve their own URLs.
	if a.Config.Storage.Type == util.StorageLocal {
		r.Static("/uploads", a.Config.Storage.LocalPath)
	}

	api := r.Group("/api")
	{
		api.GET("/health", a.controllers.health.Health)
		api.POST("/login", a.controllers.auth.Login)
		api.POST("/users", a.controllers.auth.Register)
	}

	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(a.Config))
	{
		auth.GET("/dashboard", a.controllers.dashboard.Dashboard)

		auth.GET("/documents", a.controllers.content.ListDocuments)
		auth.GET("/documents/:id", a.controllers.content.GetDocument)
		auth.GET("/videos", a.controllers.content.ListVideos)
		auth.GET("/videos/:id", a.controllers.content.GetVideo)

		auth.GET("/qcms/:id", a.controllers.qcm.GetQcm)
		auth.POST("/qcms/:id/attempts", a.controllers.attempt.Start)
		auth.GET("/attempts/:id", a.controllers.attempt.Get)
		auth.POST("/attempts/:id/select", a.controllers.attempt.Select)
		auth.POST("/attempts/:id/validate", a.controllers.attempt.Validate)
		auth.POST("/attempts/:id/next", a.controllers.attempt.Next)

		auth.GET("/qcm_results", a.controllers.result.List)
		auth.POST("/qcm_results", a.controllers.result.Create)
	}

	teacher := auth.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/dashboard", a.controllers.dashboard.TeacherDashboard)
		teacher.POST("/documents", a.controllers.content.UploadDocument)
		teacher.DELETE("/documents/:id", a.controllers.content.DeleteDocument)
		teacher.POST("/documents/:id/generate-qcm", a.controllers.qcm.GenerateDocumentQcm)
		teacher.POST("/videos", a.controllers.content.UploadVideo)
		teacher.DELETE("/videos/:id", a.controllers.content.DeleteVideo)
		teacher.POST("/videos/:id/generate-qcm", a.controllers.qcm.GenerateVideoQcm)
	}

	return r
}
