package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/handler"
	"github.com/znlumins/webkalenderaihmpsti/internal/middleware"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/internal/service"
	"github.com/znlumins/webkalenderaihmpsti/pkg/config"
	"github.com/znlumins/webkalenderaihmpsti/pkg/logger"
	corsmiddleware "github.com/znlumins/webkalenderaihmpsti/pkg/middleware/cors"
	reqidmiddleware "github.com/znlumins/webkalenderaihmpsti/pkg/middleware/requestid"
)

type routeDeps struct {
	auth    middleware.TokenValidator
	audit   middleware.AuditWriter
	metrics *service.MetricsService
	db      handler.Pinger

	events    *handler.EventHandler
	prokers   *handler.ProkerHandler
	adminUser *handler.AdminUserHandler
	authH     *handler.AuthHandler
	jarkoman  *handler.JarkomanHandler
	export    *handler.ExportHandler
	files     *handler.FileHandler
	stream    *handler.StreamHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics, "/metrics"))
	r.Use(middleware.ResponseMeta())

	ops := handler.NewMetricsHandler(deps.metrics, deps.db)
	r.GET("/health", ops.Health)
	r.GET("/metrics", ops.Prometheus)
	r.GET("/files/:bucket/*name", deps.files.Serve)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	requireAdmin := middleware.JWT(deps.auth)
	superAdminOnly := middleware.RBAC(models.RoleSuperAdmin)
	anyAdmin := middleware.RBAC()

	reference := handler.NewReferenceHandler()
	api.GET("/departments", reference.Departments)
	api.GET("/reference", reference.Reference)
	api.GET("/calendar.ics", deps.export.Calendar)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", deps.authH.Login)
	authGroup.GET("/me", requireAdmin, deps.authH.Me)

	events := api.Group("/events")
	events.GET("", deps.events.List)
	events.GET("/upcoming", deps.events.Upcoming)
	events.GET("/current", deps.events.Current)
	events.GET("/stream", deps.stream.Events)
	events.GET("/export", deps.export.Agenda)
	events.GET("/:id", deps.events.Get)

	eventWrites := events.Group("", middleware.AuditDenied(deps.audit, "events"), requireAdmin, anyAdmin)
	eventWrites.POST("/conflicts", deps.events.CheckConflict)
	eventWrites.POST("", deps.events.Create)
	eventWrites.PUT("/:id", deps.events.Update)
	eventWrites.DELETE("/:id", deps.events.Delete)
	eventWrites.POST("/:id/jarkoman", deps.jarkoman.ForEvent)

	prokers := api.Group("/prokers")
	prokers.GET("", deps.prokers.List)
	prokerWrites := prokers.Group("", middleware.AuditDenied(deps.audit, "prokers"), requireAdmin, anyAdmin)
	prokerWrites.POST("", deps.prokers.Create)
	prokerWrites.PUT("/:id", deps.prokers.Update)
	prokerWrites.DELETE("/:id", deps.prokers.Delete)

	admin := api.Group("", middleware.AuditDenied(deps.audit, "blobs"), requireAdmin, anyAdmin)
	admin.POST("/uploads", deps.files.Upload)
	admin.POST("/generate-jarkoman", deps.jarkoman.Generate)

	users := api.Group("/admin/users", middleware.AuditDenied(deps.audit, "admin_users"), requireAdmin, superAdminOnly)
	users.GET("", deps.adminUser.List)
	users.POST("", deps.adminUser.Create)
	users.PUT("", deps.adminUser.ResetPassword)
	users.DELETE("", deps.adminUser.Delete)

	return r
}
