package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/config"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/middleware"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/service"
)

// HealthCheck pings one backing dependency. A nil check reports "disabled".
type HealthCheck func(ctx context.Context) error

type HealthChecks struct {
	Database HealthCheck
	Cache    HealthCheck
}

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	authService  *service.AuthService
	classService *service.ClassService
	checks       HealthChecks
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	auth *service.AuthService,
	classes *service.ClassService,
	checks HealthChecks,
) HandlerSet {
	return HandlerSet{
		log:          log,
		cfg:          cfg,
		authService:  auth,
		classService: classes,
		checks:       checks,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	requireAuth := middleware.Auth(h.authService, h.log)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)

		protected := auth.Group("", requireAuth)
		protected.GET("/me", h.Me)
		protected.POST("/logout", h.Logout)
	}

	classes := router.Group("/classes", requireAuth)
	{
		classes.GET("/mine", middleware.RequireRoles(models.RoleTeacher), h.MyClasses)
		classes.GET("/:className/:section/students",
			middleware.RequireHomeroom(h.classService, h.log),
			h.ClassRoster,
		)
	}

	admin := router.Group("/admin", requireAuth, middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/assignments", h.CreateAssignment)
	admin.DELETE("/assignments/:id", h.DeleteAssignment)
	admin.GET("/teachers/:id/assignments", h.TeacherAssignments)
}
