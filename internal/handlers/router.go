package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/services"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
)

type HandlerManager struct {
	authHandler   *AuthHandler
	opsHandler    *OpsHandler
	courseHandler *CourseHandler
	readHandler   *ReadHandler
	exportHandler *ExportHandler
	authService   *auth.Service
}

func NewHandlerManager(
	dispatcher *services.Dispatcher,
	authService *auth.Service,
	courses services.CourseService,
	attempts services.AttemptService,
	progress services.ProgressService,
	benefits services.BenefitService,
	attestations services.AttestationService,
	exports services.ExportService,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:   NewAuthHandler(authService, v, logger),
		opsHandler:    NewOpsHandler(dispatcher, logger),
		courseHandler: NewCourseHandler(courses, logger),
		readHandler:   NewReadHandler(courses, attempts, progress, benefits, attestations, logger),
		exportHandler: NewExportHandler(exports, logger),
		authService:   authService,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware(hm.authService))
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/sign-in", hm.authHandler.SignIn)
			authGroup.GET("/me", hm.authHandler.Me)
		}

		// RPC operation surface (mutations, idempotent by request id)
		v1.POST("/ops/:operation", hm.opsHandler.Call)

		// Catalog reads and enrollment
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.readHandler.ListCourses)
			courses.GET("/:course_id", hm.readHandler.GetCourse)
			courses.POST("/:course_id/enroll", hm.courseHandler.Enroll)
		}

		// Learner reads
		v1.GET("/progress/:wallet", hm.readHandler.ListProgress)
		v1.GET("/progress/:wallet/:course_id/:module_id", hm.readHandler.GetProgress)
		v1.GET("/attempts/:wallet", hm.readHandler.ListAttempts)
		v1.GET("/claims/:wallet", hm.readHandler.ListClaims)
		v1.GET("/attestations/:wallet", hm.readHandler.ListAttestations)

		// Admin exports
		exports := v1.Group("/exports")
		{
			exports.GET("/attempts", hm.exportHandler.ExportAttempts)
			exports.GET("/claims", hm.exportHandler.ExportClaims)
		}
	}
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "checkpoint-service",
	})
}
