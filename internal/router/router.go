package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/handler"
	"github.com/apper-apps/scholar-array-protocol/internal/middleware"
	"github.com/apper-apps/scholar-array-protocol/internal/service"
	"github.com/apper-apps/scholar-array-protocol/pkg/logger"
	corsmiddleware "github.com/apper-apps/scholar-array-protocol/pkg/middleware/cors"
	reqidmiddleware "github.com/apper-apps/scholar-array-protocol/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Students    *handler.StudentHandler
	Classes     *handler.ClassHandler
	Assignments *handler.AssignmentHandler
	Grades      *handler.GradeHandler
	Attendance  *handler.AttendanceHandler
	Dashboard   *handler.DashboardHandler
	Exports     *handler.ExportHandler
	Ops         *handler.MetricsHandler
}

// Options configures the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	EnableMetrics  bool
	// Tokens enables bearer authentication when non-nil.
	Tokens  middleware.TokenValidator
	Metrics *service.MetricsService
	Logger  *zap.Logger
}

// New builds the gin engine with middleware and routes.
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	if opts.Logger != nil {
		r.Use(logger.GinMiddleware(opts.Logger))
	}
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Ops.Health)
	r.GET("/ready", h.Ops.Ready)
	if opts.EnableMetrics {
		r.GET("/metrics", h.Ops.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	write := func(hf gin.HandlerFunc) []gin.HandlerFunc { return []gin.HandlerFunc{hf} }
	if opts.Tokens != nil {
		api.Use(middleware.JWT(opts.Tokens))
		write = func(hf gin.HandlerFunc) []gin.HandlerFunc { return []gin.HandlerFunc{middleware.WriteAccess(), hf} }
	}

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", write(h.Students.Create)...)
	students.POST("/import", write(h.Students.Import)...)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", write(h.Students.Update)...)
	students.PATCH("/:id/status", write(h.Students.UpdateStatus)...)
	students.DELETE("/:id", write(h.Students.Delete)...)
	students.GET("/:id/average", h.Grades.StudentAverage)
	students.GET("/:id/attendance-rate", h.Attendance.Rate)
	students.GET("/:id/attendance-summary", h.Attendance.Summary)

	classes := api.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", write(h.Classes.Create)...)
	classes.GET("/:id", h.Classes.Get)
	classes.PUT("/:id", write(h.Classes.Update)...)
	classes.DELETE("/:id", write(h.Classes.Delete)...)
	classes.GET("/:id/stats", h.Classes.Stats)
	classes.GET("/:id/average", h.Grades.ClassAverage)

	assignments := api.Group("/assignments")
	assignments.GET("", h.Assignments.List)
	assignments.POST("", write(h.Assignments.Create)...)
	assignments.GET("/:id", h.Assignments.Get)
	assignments.PUT("/:id", write(h.Assignments.Update)...)
	assignments.DELETE("/:id", write(h.Assignments.Delete)...)

	grades := api.Group("/grades")
	grades.GET("", h.Grades.List)
	grades.POST("", write(h.Grades.Create)...)
	grades.GET("/:id", h.Grades.Get)
	grades.PUT("/:id", write(h.Grades.Update)...)
	grades.DELETE("/:id", write(h.Grades.Delete)...)

	attendance := api.Group("/attendance")
	attendance.GET("", h.Attendance.List)
	attendance.POST("/mark", write(h.Attendance.Mark)...)
	attendance.POST("/mark-all-present", write(h.Attendance.MarkAllPresent)...)
	attendance.GET("/:id", h.Attendance.Get)
	attendance.DELETE("/:id", write(h.Attendance.Delete)...)

	api.GET("/dashboard", h.Dashboard.Overview)

	exports := api.Group("/exports")
	exports.GET("/grades", h.Exports.Grades)
	exports.GET("/attendance", h.Exports.Attendance)

	return r
}
