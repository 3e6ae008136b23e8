package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-api/internal/handler"
	"github.com/noah-isme/tutoring-api/internal/middleware"
	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/service"
	"github.com/noah-isme/tutoring-api/pkg/config"
	"github.com/noah-isme/tutoring-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutoring-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutoring-api/pkg/middleware/requestid"
)

type services struct {
	auth        *service.AuthService
	users       *service.UserService
	periods     *service.PeriodService
	progression *service.ProgressionService
	groups      *service.GroupService
	enrollments *service.EnrollmentService
	students    *service.StudentService
	subjects    *service.SubjectService
	assignments *service.SubjectAssignmentService
	alerts      *service.AlertService
	referrals   *service.ReferralService
	statistics  *service.StatisticsService
	reports     *service.ReportService
}

var (
	managers  = []models.UserRole{models.RoleCoordination, models.RoleDivisionHead}
	staff     = []models.UserRole{models.RoleCoordination, models.RoleDivisionHead, models.RoleTutor}
	overseers = []models.UserRole{models.RoleCoordination, models.RoleDivisionHead, models.RoleDirection}
	everyone  = []models.UserRole{models.RoleCoordination, models.RoleDivisionHead, models.RoleTutor, models.RoleTeacher, models.RoleDirection}
	coordOnly = []models.UserRole{models.RoleCoordination}
)

func newRouter(cfg *config.Config, logr *zap.Logger, db handler.Pinger, metrics *service.MetricsService, audit middleware.AuditWriter, svcs services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(svcs.auth)
	userHandler := handler.NewUserHandler(svcs.users)
	periodHandler := handler.NewPeriodHandler(svcs.periods, svcs.progression)
	groupHandler := handler.NewGroupHandler(svcs.groups, svcs.progression)
	enrollmentHandler := handler.NewEnrollmentHandler(svcs.enrollments)
	studentHandler := handler.NewStudentHandler(svcs.students)
	subjectHandler := handler.NewSubjectHandler(svcs.subjects)
	assignmentHandler := handler.NewSubjectAssignmentHandler(svcs.assignments)
	alertHandler := handler.NewAlertHandler(svcs.alerts)
	referralHandler := handler.NewReferralHandler(svcs.referrals)
	statisticsHandler := handler.NewStatisticsHandler(svcs.statistics)
	reportHandler := handler.NewReportHandler(svcs.reports)

	audited := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(audit, logr, action, resource)
	}
	can := middleware.RequireRoles

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	secured := api.Group("")
	secured.Use(middleware.JWT(svcs.auth))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)

	users := secured.Group("/users")
	users.GET("", can(overseers...), userHandler.List)
	users.GET("/tutors", can(overseers...), userHandler.ListTutors)
	users.GET("/:id", middleware.RBAC(string(models.RoleCoordination), string(models.RoleDirection), middleware.RoleSelf), userHandler.Get)
	users.POST("", can(coordOnly...), audited("USER_CREATE", "users"), userHandler.Create)
	users.PUT("/:id", can(coordOnly...), audited("USER_UPDATE", "users"), userHandler.Update)
	users.DELETE("/:id", can(coordOnly...), audited("USER_DEACTIVATE", "users"), userHandler.Delete)

	periods := secured.Group("/periods")
	periods.GET("", periodHandler.List)
	periods.GET("/active", periodHandler.Active)
	periods.GET("/:id", periodHandler.Get)
	periods.POST("", can(managers...), audited("PERIOD_CREATE", "periods"), periodHandler.Create)
	periods.PUT("/:id", can(managers...), audited("PERIOD_UPDATE", "periods"), periodHandler.Update)
	periods.PUT("/:id/activate", can(managers...), audited("PERIOD_ACTIVATE", "periods"), periodHandler.Activate)
	periods.POST("/:id/close", can(managers...), audited("PERIOD_CLOSE", "periods"), periodHandler.Close)
	periods.DELETE("/:id", can(managers...), audited("PERIOD_DELETE", "periods"), periodHandler.Delete)

	groups := secured.Group("/groups")
	groups.GET("", can(everyone...), groupHandler.List)
	groups.POST("", can(managers...), audited("GROUP_CREATE", "groups"), groupHandler.Create)
	groups.POST("/advance-semester", can(managers...), audited("SEMESTER_ADVANCE", "groups"), groupHandler.AdvanceSemester)
	groups.POST("/clone", can(managers...), audited("GROUP_CLONE", "groups"), groupHandler.Clone)
	groups.GET("/:id", can(everyone...), groupHandler.Get)
	groups.PUT("/:id", can(managers...), audited("GROUP_UPDATE", "groups"), groupHandler.Update)
	groups.PUT("/:id/tutor", can(managers...), audited("GROUP_TUTOR_ASSIGN", "groups"), groupHandler.AssignTutor)
	groups.DELETE("/:id", can(managers...), audited("GROUP_DELETE", "groups"), groupHandler.Delete)
	groups.GET("/:id/students", can(staff...), enrollmentHandler.ListStudents)
	groups.GET("/:id/available-students", can(managers...), enrollmentHandler.ListAvailable)
	groups.POST("/:id/students", can(managers...), audited("ENROLLMENT_CREATE", "enrollments"), enrollmentHandler.Assign)
	groups.DELETE("/:id/students/:studentId", can(managers...), audited("ENROLLMENT_DELETE", "enrollments"), enrollmentHandler.Remove)
	groups.GET("/:id/statistics", can(everyone...), statisticsHandler.GroupSummary)
	groups.GET("/:id/roster", can(staff...), reportHandler.GroupRoster)

	students := secured.Group("/students")
	students.GET("", can(everyone...), studentHandler.List)
	students.POST("", can(managers...), studentHandler.Create)
	students.GET("/:id", can(everyone...), studentHandler.Get)
	students.PUT("/:id", can(managers...), studentHandler.Update)
	students.DELETE("/:id", can(managers...), studentHandler.Delete)
	students.PUT("/:id/group", can(managers...), audited("ENROLLMENT_CHANGE_GROUP", "enrollments"), enrollmentHandler.ChangeGroup)
	students.GET("/:id/subjects", can(everyone...), assignmentHandler.List)
	students.POST("/:id/subjects", can(managers...), assignmentHandler.Assign)
	students.PUT("/:id/subjects/:assignmentId/grade", can(staff...), assignmentHandler.UpdateGrade)
	students.DELETE("/:id/subjects/:assignmentId", can(coordOnly...), assignmentHandler.Delete)
	students.GET("/:id/alerts", can(everyone...), alertHandler.ListByStudent)

	subjects := secured.Group("/subjects")
	subjects.GET("", subjectHandler.List)
	subjects.GET("/:id", subjectHandler.Get)
	subjects.POST("", can(managers...), subjectHandler.Create)
	subjects.PUT("/:id", can(managers...), subjectHandler.Update)
	subjects.DELETE("/:id", can(managers...), subjectHandler.Delete)

	alerts := secured.Group("/alerts")
	alerts.POST("", can(staff...), alertHandler.Create)
	alerts.PUT("/:id/status", can(staff...), alertHandler.UpdateStatus)

	referrals := secured.Group("/referrals")
	referrals.GET("", can(everyone...), referralHandler.List)
	referrals.GET("/report", can(everyone...), reportHandler.ReferralReport)
	referrals.POST("", can(staff...), referralHandler.Create)
	referrals.PUT("/:id/status", can(staff...), referralHandler.UpdateStatus)

	secured.GET("/statistics", can(everyone...), statisticsHandler.Summary)

	return r
}
