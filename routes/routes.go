package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sharath018/accreditation-data-backend/config"
	"github.com/sharath018/accreditation-data-backend/database"
	"github.com/sharath018/accreditation-data-backend/internal/academicyear"
	"github.com/sharath018/accreditation-data-backend/internal/auditlog"
	"github.com/sharath018/accreditation-data-backend/internal/auth"
	"github.com/sharath018/accreditation-data-backend/internal/board"
	"github.com/sharath018/accreditation-data-backend/internal/department"
	"github.com/sharath018/accreditation-data-backend/internal/notification"
	"github.com/sharath018/accreditation-data-backend/internal/reports"
	"github.com/sharath018/accreditation-data-backend/internal/submission"
	"github.com/sharath018/accreditation-data-backend/internal/template"
	"github.com/sharath018/accreditation-data-backend/middleware"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup wires every module's repository, service and handler onto the router.
// It also starts the two Kafka consumers (year transitions and submission
// events) so the background workers share the same service instances as the
// HTTP layer.
func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg, authSvc), authHandler.Me)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		auditRoutes.GET("/", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Boards & Criteria ==========
	boardRepo := board.NewRepository(database.DB)
	boardSvc := board.NewService(boardRepo, auditSvc)
	boardHandler := board.NewHandler(boardSvc)

	boardRoutes := protected.Group("/boards")
	{
		boardRoutes.GET("", boardHandler.GetBoards)
		boardRoutes.GET("/:id", boardHandler.GetBoardByID)
		boardRoutes.GET("/:id/criteria", boardHandler.GetCriteriaByBoard)

		boardRoutes.POST("", middleware.RBACMiddleware(auth.RoleAdmin), boardHandler.CreateBoard)
		boardRoutes.POST("/:id/criteria", middleware.RBACMiddleware(auth.RoleAdmin), boardHandler.CreateCriteria)
	}
	protected.DELETE("/criteria/:id", middleware.RBACMiddleware(auth.RoleAdmin), boardHandler.DeleteCriteria)

	// ========== Departments ==========
	deptRepo := department.NewRepository(database.DB)
	deptSvc := department.NewService(deptRepo, auditSvc)
	deptHandler := department.NewHandler(deptSvc)

	deptRoutes := protected.Group("/departments")
	{
		deptRoutes.GET("", deptHandler.GetAll)
		deptRoutes.GET("/:id", deptHandler.GetByID)

		deptRoutes.POST("", middleware.RBACMiddleware(auth.RoleAdmin), deptHandler.Create)
		deptRoutes.PUT("/:id", middleware.RBACMiddleware(auth.RoleAdmin), deptHandler.Update)
		deptRoutes.DELETE("/:id", middleware.RBACMiddleware(auth.RoleAdmin), deptHandler.Delete)
	}

	// ========== Templates ==========
	templateRepo := template.NewRepository(database.DB)
	templateSvc := template.NewService(templateRepo, auditSvc)
	templateHandler := template.NewHandler(templateSvc)

	templateRoutes := protected.Group("/templates")
	{
		templateRoutes.GET("", templateHandler.GetAll)
		templateRoutes.GET("/:id", templateHandler.GetByID)
		templateRoutes.GET("/:id/versions", templateHandler.GetVersions)
		templateRoutes.GET("/:id/columns", templateHandler.GetFlatColumns)

		templateRoutes.POST("", middleware.RBACMiddleware(auth.RoleAdmin), templateHandler.Create)
		templateRoutes.PUT("/:id", middleware.RBACMiddleware(auth.RoleAdmin), templateHandler.Update)
		templateRoutes.DELETE("/:id", middleware.RBACMiddleware(auth.RoleAdmin), templateHandler.Delete)
	}

	// ========== Submissions ==========
	subRepo := submission.NewRepository(database.DB)
	subSvc := submission.NewService(subRepo, templateSvc, auditSvc)
	subHandler := submission.NewHandler(subSvc)

	subRoutes := protected.Group("/submissions")
	{
		subRoutes.GET("", subHandler.List)
		subRoutes.GET("/:id", subHandler.GetByID)
		subRoutes.GET("/:id/rows", subHandler.GetRows)
		subRoutes.GET("/:id/history", subHandler.GetHistory)

		// Data entry is department-scoped. Admin and IQAC director pass the
		// department check, everyone else needs an assigned department.
		entry := subRoutes.Group("")
		entry.Use(middleware.RequireDepartment())
		{
			entry.POST("", subHandler.GetOrCreate)
			entry.POST("/:id/rows", subHandler.AddRow)
			entry.PUT("/:id/rows/:rowId", subHandler.UpdateRow)
			entry.DELETE("/:id/rows/:rowId", subHandler.DeleteRow)

			entry.POST("/:id/submit", subHandler.Submit)
			entry.POST("/:id/withdraw", subHandler.Withdraw)
		}

		review := subRoutes.Group("")
		review.Use(middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleIQACDirector))
		{
			review.POST("/:id/approve", subHandler.Approve)
			review.POST("/:id/reject", subHandler.Reject)
		}
	}

	// ========== Academic Years & Transitions ==========
	yearRepo := academicyear.NewRepository(database.DB)
	yearSvc := academicyear.NewService(yearRepo, auditSvc)

	transitionStore := submission.NewTransitionStore(subRepo, templateRepo)
	transitionSvc := academicyear.NewTransitionService(yearRepo, transitionStore, academicyear.NewKafkaDispatcher(), auditSvc)
	yearHandler := academicyear.NewHandler(yearSvc, transitionSvc)

	yearRoutes := protected.Group("/academic-years")
	{
		yearRoutes.GET("", yearHandler.GetAll)
		yearRoutes.GET("/current", yearHandler.GetCurrent)

		yearRoutes.POST("", middleware.RBACMiddleware(auth.RoleAdmin), yearHandler.Create)
		yearRoutes.PATCH("/:id/current", middleware.RBACMiddleware(auth.RoleAdmin), yearHandler.SetCurrent)

		yearRoutes.POST("/transitions", middleware.RBACMiddleware(auth.RoleAdmin), yearHandler.StartTransition)
		yearRoutes.GET("/transitions", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleIQACDirector), yearHandler.GetTransitions)
		yearRoutes.GET("/transitions/:id", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleIQACDirector), yearHandler.GetTransitionByID)
	}

	// ========== Reports (Excel / PDF) ==========
	reportsRepo := reports.NewRepository(database.DB)
	reportsSvc := reports.NewService(reportsRepo, templateSvc, templateRepo, yearSvc, auditSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	reportRoutes := protected.Group("/reports")
	{
		reportRoutes.GET("/export/template", reportsHandler.ExportTemplate)
		reportRoutes.GET("/export/board", reportsHandler.ExportBoard)
		reportRoutes.GET("/export/status-pdf", reportsHandler.ExportStatusPDF)
		reportRoutes.GET("/exports", reportsHandler.GetExports)
		reportRoutes.GET("/exports/:id/download", reportsHandler.DownloadExport)

		reportRoutes.POST("/import/template", middleware.RBACMiddleware(auth.RoleAdmin), reportsHandler.ImportTemplate)
	}

	// ========== Notifications ==========
	notificationRepo := notification.NewRepository(database.DB)
	notificationSvc := notification.NewService(notificationRepo, authRepo, templateSvc)
	notificationHandler := notification.NewHandler(notificationSvc)

	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.GetMine)
		notificationRoutes.PATCH("/:id/read", notificationHandler.MarkRead)
		notificationRoutes.PATCH("/read-all", notificationHandler.MarkAllRead)
		notificationRoutes.POST("/device-tokens", notificationHandler.RegisterDeviceToken)
	}

	// Background workers
	academicyear.StartTransitionConsumer(cfg, transitionSvc)
	notification.StartEventConsumer(cfg, notificationSvc)
}
