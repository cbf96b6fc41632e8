package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
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
	"github.com/sharath018/accreditation-data-backend/routes"
	"github.com/sharath018/accreditation-data-backend/utils"
)

// @title Accreditation Data Backend API
// @version 1.0
// @description Board/criteria template management, departmental data submission workflow, academic year transitions and Excel/PDF reporting.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	utils.InitRedis(cfg)
	utils.InitKafka(cfg)

	log.Println("🔄 Initializing Firebase...")
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without Firebase (push notifications will be disabled)")
	} else if utils.IsFCMEnabled() {
		log.Println("✅ Firebase and FCM initialized successfully")
	} else {
		log.Println("⚠️ Firebase initialized but FCM client unavailable")
	}

	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.UserRole{},
		&auth.User{},
		&auditlog.AuditLog{},
		&board.Board{},
		&board.Criteria{},
		&department.Department{},
		&academicyear.AcademicYear{},
		&academicyear.AcademicYearTransition{},
		&template.Template{},
		&template.TemplateVersion{},
		&submission.DataSubmission{},
		&submission.SubmissionData{},
		&submission.SubmissionHistory{},
		&reports.ExportRecord{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	if err := auth.SeedUserRoles(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed roles: %v", err))
	}
	if err := auth.SeedAdminUser(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed admin user: %v", err))
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "Cache-Control", "Pragma", "Expires"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
