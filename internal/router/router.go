// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/incorpora/onboarding-backend/internal/config"
	"github.com/incorpora/onboarding-backend/internal/handlers"
	"github.com/incorpora/onboarding-backend/internal/middleware"
	"github.com/incorpora/onboarding-backend/internal/services"
	"github.com/incorpora/onboarding-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(db)
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, auditService, notificationService)
	applicationService := services.NewApplicationService(db, auditService, notificationService)
	customerService := services.NewCustomerService(db, applicationService, auditService)
	documentService := services.NewDocumentService(db, storageService, applicationService, auditService)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, customerService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/staff", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.CreateStaffUser)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Customer routes
		customers := v1.Group("/customers")
		customers.Use(middleware.AuthRequired())
		{
			customers.POST("", middleware.AgentRequired(), customerHandler.CreateCustomer)
			customers.GET("", middleware.AgentRequired(), customerHandler.ListCustomers)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.POST("/:id/onboarding", customerHandler.SubmitOnboardingDetails)
			customers.GET("/:id/documents", documentHandler.ListCustomerDocuments)
		}

		// Application workflow routes
		applications := v1.Group("/applications")
		applications.Use(middleware.AuthRequired())
		{
			applications.GET("/:id", applicationHandler.GetApplication)
			applications.GET("/:id/documents", documentHandler.ListApplicationDocuments)

			// Workflow mutations are agent operations
			staff := applications.Group("")
			staff.Use(middleware.AgentRequired())
			{
				staff.POST("", applicationHandler.CreateApplication)
				staff.GET("", applicationHandler.ListApplications)
				staff.PATCH("/:id/steps", applicationHandler.SetStepStatus)
				staff.POST("/:id/notes", applicationHandler.AddNote)
				staff.POST("/:id/visa-members", applicationHandler.AddVisaMember)
				staff.PATCH("/:id/visa-members/:memberId", applicationHandler.SetVisaMemberStatus)
				staff.POST("/:id/review", applicationHandler.ReviewApplication)
				staff.POST("/:id/reconcile", applicationHandler.ReconcileAutoApproval)
			}
		}

		// Document vault routes
		documents := v1.Group("/documents")
		documents.Use(middleware.AuthRequired())
		{
			documents.POST("", middleware.UploadRateLimit(), documentHandler.UploadDocument)
			documents.GET("/:id", documentHandler.GetDocument)
			documents.PATCH("/:id/review", middleware.AgentRequired(), documentHandler.ReviewDocument)
			documents.DELETE("/:id", middleware.AgentRequired(), documentHandler.DeleteDocument)
		}

		// Dashboard routes
		dashboard := v1.Group("/dashboard")
		dashboard.Use(middleware.AuthRequired())
		{
			dashboard.GET("/admin", middleware.AdminRequired(), dashboardHandler.GetAdminDashboard)
			dashboard.GET("/agent/:agentId", middleware.AgentRequired(), dashboardHandler.GetAgentDashboard)
			dashboard.GET("/customer", dashboardHandler.GetCustomerDashboard)
		}

		// Audit log routes
		v1.GET("/audit-logs", middleware.AuthRequired(), middleware.AdminRequired(), auditHandler.ListAuditLogs)
	}

	return r
}
