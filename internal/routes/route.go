package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/container"
	"github.com/joshua-takyi/activityportal/internal/handlers"
	"github.com/joshua-takyi/activityportal/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := c.Config.IsProduction()

	r := gin.New()
	r.Use(middleware.CORS(c.Config.FrontendOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	auth := middleware.AuthMiddleware(c.Verifier, c.AccountService, c.Logger, secure)
	staff := middleware.RequireStaff()

	// public routes
	r.GET("/api/health", handlers.Health())
	r.GET("/api/organization/list", handlers.ListOrganizations(c.OrganizationService))
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/login", handlers.Login(c.AccountService, c.Logger, secure))
		authRoutes.POST("/refresh", handlers.Refresh(c.AccountService, secure))
		authRoutes.POST("/logout", handlers.Logout(c.AccountService, c.Logger, secure))
		authRoutes.GET("/me", auth, handlers.Me())
	}

	// submitter routes, paths kept as the portal frontend calls them
	r.POST("/activityRequest", auth, handlers.CreateActivity(c.ActivityService, activityform.ModeCreate))
	r.PUT("/activityEdit/edit/:activity_id", auth, handlers.AppealActivity(c.ActivityService))
	r.GET("/activities/user/:account_id", auth, handlers.ActivitiesByAccount(c.ActivityService, c.AccountService))

	protected := r.Group("/api")
	protected.Use(auth)
	{
		protected.GET("/activities/:activity_id/history", handlers.ActivityHistory(c.ActivityService))
		protected.GET("/session/reminders", handlers.ReminderStatus(c.ReminderService))
		protected.POST("/session/reminders/ack", handlers.AcknowledgeReminders(c.ReminderService))

		orgRoutes := protected.Group("/organization/:org_id")
		orgRoutes.POST("/annual-report", handlers.SubmitAnnualReport(c.OrganizationService))
		orgRoutes.GET("/annual-report", handlers.ListAnnualReports(c.OrganizationService))
		orgRoutes.POST("/recognition", handlers.SubmitRecognition(c.OrganizationService))
		orgRoutes.GET("/recognition", handlers.ListRecognitions(c.OrganizationService))
	}

	staffRoutes := protected.Group("/")
	staffRoutes.Use(staff)
	{
		staffRoutes.POST("/admin/activity", handlers.CreateActivity(c.ActivityService, activityform.ModeAdmin))
		staffRoutes.PATCH("/admin/activity/:activity_id/review", handlers.ReviewActivity(c.ActivityService))
		staffRoutes.GET("/activities/summary", handlers.ActivitySummary(c.ActivityService))
		staffRoutes.GET("/activities/organizations", handlers.ListOrganizations(c.OrganizationService))
		staffRoutes.GET("/activities/academic-years", handlers.AcademicYears(c.ActivityService))
		staffRoutes.GET("/activities/incoming", handlers.IncomingActivities(c.ActivityService))
		staffRoutes.POST("/generate-approval-slips", handlers.GenerateApprovalSlips(c.ActivityService))
	}

	return r
}
