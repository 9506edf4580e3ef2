package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	// Stores and core scheduling services
	scheduleStore := store.NewScheduleStore(db)
	appointmentStore := store.NewAppointmentStore(db, logger)
	recordStore := store.NewMedicalRecordStore(db)

	calculator := scheduling.NewCalculator(scheduleStore, appointmentStore)
	manager := scheduling.NewManager(appointmentStore, recordStore, calculator)
	reporter := scheduling.NewReporter(appointmentStore)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db, scheduleStore)
	appointmentHandler := handlers.NewAppointmentHandler(db, manager, calculator, appointmentStore)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(manager, recordStore, appointmentStore)
	reportHandler := handlers.NewReportHandler(reporter)
	chatHandler := handlers.NewChatHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Doctor listing is open to all authenticated users so
			// patients can pick a doctor to book with.
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Weekly schedule management (admin defines doctors' hours);
		// reading a doctor's schedule is open to authenticated users.
		scheduleRoutes := private.Group("/schedules")
		{
			scheduleRoutes.GET("/doctor/:doctorId", scheduleHandler.GetSchedulesForDoctor)

			adminSchedules := scheduleRoutes.Group("")
			adminSchedules.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminSchedules.POST("", scheduleHandler.CreateSchedule)
				adminSchedules.PUT("/:id", scheduleHandler.UpdateSchedule)
				adminSchedules.DELETE("/:id", scheduleHandler.DeleteSchedule)
			}
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("/availability", appointmentHandler.CheckAvailability)
			appointmentRoutes.GET("/free-slots", appointmentHandler.ListFreeSlots)

			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor, models.RoleAdmin), appointmentHandler.BookAppointment)

			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID) // Authorization inside handler

			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment) // Authorization inside handler
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)         // Authorization inside handler

			appointmentRoutes.PATCH("/:id/followup", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.LinkFollowup)
		}

		// Medical Record routes. Creating a record completes the appointment.
		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.CompleteAppointment)
			medicalRecordRoutes.GET("/patient/:patientId", medicalRecordHandler.GetMedicalRecordsForPatient) // Auth in handler
			medicalRecordRoutes.GET("/:id", medicalRecordHandler.GetMedicalRecordByID)                       // Auth in handler
		}

		// Operational reports for clinic staff
		reportRoutes := private.Group("/reports")
		reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor))
		{
			reportRoutes.GET("/appointments", reportHandler.ListAppointments)
			reportRoutes.GET("/appointments/grouped", reportHandler.GroupedAppointments)
		}

		// Chat routes
		chatRoutes := private.Group("/chat")
		{
			chatRoutes.POST("/sessions", chatHandler.StartSession)
			chatRoutes.GET("/sessions", chatHandler.GetSessions)
			chatRoutes.GET("/sessions/:id/messages", chatHandler.GetSessionMessages)
			chatRoutes.POST("/sessions/:id/messages", chatHandler.SendMessage)
			chatRoutes.PATCH("/messages/:messageId/read", chatHandler.MarkMessageRead)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
