package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) {
	store := scheduling.NewGormStore(db)
	scheduler := scheduling.NewScheduler(store, store, store, log)

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	specialtyHandler := handlers.NewSpecialtyHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(store)
	appointmentHandler := handlers.NewAppointmentHandler(db, scheduler)
	invoiceHandler := handlers.NewInvoiceHandler(db)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(db)

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
			// Doctor directory - accessible by all authenticated users
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			// Patient directory - doctors and admins
			userRoutes.GET("/patients", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), userHandler.GetPatients)

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

		// Specialty routes
		specialtyRoutes := private.Group("/specialties")
		{
			specialtyRoutes.GET("", specialtyHandler.GetSpecialties)

			adminSpecialty := specialtyRoutes.Group("")
			adminSpecialty.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminSpecialty.POST("", specialtyHandler.CreateSpecialty)
				adminSpecialty.PUT("/:id", specialtyHandler.UpdateSpecialty)
				adminSpecialty.DELETE("/:id", specialtyHandler.DeleteSpecialty)
			}
		}

		// Availability routes
		private.GET("/doctors/:id/availability", availabilityHandler.GetDoctorAvailability)
		private.PUT("/availability", middleware.RoleAuthMiddleware(models.RoleDoctor), availabilityHandler.ReplaceAvailability)

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Slot picker for booking, edit and reschedule forms
			appointmentRoutes.GET("/slots", appointmentHandler.ListAvailableSlots)

			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleAdmin), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			appointmentRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.EditAppointment)
			appointmentRoutes.PATCH("/:id/reschedule", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PATCH("/:id/cancel", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleAdmin), appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/complete", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.CompleteAppointment)
			appointmentRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.DeleteAppointment)
		}

		// Invoice routes
		invoiceRoutes := private.Group("/invoices")
		{
			invoiceRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), invoiceHandler.CreateInvoice)
			invoiceRoutes.GET("", invoiceHandler.GetInvoicesForUser)
			invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
			invoiceRoutes.PATCH("/:id/pay", middleware.RoleAuthMiddleware(models.RoleAdmin), invoiceHandler.MarkInvoicePaid)
		}

		// Medical record routes
		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.CreateMedicalRecord)
			medicalRecordRoutes.GET("/patient/:patientId", medicalRecordHandler.GetMedicalRecordsForPatient)
			medicalRecordRoutes.GET("/:id", medicalRecordHandler.GetMedicalRecordByID)
			medicalRecordRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalRecordHandler.UpdateMedicalRecord)
			medicalRecordRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalRecordHandler.DeleteMedicalRecord)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
