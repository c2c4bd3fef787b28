package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medibook/clinic-scheduler/internal/audit"
	"github.com/medibook/clinic-scheduler/internal/cache"
	"github.com/medibook/clinic-scheduler/internal/config"
	"github.com/medibook/clinic-scheduler/internal/gateway/khalti"
	"github.com/medibook/clinic-scheduler/internal/handlers"
	infraRepo "github.com/medibook/clinic-scheduler/internal/infra/repository"
	"github.com/medibook/clinic-scheduler/internal/media"
	"github.com/medibook/clinic-scheduler/internal/middleware"
	"github.com/medibook/clinic-scheduler/internal/models"
	ucAppointment "github.com/medibook/clinic-scheduler/internal/usecase/appointment"
	ucPayment "github.com/medibook/clinic-scheduler/internal/usecase/payment"
	ucSchedule "github.com/medibook/clinic-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	availabilityStore := infraRepo.NewAvailabilityGormStore(db)
	paymentRepo := infraRepo.NewPaymentGormRepository(db)

	gateway := khalti.New(cfg.KhaltiBaseURL, cfg.KhaltiSecretKey, cfg.GatewayTimeout)
	store := cache.New(cfg)
	uploader := media.NewUploader(cfg)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES
	// ======================================================
	bookUC := ucAppointment.NewBook(appointmentRepo, availabilityStore, auditDispatcher)
	transitionUC := ucAppointment.NewTransition(appointmentRepo, auditDispatcher)

	setAvailabilityUC := ucSchedule.NewSetAvailability(availabilityStore, auditDispatcher)
	getSlotsUC := ucSchedule.NewGetSlots(appointmentRepo, availabilityStore)

	initiatePaymentUC := ucPayment.NewInitiate(
		appointmentRepo,
		paymentRepo,
		gateway,
		cfg.PaymentReturnURL,
		cfg.PaymentWebsiteURL,
		auditDispatcher,
	)
	verifyPaymentUC := ucPayment.NewVerify(paymentRepo, gateway, auditDispatcher)
	cashCompleteUC := ucPayment.NewMarkCashComplete(appointmentRepo, paymentRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	publicHandler := handlers.NewPublicHandler(db, store, getSlotsUC)
	appointmentHandler := handlers.NewAppointmentHandler(db, bookUC, transitionUC)
	paymentHandler := handlers.NewPaymentHandler(initiatePaymentUC, verifyPaymentUC, cashCompleteUC)

	doctorHandler := handlers.NewDoctorHandler(db, store, uploader, transitionUC)
	scheduleHandler := handlers.NewScheduleHandler(availabilityStore, setAvailabilityUC)

	adminHandler := handlers.NewAdminHandler(db, store, auditDispatcher, transitionUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/doctors", publicHandler.ListDoctors)
			publicAPI.GET("/doctors/:id", publicHandler.GetDoctor)
			publicAPI.GET("/doctors/:id/slots", publicHandler.DoctorSlots)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg, db))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// PATIENT
			// ------------------------------
			patient := secured.Group("/")
			patient.Use(middleware.RequireRole(models.RolePatient))
			{
				patient.POST("/appointments", appointmentHandler.Book)
				patient.GET("/appointments", appointmentHandler.ListMine)
				patient.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

				patient.POST("/payments/initiate", paymentHandler.Initiate)
				patient.GET("/payments/verify", paymentHandler.Verify)
			}

			// ------------------------------
			// DOCTOR
			// ------------------------------
			doctor := secured.Group("/doctor")
			doctor.Use(middleware.RequireRole(models.RoleDoctor))
			{
				doctor.POST("/profile", doctorHandler.SetupProfile)
				doctor.PATCH("/profile", doctorHandler.UpdateProfile)
				doctor.POST("/profile/photo", doctorHandler.UploadPhoto)

				doctor.GET("/availability", scheduleHandler.Get)
				doctor.PUT("/availability", scheduleHandler.Update)

				doctor.GET("/appointments", doctorHandler.ListAppointments)
				doctor.PATCH("/appointments/:id/accept", doctorHandler.Accept)
				doctor.PATCH("/appointments/:id/reject", doctorHandler.Reject)

				doctor.POST("/payments/cash-complete", paymentHandler.CashComplete)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.PATCH("/users/:id/blocked", adminHandler.SetBlocked)
				admin.PATCH("/users/:id/role", adminHandler.SetRole)

				admin.GET("/doctors", adminHandler.ListDoctors)
				admin.PATCH("/doctors/:id/approved", adminHandler.SetApproved)
				admin.DELETE("/doctors/:id", adminHandler.DeleteDoctor)

				admin.GET("/appointments", adminHandler.ListAppointments)
				admin.PATCH("/appointments/:id/status", adminHandler.OverrideStatus)

				admin.POST("/payments/cash-complete", paymentHandler.CashComplete)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
