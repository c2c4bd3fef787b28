package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domainAppt "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/middleware"
	"github.com/medibook/clinic-scheduler/internal/models"
	ucAppointment "github.com/medibook/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db         *gorm.DB
	book       *ucAppointment.Book
	transition *ucAppointment.Transition
}

func NewAppointmentHandler(
	db *gorm.DB,
	book *ucAppointment.Book,
	transition *ucAppointment.Transition,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		book:       book,
		transition: transition,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookRequest struct {
	DoctorID uint   `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Reason   string `json:"reason"`
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Doctor, date and time are required.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST / CANCEL
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	var aps []models.Appointment
	if err := h.db.
		Preload("Doctor").
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("appointment_date ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not list appointments.")
		return
	}

	c.JSON(http.StatusOK, aps)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be numeric.")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), models.RolePatient, patientID, uint(id), domainAppt.StatusCancelled)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
