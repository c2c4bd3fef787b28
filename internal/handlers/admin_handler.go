package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medibook/clinic-scheduler/internal/audit"
	"github.com/medibook/clinic-scheduler/internal/cache"
	domainAppt "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/httpresp"
	"github.com/medibook/clinic-scheduler/internal/middleware"
	"github.com/medibook/clinic-scheduler/internal/models"
	ucAppointment "github.com/medibook/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db         *gorm.DB
	cache      *cache.Cache
	audit      *audit.Dispatcher
	transition *ucAppointment.Transition
}

func NewAdminHandler(
	db *gorm.DB,
	cache *cache.Cache,
	audit *audit.Dispatcher,
	transition *ucAppointment.Transition,
) *AdminHandler {
	return &AdminHandler{
		db:         db,
		cache:      cache,
		audit:      audit,
		transition: transition,
	}
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("id ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not list users.")
		return
	}
	httpresp.List(c, users)
}

func (h *AdminHandler) SetBlocked(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Blocked *bool `json:"blocked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "blocked is required.")
		return
	}

	user, ok := h.findUser(c, id)
	if !ok {
		return
	}

	user.Blocked = *req.Blocked
	if err := h.db.Save(user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update the user.")
		return
	}

	h.logAction(c, "user_block_changed", "user", &user.ID)
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidRole(req.Role) {
		httperr.BadRequest(c, "invalid_role", "Role must be PATIENT, DOCTOR or ADMIN.")
		return
	}

	user, ok := h.findUser(c, id)
	if !ok {
		return
	}

	user.Role = req.Role
	if err := h.db.Save(user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update the user.")
		return
	}

	h.logAction(c, "user_role_changed", "user", &user.ID)
	c.JSON(http.StatusOK, user)
}

// ======================================================
// DOCTORS
// ======================================================

func (h *AdminHandler) ListDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.db.Preload("User").Order("id ASC").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not list doctors.")
		return
	}
	httpresp.List(c, doctors)
}

func (h *AdminHandler) SetApproved(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "approved is required.")
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, id).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	doctor.Approved = *req.Approved
	if err := h.db.Save(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_doctor", "Could not update the doctor.")
		return
	}

	h.cache.Delete(c.Request.Context(), publicDoctorsCacheKey)
	h.logAction(c, "doctor_approval_changed", "doctor", &doctor.ID)
	c.JSON(http.StatusOK, doctor)
}

// DeleteDoctor removes the profile and, through the FK cascade, its
// appointments.
func (h *AdminHandler) DeleteDoctor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, id).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	if err := h.db.Delete(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_doctor", "Could not delete the doctor.")
		return
	}

	h.cache.Delete(c.Request.Context(), publicDoctorsCacheKey)
	h.logAction(c, "doctor_deleted", "doctor", &doctor.ID)
	c.JSON(http.StatusOK, gin.H{"deleted": doctor.ID})
}

// ======================================================
// APPOINTMENTS
// ======================================================

func (h *AdminHandler) ListAppointments(c *gin.Context) {
	var aps []models.Appointment
	if err := h.db.
		Preload("Patient").
		Preload("Doctor").
		Preload("Doctor.User").
		Order("appointment_date DESC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not list appointments.")
		return
	}
	httpresp.List(c, aps)
}

// OverrideStatus lets an admin force any status from any current status.
func (h *AdminHandler) OverrideStatus(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required.")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), models.RoleAdmin, adminID, id, domainAppt.Status(req.Status))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// HELPERS
// ======================================================

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id must be numeric.")
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) findUser(c *gin.Context, id uint) (*models.User, bool) {
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return nil, false
	}
	return &user, true
}

func (h *AdminHandler) logAction(c *gin.Context, action, entity string, entityID *uint) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ActorID:  &adminID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	})
}
