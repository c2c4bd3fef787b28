package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medibook/clinic-scheduler/internal/cache"
	"github.com/medibook/clinic-scheduler/internal/dateutil"
	"github.com/medibook/clinic-scheduler/internal/dto"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/media"
	"github.com/medibook/clinic-scheduler/internal/middleware"
	"github.com/medibook/clinic-scheduler/internal/models"
	ucAppointment "github.com/medibook/clinic-scheduler/internal/usecase/appointment"
	domainAppt "github.com/medibook/clinic-scheduler/internal/domain/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type DoctorHandler struct {
	db         *gorm.DB
	cache      *cache.Cache
	uploader   *media.Uploader
	transition *ucAppointment.Transition
}

func NewDoctorHandler(
	db *gorm.DB,
	cache *cache.Cache,
	uploader *media.Uploader,
	transition *ucAppointment.Transition,
) *DoctorHandler {
	return &DoctorHandler{
		db:         db,
		cache:      cache,
		uploader:   uploader,
		transition: transition,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type DoctorProfileRequest struct {
	Specialty  string   `json:"specialty" binding:"required"`
	Experience int      `json:"experience" binding:"min=0"`
	Fee        *float64 `json:"fee" binding:"required"`
	About      string   `json:"about"`
}

type DoctorProfilePatch struct {
	Specialty  *string  `json:"specialty"`
	Experience *int     `json:"experience"`
	Fee        *float64 `json:"fee"`
	About      *string  `json:"about"`
	Available  *bool    `json:"available"`
}

// ======================================================
// PROFILE
// ======================================================

// SetupProfile creates the doctor's profile explicitly; it is never created
// as a side effect of login. New profiles await admin approval.
func (h *DoctorHandler) SetupProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req DoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Specialty and fee are required.")
		return
	}
	if *req.Fee < 0 {
		httperr.BadRequest(c, "invalid_fee", "Fee cannot be negative.")
		return
	}

	var count int64
	h.db.Model(&models.Doctor{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		httperr.Write(c, http.StatusConflict, "profile_exists", "Doctor profile already exists.")
		return
	}

	doctor := models.Doctor{
		UserID:     userID,
		Specialty:  req.Specialty,
		Experience: req.Experience,
		Fee:        *req.Fee,
		About:      req.About,
		Available:  true,
	}

	if err := h.db.Create(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_create_profile", "Could not create the doctor profile.")
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	doctor, ok := h.ownProfile(c, userID)
	if !ok {
		return
	}

	var req DoctorProfilePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed profile update.")
		return
	}

	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Experience != nil {
		if *req.Experience < 0 {
			httperr.BadRequest(c, "invalid_experience", "Experience cannot be negative.")
			return
		}
		doctor.Experience = *req.Experience
	}
	if req.Fee != nil {
		if *req.Fee < 0 {
			httperr.BadRequest(c, "invalid_fee", "Fee cannot be negative.")
			return
		}
		doctor.Fee = *req.Fee
	}
	if req.About != nil {
		doctor.About = *req.About
	}
	if req.Available != nil {
		doctor.Available = *req.Available
	}

	if err := h.db.Save(doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Could not update the doctor profile.")
		return
	}

	h.cache.Delete(c.Request.Context(), publicDoctorsCacheKey)

	c.JSON(http.StatusOK, doctor)
}

// UploadPhoto stores the profile photo and records its public URL.
func (h *DoctorHandler) UploadPhoto(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	doctor, ok := h.ownProfile(c, userID)
	if !ok {
		return
	}

	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "uploads_disabled", "Photo uploads are not configured.")
		return
	}

	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "A photo file field is required.")
		return
	}
	defer file.Close()

	url, err := h.uploader.UploadDoctorPhoto(c.Request.Context(), file)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	doctor.Photo = url
	if err := h.db.Save(doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Could not record the photo.")
		return
	}

	h.cache.Delete(c.Request.Context(), publicDoctorsCacheKey)

	c.JSON(http.StatusOK, gin.H{"photo": url})
}

// ======================================================
// APPOINTMENTS
// ======================================================

func (h *DoctorHandler) ListAppointments(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	doctor, ok := h.ownProfile(c, userID)
	if !ok {
		return
	}

	q := h.db.Preload("Patient").Where("doctor_id = ?", doctor.ID)

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := dateutil.ParseDay(fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
			return
		}
		q = q.Where("appointment_date >= ?", from)
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := dateutil.ParseDay(toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
			return
		}
		q = q.Where("appointment_date < ?", to.AddDate(0, 0, 1))
	}

	var aps []models.Appointment
	if err := q.Order("appointment_date ASC").Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not list appointments.")
		return
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.FromAppointment(ap))
	}

	c.JSON(http.StatusOK, out)
}

func (h *DoctorHandler) Accept(c *gin.Context) {
	h.transitionTo(c, domainAppt.StatusAccepted)
}

func (h *DoctorHandler) Reject(c *gin.Context) {
	h.transitionTo(c, domainAppt.StatusRejected)
}

func (h *DoctorHandler) transitionTo(c *gin.Context, target domainAppt.Status) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be numeric.")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), models.RoleDoctor, userID, uint(id), target)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// HELPERS
// ======================================================

func (h *DoctorHandler) ownProfile(c *gin.Context, userID uint) (*models.Doctor, bool) {
	var doctor models.Doctor
	if err := h.db.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		httperr.NotFound(c, "profile_not_found", "Doctor profile has not been set up.")
		return nil, false
	}
	return &doctor, true
}
