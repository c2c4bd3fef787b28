package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medibook/clinic-scheduler/internal/cache"
	"github.com/medibook/clinic-scheduler/internal/dateutil"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/httpresp"
	"github.com/medibook/clinic-scheduler/internal/models"
	ucSchedule "github.com/medibook/clinic-scheduler/internal/usecase/schedule"
)

const publicDoctorsCacheKey = "doctors:public"

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	db    *gorm.DB
	cache *cache.Cache
	slots *ucSchedule.GetSlots
}

func NewPublicHandler(
	db *gorm.DB,
	cache *cache.Cache,
	slots *ucSchedule.GetSlots,
) *PublicHandler {
	return &PublicHandler{
		db:    db,
		cache: cache,
		slots: slots,
	}
}

// ======================================================
// DOCTORS
// ======================================================

// ListDoctors serves the approved, bookable roster. The listing is the
// hottest read, so it goes through redis; misses fall back to the database.
func (h *PublicHandler) ListDoctors(c *gin.Context) {
	ctx := c.Request.Context()

	var doctors []models.Doctor
	if h.cache.GetJSON(ctx, publicDoctorsCacheKey, &doctors) {
		httpresp.List(c, doctors)
		return
	}

	q := h.db.Preload("User").Where("approved = ? AND available = ?", true, true)

	if specialty := c.Query("specialty"); specialty != "" {
		q = q.Where("specialty ILIKE ?", specialty)
	}

	if err := q.Order("id ASC").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not list doctors.")
		return
	}

	// Filtered queries are too varied to cache usefully.
	if c.Query("specialty") == "" {
		h.cache.SetJSON(ctx, publicDoctorsCacheKey, doctors, 5*time.Minute)
	}

	httpresp.List(c, doctors)
}

func (h *PublicHandler) GetDoctor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Doctor id must be numeric.")
		return
	}

	var doctor models.Doctor
	if err := h.db.Preload("User").
		Where("id = ? AND approved = ?", uint(id), true).
		First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	c.JSON(http.StatusOK, doctor)
}

// ======================================================
// SLOTS
// ======================================================

func (h *PublicHandler) DoctorSlots(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Doctor id must be numeric.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date query parameter is required.")
		return
	}

	day, err := dateutil.ParseDay(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	free, err := h.slots.Execute(c.Request.Context(), uint(id), day)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": free,
	})
}
