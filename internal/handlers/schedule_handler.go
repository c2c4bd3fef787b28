package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/medibook/clinic-scheduler/internal/domain/schedule"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/middleware"
	ucSchedule "github.com/medibook/clinic-scheduler/internal/usecase/schedule"
)

type ScheduleHandler struct {
	store           domain.Store
	setAvailability *ucSchedule.SetAvailability
}

func NewScheduleHandler(
	store domain.Store,
	setAvailability *ucSchedule.SetAvailability,
) *ScheduleHandler {
	return &ScheduleHandler{
		store:           store,
		setAvailability: setAvailability,
	}
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	cfg, err := h.store.Get(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_load_availability", "Could not load availability.")
		return
	}
	if cfg == nil {
		def := domain.Default()
		cfg = &def
	}

	c.JSON(http.StatusOK, cfg)
}

// Update shallow-merges the supplied fields; omitted fields keep their stored
// values.
func (h *ScheduleHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var patch domain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed availability update.")
		return
	}

	merged, err := h.setAvailability.Execute(c.Request.Context(), userID, patch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, merged)
}
