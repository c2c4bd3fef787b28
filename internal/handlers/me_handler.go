package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medibook/clinic-scheduler/internal/middleware"
	"github.com/medibook/clinic-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{"user": user}

	// Doctors also get their profile, when one has been set up.
	if user.Role == models.RoleDoctor {
		var doctor models.Doctor
		if err := h.db.Where("user_id = ?", user.ID).First(&doctor).Error; err == nil {
			resp["doctor"] = doctor
		}
	}

	c.JSON(http.StatusOK, resp)
}
