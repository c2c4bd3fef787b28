package appointment

import (
	"github.com/medibook/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Transition(ap *models.Appointment, role string, target Status) error {
	if err := CheckTransition(role, Status(ap.Status), target); err != nil {
		return err
	}

	ap.Status = string(target)
	return nil
}
