package appointment

import (
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Transition rules
// ===============================

// CheckTransition enforces the role-gated state machine. REJECTED and
// CANCELLED are terminal for everyone but admins; only the wrong
// current-state/target pair yields invalid_state — role mismatches are
// forbidden, and ownership is enforced by scoped fetches before this runs.
func CheckTransition(role string, current, target Status) error {
	if !ValidStatus(target) {
		return httperr.ErrInvalidArgument("invalid_status", "Unknown appointment status.")
	}

	switch role {
	case models.RoleAdmin:
		return nil

	case models.RoleDoctor:
		if target != StatusAccepted && target != StatusRejected {
			return httperr.ErrForbidden("transition_not_allowed", "Doctors may only accept or reject appointments.")
		}
		if current != StatusPending {
			return httperr.ErrInvalidState("not_pending", "Appointment is no longer pending.")
		}
		return nil

	case models.RolePatient:
		if target != StatusCancelled {
			return httperr.ErrForbidden("transition_not_allowed", "Patients may only cancel appointments.")
		}
		if current != StatusPending {
			return httperr.ErrInvalidState("not_pending", "Appointment can no longer be cancelled.")
		}
		return nil
	}

	return httperr.ErrForbidden("transition_not_allowed", "Role cannot change appointment status.")
}
