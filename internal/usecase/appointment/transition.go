package appointment

import (
	"context"

	"github.com/medibook/clinic-scheduler/internal/audit"
	domain "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

type Transition struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewTransition(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Transition {
	return &Transition{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies one status transition on behalf of an actor. Fetches are
// ownership-scoped for non-admins, so "not mine" and "doesn't exist" are
// indistinguishable to the caller.
func (uc *Transition) Execute(
	ctx context.Context,
	actorRole string,
	actorUserID uint,
	appointmentID uint,
	target domain.Status,
) (*models.Appointment, error) {

	ap, err := uc.fetchFor(ctx, actorRole, actorUserID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Transition(ap, actorRole, target); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorUserID,
		Action:   "appointment_" + string(target),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func (uc *Transition) fetchFor(
	ctx context.Context,
	actorRole string,
	actorUserID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	notFound := httperr.ErrNotFound("appointment_not_found", "Appointment not found.")

	switch actorRole {
	case models.RoleAdmin:
		ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
		if err != nil {
			return nil, notFound
		}
		return ap, nil

	case models.RoleDoctor:
		doctor, err := uc.repo.GetDoctorByUserID(ctx, actorUserID)
		if err != nil {
			return nil, notFound
		}
		ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctor.ID)
		if err != nil {
			return nil, notFound
		}
		return ap, nil

	case models.RolePatient:
		ap, err := uc.repo.GetAppointmentForPatient(ctx, appointmentID, actorUserID)
		if err != nil {
			return nil, notFound
		}
		return ap, nil
	}

	return nil, httperr.ErrForbidden("transition_not_allowed", "Role cannot change appointment status.")
}
