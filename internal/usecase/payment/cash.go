package payment

import (
	"context"

	"github.com/medibook/clinic-scheduler/internal/audit"
	apptDomain "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	domain "github.com/medibook/clinic-scheduler/internal/domain/payment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

type MarkCashComplete struct {
	appointments apptDomain.Repository
	payments     domain.Repository
	audit        *audit.Dispatcher
}

func NewMarkCashComplete(
	appointments apptDomain.Repository,
	payments domain.Repository,
	audit *audit.Dispatcher,
) *MarkCashComplete {
	return &MarkCashComplete{
		appointments: appointments,
		payments:     payments,
		audit:        audit,
	}
}

// Execute records clinic-side cash settlement. Doctors may only settle their
// own appointments; admins may settle any.
func (uc *MarkCashComplete) Execute(
	ctx context.Context,
	actorRole string,
	actorUserID uint,
	appointmentID uint,
) (*models.Payment, error) {

	switch actorRole {
	case models.RoleAdmin:
		if _, err := uc.appointments.GetAppointmentByID(ctx, appointmentID); err != nil {
			return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
		}

	case models.RoleDoctor:
		doctor, err := uc.appointments.GetDoctorByUserID(ctx, actorUserID)
		if err != nil {
			return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
		}
		if _, err := uc.appointments.GetAppointmentForDoctor(ctx, appointmentID, doctor.ID); err != nil {
			return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
		}

	default:
		return nil, httperr.ErrForbidden("settlement_not_allowed", "Only doctors and admins record cash settlement.")
	}

	p, err := uc.payments.FindByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, httperr.ErrNotFound("payment_not_found", "No payment recorded for this appointment.")
	}

	if p.PaymentMethod != string(domain.MethodCash) {
		return nil, httperr.ErrInvalidState("not_cash", "Payment was not made in cash.")
	}
	if p.PaymentStatus == string(domain.StatusCompleted) {
		return nil, httperr.ErrInvalidState("already_paid", "Payment is already settled.")
	}

	p.PaymentStatus = string(domain.StatusCompleted)
	if err := uc.payments.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorUserID,
		Action:   "payment_cash_settled",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return p, nil
}
