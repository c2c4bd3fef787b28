package payment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/medibook/clinic-scheduler/internal/audit"
	apptDomain "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	domain "github.com/medibook/clinic-scheduler/internal/domain/payment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT / RESULT
// ======================================================

type InitiateInput struct {
	PatientID     uint
	AppointmentID uint
	Amount        float64
	Method        string
}

type InitiateResult struct {
	Payment    *models.Payment `json:"payment"`
	PaymentURL string          `json:"payment_url,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type Initiate struct {
	appointments apptDomain.Repository
	payments     domain.Repository
	gateway      domain.Gateway

	returnURL  string
	websiteURL string

	audit *audit.Dispatcher
}

func NewInitiate(
	appointments apptDomain.Repository,
	payments domain.Repository,
	gateway domain.Gateway,
	returnURL string,
	websiteURL string,
	audit *audit.Dispatcher,
) *Initiate {
	return &Initiate{
		appointments: appointments,
		payments:     payments,
		gateway:      gateway,
		returnURL:    returnURL,
		websiteURL:   websiteURL,
		audit:        audit,
	}
}

func (uc *Initiate) Execute(
	ctx context.Context,
	in InitiateInput,
) (*InitiateResult, error) {

	ap, err := uc.appointments.GetAppointmentForPatient(ctx, in.AppointmentID, in.PatientID)
	if err != nil {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}

	existing, err := uc.payments.FindByAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.PaymentStatus == string(domain.StatusCompleted) {
		return nil, httperr.ErrInvalidState("already_paid", "Appointment is already paid.")
	}

	switch domain.Method(in.Method) {
	case domain.MethodCash:
		return uc.initiateCash(ctx, ap, in)
	case domain.MethodKhalti:
		return uc.initiateKhalti(ctx, ap, in)
	case domain.MethodEsewa:
		return uc.initiateEsewa(ctx, ap, in)
	}

	return nil, httperr.ErrInvalidArgument("unknown_method", "Payment method must be CASH, KHALTI or ESEWA.")
}

// Cash never touches the gateway; settlement happens at the clinic and is
// confirmed later by the doctor or an admin.
func (uc *Initiate) initiateCash(
	ctx context.Context,
	ap *models.Appointment,
	in InitiateInput,
) (*InitiateResult, error) {

	p := &models.Payment{
		AppointmentID: ap.ID,
		Amount:        in.Amount,
		PaymentMethod: string(domain.MethodCash),
		PaymentStatus: string(domain.StatusPending),
	}

	if err := uc.payments.Upsert(ctx, p); err != nil {
		return nil, err
	}

	uc.dispatch(in.PatientID, "payment_initiated_cash", p)

	return &InitiateResult{
		Payment: p,
		Message: "Pay at the clinic; the doctor will confirm settlement.",
	}, nil
}

func (uc *Initiate) initiateKhalti(
	ctx context.Context,
	ap *models.Appointment,
	in InitiateInput,
) (*InitiateResult, error) {

	// The order id embeds the appointment and a timestamp so repeated
	// initiations never collide at the gateway.
	orderID := fmt.Sprintf("apt-%d-%d", ap.ID, time.Now().Unix())

	// Round instead of truncating: amounts like 4.35 sit just below the true
	// product in binary and would otherwise lose a paisa.
	receipt, err := uc.gateway.Initiate(ctx, domain.GatewayInitiation{
		AmountPaisa:       int64(math.Round(in.Amount * 100)),
		PurchaseOrderID:   orderID,
		PurchaseOrderName: "Appointment #" + fmt.Sprint(ap.ID),
		ReturnURL:         uc.returnURL,
		WebsiteURL:        uc.websiteURL,
	})
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		AppointmentID: ap.ID,
		Amount:        in.Amount,
		PaymentMethod: string(domain.MethodKhalti),
		PaymentStatus: string(domain.StatusPending),
		Pidx:          &receipt.Pidx,
	}

	if err := uc.payments.Upsert(ctx, p); err != nil {
		return nil, err
	}

	uc.dispatch(in.PatientID, "payment_initiated_khalti", p)

	return &InitiateResult{
		Payment:    p,
		PaymentURL: receipt.PaymentURL,
	}, nil
}

func (uc *Initiate) initiateEsewa(
	ctx context.Context,
	ap *models.Appointment,
	in InitiateInput,
) (*InitiateResult, error) {

	p := &models.Payment{
		AppointmentID: ap.ID,
		Amount:        in.Amount,
		PaymentMethod: string(domain.MethodEsewa),
		PaymentStatus: string(domain.StatusPending),
	}

	if err := uc.payments.Upsert(ctx, p); err != nil {
		return nil, err
	}

	uc.dispatch(in.PatientID, "payment_initiated_esewa", p)

	return &InitiateResult{
		Payment: p,
		Message: "eSewa integration is pending; the payment was recorded as unpaid.",
	}, nil
}

func (uc *Initiate) dispatch(actorID uint, action string, p *models.Payment) {
	uc.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   action,
		Entity:   "payment",
		EntityID: &p.ID,
	})
}
