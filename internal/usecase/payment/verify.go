package payment

import (
	"context"

	"github.com/medibook/clinic-scheduler/internal/audit"
	domain "github.com/medibook/clinic-scheduler/internal/domain/payment"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

type VerifyResult struct {
	Payment *models.Payment `json:"payment"`
	Settled bool            `json:"settled"`
	Message string          `json:"message"`
}

type Verify struct {
	payments domain.Repository
	gateway  domain.Gateway
	audit    *audit.Dispatcher
}

func NewVerify(
	payments domain.Repository,
	gateway domain.Gateway,
	audit *audit.Dispatcher,
) *Verify {
	return &Verify{
		payments: payments,
		gateway:  gateway,
		audit:    audit,
	}
}

// Execute reconciles the local payment with the gateway's view of pidx.
// Idempotent: a terminal gateway status converges to the same local state on
// every call.
func (uc *Verify) Execute(
	ctx context.Context,
	pidx string,
) (*VerifyResult, error) {

	p, err := uc.payments.FindByPidx(ctx, pidx)
	if err != nil {
		return nil, httperr.ErrNotFound("payment_not_found", "No payment matches this transaction.")
	}

	lookup, err := uc.gateway.Lookup(ctx, pidx)
	if err != nil {
		return nil, err
	}

	switch lookup.Status {
	case domain.GatewayCompleted:
		p.PaymentStatus = string(domain.StatusCompleted)
		if lookup.TransactionID != "" {
			tid := lookup.TransactionID
			p.TransactionID = &tid
		}
		if err := uc.payments.Update(ctx, p); err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			Action:   "payment_completed",
			Entity:   "payment",
			EntityID: &p.ID,
		})

		return &VerifyResult{Payment: p, Settled: true, Message: "Payment completed."}, nil

	case domain.GatewayPending:
		return &VerifyResult{Payment: p, Settled: false, Message: "Payment still pending."}, nil
	}

	p.PaymentStatus = string(domain.StatusFailed)
	if err := uc.payments.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "payment_failed",
		Entity:   "payment",
		EntityID: &p.ID,
	})

	return &VerifyResult{Payment: p, Settled: false, Message: "Payment did not complete: " + lookup.Status + "."}, nil
}
