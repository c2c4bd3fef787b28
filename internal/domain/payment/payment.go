package payment

import (
	"context"

	"github.com/medibook/clinic-scheduler/internal/models"
)

// ===============================
// Methods / Statuses
// ===============================

type Method string

const (
	MethodCash   Method = "CASH"
	MethodKhalti Method = "KHALTI"
	MethodEsewa  Method = "ESEWA"
)

func ValidMethod(m Method) bool {
	switch m {
	case MethodCash, MethodKhalti, MethodEsewa:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Gateway-reported states. Anything other than Completed/Pending is terminal
// failure locally (expired, user canceled, refunded upstream).
const (
	GatewayCompleted = "Completed"
	GatewayPending   = "Pending"
)

// ===============================
// Gateway contract
// ===============================

type GatewayInitiation struct {
	AmountPaisa       int64
	PurchaseOrderID   string
	PurchaseOrderName string
	ReturnURL         string
	WebsiteURL        string
}

type GatewayReceipt struct {
	Pidx       string
	PaymentURL string
}

type GatewayLookup struct {
	Pidx          string
	Status        string
	TransactionID string
}

// Gateway is the remote wallet service. Implementations surface every remote
// failure as an external_service fault and never retry.
type Gateway interface {
	Initiate(ctx context.Context, req GatewayInitiation) (*GatewayReceipt, error)
	Lookup(ctx context.Context, pidx string) (*GatewayLookup, error)
}

// ===============================
// Repository
// ===============================

type Repository interface {
	// FindByAppointment returns nil when no payment exists yet.
	FindByAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error)

	FindByPidx(ctx context.Context, pidx string) (*models.Payment, error)

	// Upsert creates or replaces the single payment row owned by the
	// appointment.
	Upsert(ctx context.Context, p *models.Payment) error

	Update(ctx context.Context, p *models.Payment) error
}
