package appointment

import (
	"context"

	"github.com/medibook/clinic-scheduler/internal/audit"
	"github.com/medibook/clinic-scheduler/internal/dateutil"
	domain "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	schedDomain "github.com/medibook/clinic-scheduler/internal/domain/schedule"
	"github.com/medibook/clinic-scheduler/internal/httperr"
	"github.com/medibook/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	PatientID uint
	DoctorID  uint

	Date   string
	Time   string
	Reason string
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	repo     domain.Repository
	schedule schedDomain.Store
	audit    *audit.Dispatcher
}

func NewBook(
	repo domain.Repository,
	schedule schedDomain.Store,
	audit *audit.Dispatcher,
) *Book {
	return &Book{
		repo:     repo,
		schedule: schedule,
		audit:    audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute runs the booking checks in contract order: doctor exists, doctor
// bookable, availability rules, slot free. The first failing check decides
// the error.
func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	doctor, err := uc.repo.GetDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrNotFound("doctor_not_found", "Doctor not found.")
	}

	if !doctor.Available {
		return nil, httperr.ErrInvalidState("doctor_unavailable", "Doctor is not available for bookings.")
	}

	date, err := dateutil.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrInvalidArgument("invalid_date", "Date must be YYYY-MM-DD or RFC 3339.")
	}

	if !dateutil.ValidClock(in.Time) {
		return nil, httperr.ErrInvalidArgument("invalid_time", "Time must be an HH:MM label.")
	}

	// The time label is authoritative for the slot; a timestamped date must
	// agree with it (a bare day parses to midnight and is always accepted).
	if clock := dateutil.Clock(date); clock != "00:00" && clock != in.Time {
		return nil, httperr.ErrInvalidArgument("time_mismatch", "Date's time of day does not match the slot time.")
	}

	cfg, err := uc.schedule.Get(ctx, doctor.UserID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		def := schedDomain.Default()
		cfg = &def
	}

	if err := cfg.CheckDate(date); err != nil {
		return nil, err
	}
	if err := cfg.CheckTime(in.Time); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		PatientID:       in.PatientID,
		DoctorID:        doctor.ID,
		AppointmentDate: dateutil.Combine(date, in.Time),
		Time:            in.Time,
		Reason:          in.Reason,
		Status:          string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	created, err := uc.repo.GetAppointmentByID(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.PatientID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	return created, nil
}
