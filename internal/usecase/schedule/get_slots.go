package schedule

import (
	"context"
	"time"

	apptDomain "github.com/medibook/clinic-scheduler/internal/domain/appointment"
	domain "github.com/medibook/clinic-scheduler/internal/domain/schedule"
	"github.com/medibook/clinic-scheduler/internal/httperr"
)

type GetSlots struct {
	repo  apptDomain.Repository
	store domain.Store
}

func NewGetSlots(
	repo apptDomain.Repository,
	store domain.Store,
) *GetSlots {
	return &GetSlots{
		repo:  repo,
		store: store,
	}
}

// Execute returns the bookable labels for one doctor and day: the configured
// slots minus the ones already taken. A day the rules reject yields an empty
// list rather than an error, so browse screens can render it plainly.
func (uc *GetSlots) Execute(
	ctx context.Context,
	doctorID uint,
	day time.Time,
) ([]string, error) {

	doctor, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, httperr.ErrNotFound("doctor_not_found", "Doctor not found.")
	}

	if !doctor.Available {
		return []string{}, nil
	}

	cfg, err := uc.store.Get(ctx, doctor.UserID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		def := domain.Default()
		cfg = &def
	}

	if err := cfg.CheckDate(day); err != nil {
		return []string{}, nil
	}

	booked, err := uc.repo.ListForDoctorOnDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, ap := range booked {
		taken[ap.Time] = true
	}

	free := make([]string, 0, len(cfg.TimeSlots))
	for _, s := range cfg.TimeSlots {
		if !taken[s] {
			free = append(free, s)
		}
	}

	return free, nil
}
