package schedule

import (
	"context"

	"github.com/medibook/clinic-scheduler/internal/audit"
	domain "github.com/medibook/clinic-scheduler/internal/domain/schedule"
	"github.com/medibook/clinic-scheduler/internal/dateutil"
	"github.com/medibook/clinic-scheduler/internal/httperr"
)

type SetAvailability struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewSetAvailability(
	store domain.Store,
	audit *audit.Dispatcher,
) *SetAvailability {
	return &SetAvailability{
		store: store,
		audit: audit,
	}
}

// Execute shallow-merges the patch into the stored config (defaults when none
// exists) and returns the full merged result.
func (uc *SetAvailability) Execute(
	ctx context.Context,
	doctorUserID uint,
	patch domain.Patch,
) (*domain.Config, error) {

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	cfg, err := uc.store.Get(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		def := domain.Default()
		cfg = &def
	}

	merged := domain.Merge(*cfg, patch)

	if err := uc.store.Save(ctx, doctorUserID, merged); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID: &doctorUserID,
		Action:  "availability_updated",
		Entity:  "availability_config",
	})

	return &merged, nil
}

func validatePatch(p domain.Patch) error {
	if p.WorkingDays != nil {
		for _, d := range *p.WorkingDays {
			if d < 0 || d > 6 {
				return httperr.ErrInvalidArgument("invalid_weekday", "Working days must be 0 (Sunday) through 6 (Saturday).")
			}
		}
	}
	if p.DisabledDates != nil {
		for _, d := range *p.DisabledDates {
			if _, err := dateutil.ParseDay(d); err != nil {
				return httperr.ErrInvalidArgument("invalid_date", "Disabled dates must be YYYY-MM-DD.")
			}
		}
	}
	if p.TimeSlots != nil {
		for _, s := range *p.TimeSlots {
			if !dateutil.ValidClock(s) {
				return httperr.ErrInvalidArgument("invalid_time", "Time slots must be HH:MM labels.")
			}
		}
	}
	return nil
}
