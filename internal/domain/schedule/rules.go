package schedule

import (
	"time"

	"github.com/medibook/clinic-scheduler/internal/dateutil"
	"github.com/medibook/clinic-scheduler/internal/httperr"
)

// Config is the decoded availability configuration for one doctor.
// Weekdays follow time.Weekday numbering (0 = Sunday .. 6 = Saturday).
type Config struct {
	Enabled       bool     `json:"enabled"`
	WorkingDays   []int    `json:"working_days"`
	DisabledDates []string `json:"disabled_dates"`
	TimeSlots     []string `json:"time_slots"`
}

// Patch carries a partial update; nil fields keep their prior values.
// The merge is shallow: a supplied slice replaces the stored one wholesale.
type Patch struct {
	Enabled       *bool     `json:"enabled"`
	WorkingDays   *[]int    `json:"working_days"`
	DisabledDates *[]string `json:"disabled_dates"`
	TimeSlots     *[]string `json:"time_slots"`
}

// Default is the all-permissive config a doctor without a stored row gets:
// weekdays on, half-hour slots 09:00 through 16:30.
func Default() Config {
	slots := make([]string, 0, 16)
	for h := 9; h < 17; h++ {
		slots = append(slots,
			time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04"),
			time.Date(0, 1, 1, h, 30, 0, 0, time.UTC).Format("15:04"),
		)
	}
	return Config{
		Enabled:       true,
		WorkingDays:   []int{1, 2, 3, 4, 5},
		DisabledDates: []string{},
		TimeSlots:     slots,
	}
}

func Merge(base Config, p Patch) Config {
	if p.Enabled != nil {
		base.Enabled = *p.Enabled
	}
	if p.WorkingDays != nil {
		base.WorkingDays = *p.WorkingDays
	}
	if p.DisabledDates != nil {
		base.DisabledDates = *p.DisabledDates
	}
	if p.TimeSlots != nil {
		base.TimeSlots = *p.TimeSlots
	}
	return base
}

// CheckDate evaluates the rules in order; the first failing rule decides the
// reason the UI shows.
func (c Config) CheckDate(date time.Time) error {
	if !c.Enabled {
		return httperr.ErrInvalidState("availability_off", "Doctor availability is turned off.")
	}

	day := dateutil.DayString(date)
	for _, d := range c.DisabledDates {
		if d == day {
			return httperr.ErrInvalidState("date_disabled", "Doctor unavailable on this date.")
		}
	}

	if len(c.WorkingDays) > 0 {
		weekday := int(date.UTC().Weekday())
		found := false
		for _, wd := range c.WorkingDays {
			if wd == weekday {
				found = true
				break
			}
		}
		if !found {
			return httperr.ErrInvalidState("not_working_day", "Doctor not available on this day: not a working day.")
		}
	}

	return nil
}

// CheckTime rejects labels outside the configured slot set. An empty set
// places no restriction.
func (c Config) CheckTime(clock string) error {
	if len(c.TimeSlots) == 0 {
		return nil
	}
	for _, s := range c.TimeSlots {
		if s == clock {
			return nil
		}
	}
	return httperr.ErrInvalidState("slot_not_offered", "Doctor does not offer this time slot.")
}
