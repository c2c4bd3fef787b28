package models

import "time"

// AvailabilityConfig is the durable per-doctor schedule configuration, keyed by
// the doctor's owning user. The set/sequence fields are stored JSON-encoded;
// absence of a row behaves as the permissive default at the application layer.
type AvailabilityConfig struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerUserID uint `gorm:"uniqueIndex;not null" json:"owner_user_id"`

	Enabled       bool   `gorm:"default:true" json:"enabled"`
	WorkingDays   string `gorm:"type:text" json:"working_days"`
	DisabledDates string `gorm:"type:text" json:"disabled_dates"`
	TimeSlots     string `gorm:"type:text" json:"time_slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
