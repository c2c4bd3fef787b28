package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/medibook/clinic-scheduler/internal/domain/schedule"
	"github.com/medibook/clinic-scheduler/internal/models"
)

type AvailabilityGormStore struct {
	db *gorm.DB
}

func NewAvailabilityGormStore(db *gorm.DB) *AvailabilityGormStore {
	return &AvailabilityGormStore{db: db}
}

func (s *AvailabilityGormStore) Get(
	ctx context.Context,
	ownerUserID uint,
) (*domain.Config, error) {

	var row models.AvailabilityConfig
	err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := domain.Config{Enabled: row.Enabled}
	decodeList(row.WorkingDays, &cfg.WorkingDays)
	decodeList(row.DisabledDates, &cfg.DisabledDates)
	decodeList(row.TimeSlots, &cfg.TimeSlots)
	return &cfg, nil
}

func (s *AvailabilityGormStore) Save(
	ctx context.Context,
	ownerUserID uint,
	cfg domain.Config,
) error {

	row := models.AvailabilityConfig{
		OwnerUserID:   ownerUserID,
		Enabled:       cfg.Enabled,
		WorkingDays:   encodeList(cfg.WorkingDays),
		DisabledDates: encodeList(cfg.DisabledDates),
		TimeSlots:     encodeList(cfg.TimeSlots),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "working_days", "disabled_dates", "time_slots", "updated_at"}),
		}).
		Create(&row).Error
}

func encodeList(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeList[T any](raw string, dest *[]T) {
	if raw == "" {
		*dest = []T{}
		return
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		*dest = []T{}
	}
}

// Compile-time check
var _ domain.Store = (*AvailabilityGormStore)(nil)
