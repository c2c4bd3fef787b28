package schedule

import "context"

type Store interface {
	// Get returns nil when the doctor has no stored config; callers fall back
	// to Default().
	Get(ctx context.Context, ownerUserID uint) (*Config, error)

	Save(ctx context.Context, ownerUserID uint, cfg Config) error
}
