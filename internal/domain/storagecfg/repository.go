package storagecfg

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotConfigured = errors.New("no active storage configuration")

type Repository interface {
	GetActiveByUserID(ctx context.Context, userID string) (*Config, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetActiveByUserID returns the single active config for an account. The
// schema does not forbid multiple active rows; the current design consults
// the most recent one and onboarding keeps the invariant.
func (r *repository) GetActiveByUserID(ctx context.Context, userID string) (*Config, error) {
	var c Config
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
