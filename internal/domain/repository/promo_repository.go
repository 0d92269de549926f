package repository

import (
	"context"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// PromoRepository defines the interface for promo storage operations
type PromoRepository interface {
	Save(ctx context.Context, promo *entity.Promo) error
	FindByID(ctx context.Context, id string) (*entity.Promo, error)
	// FindActiveOverlapping returns active promos whose [startDate, endDate]
	// intersects [start, end] with inclusive bounds, excluding excludeID when
	// non-empty.
	FindActiveOverlapping(ctx context.Context, start, end time.Time, excludeID string) ([]*entity.Promo, error)
	// FindCurrentlyActive returns the most-recently-created promo that is
	// active and whose interval contains now, or nil when none exists.
	FindCurrentlyActive(ctx context.Context, now time.Time) (*entity.Promo, error)
	List(ctx context.Context, skip, limit int64) ([]*entity.Promo, int64, error)
	Update(ctx context.Context, id string, set map[string]interface{}) (*entity.Promo, error)
	Delete(ctx context.Context, id string) error
}
