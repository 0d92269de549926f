package repository

import (
	"context"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// BookingRepository defines the interface for booking storage operations
type BookingRepository interface {
	Save(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	FindByMissionID(ctx context.Context, missionID string) (*entity.Booking, error)
	// ExistsForDay reports whether the email already has a booking whose date
	// falls inside [dayStart, dayEnd), the closed-open calendar-day interval.
	ExistsForDay(ctx context.Context, email string, dayStart, dayEnd time.Time) (bool, error)
	List(ctx context.Context, filter entity.BookingFilter, skip, limit int64) ([]*entity.Booking, int64, error)
	Update(ctx context.Context, id string, set map[string]interface{}) (*entity.Booking, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entity.BookingStats, error)
}
