package repository

import (
	"context"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// InvitationRepository defines the interface for invitation storage operations
type InvitationRepository interface {
	Save(ctx context.Context, invitation *entity.Invitation) error
	FindByID(ctx context.Context, id string) (*entity.Invitation, error)
	FindByToken(ctx context.Context, token string) (*entity.Invitation, error)
	FindPendingByEmail(ctx context.Context, email string) (*entity.Invitation, error)
	// Refresh rotates the token and extends the expiry of an existing pending
	// invitation in place, leaving role and access untouched.
	Refresh(ctx context.Context, id string, token string, invitedAt, expiresAt time.Time) error
	MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) error
	List(ctx context.Context, status string, skip, limit int64) ([]*entity.Invitation, int64, error)
	Delete(ctx context.Context, id string) error
}
