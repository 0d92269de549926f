package repository

import (
	"context"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// UserRepository defines the interface for user storage operations
type UserRepository interface {
	Save(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindAllByEmail returns every document carrying the email, in creation
	// order. More than one result means duplicates that need merging.
	FindAllByEmail(ctx context.Context, email string) ([]*entity.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, id string, set map[string]interface{}) error
	AppendRoleChange(ctx context.Context, id string, role string, change entity.RoleChange) error
	List(ctx context.Context, role string, skip, limit int64) ([]*entity.User, int64, error)
	Delete(ctx context.Context, id string) error
}
