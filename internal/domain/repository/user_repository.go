package repository

import (
	"context"

	"github.com/yourplaces/backend/internal/domain/entity"
)

// UserRepository defines user-related database operations. AddPlace and
// RemovePlace mutate the derived place index and must only be called inside
// the transaction that also writes the place row.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAll(ctx context.Context) ([]*entity.User, error)
	AddPlace(ctx context.Context, userID, placeID string) error
	RemovePlace(ctx context.Context, userID, placeID string) error
}
