package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the data-access contract for users. Services depend only on
// this interface.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UsernameTaken(ctx context.Context, username string, excluding uuid.UUID) (bool, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*User, error)
	UpdateTrustScore(ctx context.Context, id uuid.UUID, score decimal.Decimal) error
}
