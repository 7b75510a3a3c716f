package cycle

import (
	"context"

	"github.com/google/uuid"
)

// Repository exposes the active cycle and its item rotation.
type Repository interface {
	// GetActive returns the currently active cycle, or a NotFoundError when
	// no cycle is active.
	GetActive(ctx context.Context) (*WeeklyCycle, error)
	// InRotation reports whether an item belongs to a cycle's weekly rotation.
	InRotation(ctx context.Context, cycleID, itemID uuid.UUID) (bool, error)
}
