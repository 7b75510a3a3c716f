package badge

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for the badge catalog and awards.
type Repository interface {
	// Unearned lists catalog badges the user has not been awarded yet.
	Unearned(ctx context.Context, userID uuid.UUID) ([]*Badge, error)
	// Award inserts an award record. A repeat award for the same (user,
	// badge) pair is a silent no-op; Award reports whether a new record was
	// actually written.
	Award(ctx context.Context, userID, badgeID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*EarnedBadge, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
