package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SubmissionAccuracy(ctx context.Context, userID uuid.UUID) (*SubmissionAccuracy, error) {
	query := `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE status = 'verified')
	FROM submissions
	WHERE user_id = $1 AND status IN ('verified', 'rejected')
	`

	a := &SubmissionAccuracy{}
	err := r.db.QueryRow(ctx, query, userID).Scan(&a.Resolved, &a.Verified)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission accuracy: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) ValidationAccuracy(ctx context.Context, userID uuid.UUID) (*ValidationAccuracy, error) {
	query := `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE
	           (v.vote = 'confirm' AND s.status = 'verified') OR
	           (v.vote = 'flag' AND s.status = 'rejected')
	       )
	FROM validations v
	JOIN submissions s ON v.submission_id = s.id
	WHERE v.validator_id = $1 AND s.status IN ('verified', 'rejected')
	`

	a := &ValidationAccuracy{}
	err := r.db.QueryRow(ctx, query, userID).Scan(&a.Resolved, &a.Accurate)
	if err != nil {
		return nil, fmt.Errorf("failed to get validation accuracy: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) FlagsReceived(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
	SELECT COUNT(*)
	FROM validations v
	JOIN submissions s ON v.submission_id = s.id
	WHERE s.user_id = $1 AND v.vote = 'flag'
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count flags received: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SubmissionCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM submissions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SubmissionBreakdown(ctx context.Context, userID uuid.UUID) (*SubmissionBreakdown, error) {
	query := `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE status = 'verified'),
	       COUNT(*) FILTER (WHERE status = 'rejected'),
	       COUNT(*) FILTER (WHERE status = 'pending')
	FROM submissions
	WHERE user_id = $1
	`

	b := &SubmissionBreakdown{}
	err := r.db.QueryRow(ctx, query, userID).Scan(&b.Total, &b.Verified, &b.Rejected, &b.Pending)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission breakdown: %w", err)
	}

	return b, nil
}

func (r *PostgresRepository) CrownCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM crowns WHERE holder_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count crowns: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ActiveCrownCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM crowns WHERE holder_id = $1 AND status = 'active'`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active crowns: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) CrownsEarned(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM crown_transfers WHERE to_user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count crowns earned: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) WeeklyCrownDefenses(ctx context.Context, userID, cycleID uuid.UUID) (int, error) {
	// Verified submissions by others, in the cycle, against item/region pairs
	// the user holds, whose price failed to undercut the crown.
	query := `
	SELECT COUNT(s.id)
	FROM crowns c
	JOIN submissions s
	  ON s.item_id = c.item_id
	 AND s.cycle_id = c.cycle_id
	 AND s.status = 'verified'
	JOIN stores st ON s.store_id = st.id
	WHERE c.holder_id = $1
	  AND c.cycle_id = $2
	  AND st.region_id = c.region_id
	  AND s.user_id != $1
	  AND s.price >= c.lowest_price
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, cycleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count weekly crown defenses: %w", err)
	}
	return count, nil
}
