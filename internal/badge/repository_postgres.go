package badge

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

func (r *PostgresRepository) Unearned(ctx context.Context, userID uuid.UUID) ([]*Badge, error) {
	query := `
	SELECT id, name, description, criteria, rarity, icon_url, created_at
	FROM badges
	WHERE id NOT IN (SELECT badge_id FROM user_badges WHERE user_id = $1)
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unearned badges: %w", err)
	}
	defer rows.Close()

	var badges []*Badge
	for rows.Next() {
		b := &Badge{}
		err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Criteria, &b.Rarity, &b.IconURL, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return badges, nil
}

func (r *PostgresRepository) Award(ctx context.Context, userID, badgeID uuid.UUID) (bool, error) {
	// ON CONFLICT DO NOTHING makes repeat awards no-ops instead of errors;
	// RowsAffected distinguishes the two.
	tag, err := r.db.Exec(ctx, `
	INSERT INTO user_badges (id, user_id, badge_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, badge_id) DO NOTHING`,
		uuid.New(), userID, badgeID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*EarnedBadge, error) {
	query := `
	SELECT b.id, b.name, b.description, b.criteria, b.rarity, b.icon_url, b.created_at, ub.earned_at
	FROM user_badges ub
	JOIN badges b ON ub.badge_id = b.id
	WHERE ub.user_id = $1
	ORDER BY ub.earned_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user badges: %w", err)
	}
	defer rows.Close()

	var badges []*EarnedBadge
	for rows.Next() {
		b := &EarnedBadge{}
		err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Criteria, &b.Rarity, &b.IconURL, &b.CreatedAt, &b.EarnedAt)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return badges, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_badges WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user badges: %w", err)
	}
	return count, nil
}
