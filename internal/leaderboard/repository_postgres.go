package leaderboard

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

func (r *PostgresRepository) Regional(ctx context.Context, regionID uuid.UUID, limit int) ([]*Entry, error) {
	query := `
	SELECT u.id, u.username, u.trust_score,
	       COALESCE(c.crown_count, 0)::int,
	       COALESCE(s.submission_count, 0)::int
	FROM users u
	LEFT JOIN (
	    SELECT holder_id, COUNT(*) AS crown_count
	    FROM crowns
	    WHERE region_id = $1 AND status = 'active'
	    GROUP BY holder_id
	) c ON u.id = c.holder_id
	LEFT JOIN (
	    SELECT user_id, COUNT(*) AS submission_count
	    FROM submissions
	    WHERE status = 'verified'
	    GROUP BY user_id
	) s ON u.id = s.user_id
	WHERE u.region_id = $1
	ORDER BY COALESCE(c.crown_count, 0) DESC, COALESCE(s.submission_count, 0) DESC
	LIMIT $2
	`
	return r.listEntries(ctx, query, regionID, limit)
}

func (r *PostgresRepository) National(ctx context.Context, limit int) ([]*Entry, error) {
	query := `
	SELECT u.id, u.username, u.trust_score,
	       COALESCE(c.crown_count, 0)::int,
	       COALESCE(s.submission_count, 0)::int
	FROM users u
	LEFT JOIN (
	    SELECT holder_id, COUNT(*) AS crown_count
	    FROM crowns
	    WHERE status = 'active'
	    GROUP BY holder_id
	) c ON u.id = c.holder_id
	LEFT JOIN (
	    SELECT user_id, COUNT(*) AS submission_count
	    FROM submissions
	    WHERE status = 'verified'
	    GROUP BY user_id
	) s ON u.id = s.user_id
	ORDER BY COALESCE(c.crown_count, 0) DESC, COALESCE(s.submission_count, 0) DESC
	LIMIT $1
	`
	return r.listEntries(ctx, query, limit)
}

func (r *PostgresRepository) Weekly(ctx context.Context, cycleID uuid.UUID, limit int) ([]*WeeklyEntry, error) {
	query := `
	SELECT u.id, u.username,
	       COUNT(s.id)::int AS verified_submissions,
	       MIN(s.price) AS best_price
	FROM users u
	JOIN submissions s ON u.id = s.user_id
	WHERE s.cycle_id = $1 AND s.status = 'verified'
	GROUP BY u.id, u.username
	ORDER BY verified_submissions DESC
	LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cycleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*WeeklyEntry
	for rows.Next() {
		e := &WeeklyEntry{}
		err := rows.Scan(&e.UserID, &e.Username, &e.VerifiedSubmissions, &e.BestPrice)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *PostgresRepository) listEntries(ctx context.Context, query string, args ...interface{}) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		err := rows.Scan(&e.UserID, &e.Username, &e.TrustScore, &e.CrownCount, &e.SubmissionCount)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
