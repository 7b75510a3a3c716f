package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelfscout/internal/apperr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const submissionColumns = `id, user_id, store_id, item_id, cycle_id, price, photo_url, status, gps_lat, gps_lng, submitted_at, verified_at`

func scanSubmission(row pgx.Row) (*Submission, error) {
	s := &Submission{}
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.StoreID,
		&s.ItemID,
		&s.CycleID,
		&s.Price,
		&s.PhotoURL,
		&s.Status,
		&s.GpsLat,
		&s.GpsLng,
		&s.SubmittedAt,
		&s.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *Submission) error {
	query := `
	INSERT INTO submissions (id, user_id, store_id, item_id, cycle_id, price, photo_url, status, gps_lat, gps_lng)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING submitted_at
	`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.UserID, s.StoreID, s.ItemID, s.CycleID,
		s.Price, s.PhotoURL, s.Status, s.GpsLat, s.GpsLng,
	).Scan(&s.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	s, err := scanSubmission(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("submission")
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE user_id = $1 ORDER BY submitted_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) GetByStore(ctx context.Context, storeID uuid.UUID) ([]*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE store_id = $1 ORDER BY submitted_at DESC`
	return r.list(ctx, query, storeID)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Submission, error) {
	// The WHERE status = 'pending' guard makes terminal states immutable: a
	// second resolver loses the race and gets zero rows back.
	query := `
	UPDATE submissions
	SET status = $2,
	    verified_at = CASE WHEN $2 = 'verified' THEN NOW() ELSE verified_at END
	WHERE id = $1 AND status = 'pending'
	RETURNING ` + submissionColumns

	s, err := scanSubmission(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrConflict
		}
		return nil, fmt.Errorf("failed to update submission status: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE user_id = $1 AND submitted_at >= $2`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) PendingQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*Submission, error) {
	query := `
	SELECT ` + submissionColumns + `
	FROM submissions
	WHERE status = 'pending'
	  AND user_id != $1
	  AND id NOT IN (SELECT submission_id FROM validations WHERE validator_id = $1)
	ORDER BY RANDOM()
	LIMIT $2
	`
	return r.list(ctx, query, userID, limit)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*Submission, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
