package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelfscout/internal/apperr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, v *Validation) error {
	query := `
	INSERT INTO validations (id, submission_id, validator_id, vote, reason)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, v.ID, v.SubmissionID, v.ValidatorID, v.Vote, v.Reason).
		Scan(&v.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.ErrDuplicate
		}
		return fmt.Errorf("failed to create validation: %w", err)
	}

	return nil
}

func (r *PostgresRepository) HasVoted(ctx context.Context, submissionID, validatorID uuid.UUID) (bool, error) {
	var voted bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM validations WHERE submission_id = $1 AND validator_id = $2)`,
		submissionID, validatorID,
	).Scan(&voted)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return voted, nil
}

func (r *PostgresRepository) CountVotes(ctx context.Context, submissionID uuid.UUID) (*Tally, error) {
	query := `
	SELECT COUNT(*) FILTER (WHERE vote = 'confirm'),
	       COUNT(*) FILTER (WHERE vote = 'flag')
	FROM validations
	WHERE submission_id = $1
	`

	t := &Tally{}
	err := r.db.QueryRow(ctx, query, submissionID).Scan(&t.Confirms, &t.Flags)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) Validators(ctx context.Context, submissionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT validator_id FROM validations WHERE submission_id = $1`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list validators: %w", err)
	}
	defer rows.Close()

	var validators []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		validators = append(validators, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return validators, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, validatorID uuid.UUID) (*Stats, error) {
	query := `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE vote = 'confirm'),
	       COUNT(*) FILTER (WHERE vote = 'flag')
	FROM validations
	WHERE validator_id = $1
	`

	s := &Stats{}
	err := r.db.QueryRow(ctx, query, validatorID).Scan(&s.Total, &s.Confirms, &s.Flags)
	if err != nil {
		return nil, fmt.Errorf("failed to get validation stats: %w", err)
	}

	return s, nil
}
