package cycle

import (
	"context"
	"errors"
	"fmt"

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

func (r *PostgresRepository) GetActive(ctx context.Context) (*WeeklyCycle, error) {
	query := `
	SELECT id, week_number, start_date, end_date, active, created_at, updated_at
	FROM weekly_cycles
	WHERE active = TRUE
	`

	c := &WeeklyCycle{}
	err := r.db.QueryRow(ctx, query).Scan(
		&c.ID,
		&c.WeekNumber,
		&c.StartDate,
		&c.EndDate,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("active cycle")
		}
		return nil, fmt.Errorf("failed to get active cycle: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) InRotation(ctx context.Context, cycleID, itemID uuid.UUID) (bool, error) {
	var in bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM weekly_items WHERE cycle_id = $1 AND item_id = $2)`,
		cycleID, itemID,
	).Scan(&in)
	if err != nil {
		return false, fmt.Errorf("failed to check rotation: %w", err)
	}
	return in, nil
}
