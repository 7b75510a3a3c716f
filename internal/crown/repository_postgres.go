package crown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"shelfscout/internal/apperr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const crownColumns = `id, item_id, region_id, cycle_id, holder_id, submission_id, lowest_price, status, claimed_at`

func scanCrown(row pgx.Row) (*Crown, error) {
	c := &Crown{}
	err := row.Scan(
		&c.ID,
		&c.ItemID,
		&c.RegionID,
		&c.CycleID,
		&c.HolderID,
		&c.SubmissionID,
		&c.LowestPrice,
		&c.Status,
		&c.ClaimedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// WithKeyLock wraps fn in a transaction whose first read takes a FOR UPDATE
// row lock on the triple's crown. Serialization failures, deadlocks and the
// create/create race all surface as ErrConflict for the caller to retry.
func (r *PostgresRepository) WithKeyLock(ctx context.Context, key Key, fn func(tx Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin crown transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&postgresTx{tx: tx, key: key}); err != nil {
		return translateConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateConflict(fmt.Errorf("failed to commit crown transaction: %w", err))
	}
	return nil
}

func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "40001", "40P01":
			return apperr.ErrConflict
		}
	}
	return err
}

type postgresTx struct {
	tx  pgx.Tx
	key Key
}

func (t *postgresTx) Current(ctx context.Context) (*Crown, error) {
	query := `
	SELECT ` + crownColumns + `
	FROM crowns
	WHERE item_id = $1 AND region_id = $2 AND cycle_id = $3
	FOR UPDATE
	`

	c, err := scanCrown(t.tx.QueryRow(ctx, query, t.key.ItemID, t.key.RegionID, t.key.CycleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read crown row: %w", err)
	}

	return c, nil
}

func (t *postgresTx) Create(ctx context.Context, c *Crown) error {
	query := `
	INSERT INTO crowns (id, item_id, region_id, cycle_id, holder_id, submission_id, lowest_price, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING claimed_at
	`

	err := t.tx.QueryRow(ctx, query,
		c.ID, c.ItemID, c.RegionID, c.CycleID,
		c.HolderID, c.SubmissionID, c.LowestPrice, c.Status,
	).Scan(&c.ClaimedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.ErrConflict
		}
		return fmt.Errorf("failed to create crown: %w", err)
	}

	return nil
}

func (t *postgresTx) Reassign(ctx context.Context, crownID, holderID, submissionID uuid.UUID, price decimal.Decimal, claimedAt time.Time) error {
	_, err := t.tx.Exec(ctx, `
	UPDATE crowns
	SET holder_id = $2, submission_id = $3, lowest_price = $4, status = 'active', claimed_at = $5, updated_at = NOW()
	WHERE id = $1`,
		crownID, holderID, submissionID, price, claimedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to reassign crown: %w", err)
	}
	return nil
}

func (t *postgresTx) MarkContested(ctx context.Context, crownID uuid.UUID) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE crowns SET status = 'contested', updated_at = NOW() WHERE id = $1`,
		crownID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark crown contested: %w", err)
	}
	return nil
}

func (t *postgresTx) RecordTransfer(ctx context.Context, tr *Transfer) error {
	query := `
	INSERT INTO crown_transfers (id, crown_id, from_user_id, to_user_id, price)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING transferred_at
	`

	err := t.tx.QueryRow(ctx, query, tr.ID, tr.CrownID, tr.FromUserID, tr.ToUserID, tr.Price).
		Scan(&tr.TransferredAt)
	if err != nil {
		return fmt.Errorf("failed to record crown transfer: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Crown, error) {
	query := `SELECT ` + crownColumns + ` FROM crowns WHERE id = $1`

	c, err := scanCrown(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("crown")
		}
		return nil, fmt.Errorf("failed to get crown: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByRegion(ctx context.Context, regionID uuid.UUID, cycleID *uuid.UUID) ([]*Crown, error) {
	query := `SELECT ` + crownColumns + ` FROM crowns WHERE region_id = $1`
	args := []interface{}{regionID}
	if cycleID != nil {
		query += ` AND cycle_id = $2`
		args = append(args, *cycleID)
	}
	return r.list(ctx, query, args...)
}

func (r *PostgresRepository) GetByHolder(ctx context.Context, holderID uuid.UUID) ([]*Crown, error) {
	query := `SELECT ` + crownColumns + ` FROM crowns WHERE holder_id = $1`
	return r.list(ctx, query, holderID)
}

func (r *PostgresRepository) Transfers(ctx context.Context, crownID uuid.UUID) ([]*Transfer, error) {
	query := `
	SELECT id, crown_id, from_user_id, to_user_id, price, transferred_at
	FROM crown_transfers
	WHERE crown_id = $1
	ORDER BY transferred_at ASC
	`

	rows, err := r.db.Query(ctx, query, crownID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crown transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		t := &Transfer{}
		err := rows.Scan(&t.ID, &t.CrownID, &t.FromUserID, &t.ToUserID, &t.Price, &t.TransferredAt)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return transfers, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*Crown, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crowns: %w", err)
	}
	defer rows.Close()

	var crowns []*Crown
	for rows.Next() {
		c, err := scanCrown(rows)
		if err != nil {
			return nil, err
		}
		crowns = append(crowns, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return crowns, nil
}
