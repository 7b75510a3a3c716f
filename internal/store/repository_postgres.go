package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelfscout/internal/apperr"
)

// PostgresRepository runs the geospatial lookups against PostGIS. Stores keep
// a GEOGRAPHY(POINT, 4326) column, so ST_Distance returns meters.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	query := `
	SELECT id, name, address, ST_Y(location::geometry), ST_X(location::geometry),
	       region_id, chain, created_at, updated_at
	FROM stores
	WHERE id = $1
	`

	s := &Store{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Address,
		&s.Lat,
		&s.Lng,
		&s.RegionID,
		&s.Chain,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("store")
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) DistanceTo(ctx context.Context, storeID uuid.UUID, lat, lng float64) (float64, error) {
	query := `
	SELECT ST_Distance(location, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography)
	FROM stores
	WHERE id = $1
	`

	var meters float64
	err := r.db.QueryRow(ctx, query, storeID, lng, lat).Scan(&meters)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("store")
		}
		return 0, fmt.Errorf("failed to compute store distance: %w", err)
	}

	return meters, nil
}

func (r *PostgresRepository) Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]*StoreWithDistance, error) {
	query := `
	SELECT id, name, address, ST_Y(location::geometry), ST_X(location::geometry),
	       region_id, chain, created_at, updated_at,
	       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance_meters
	FROM stores
	WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
	ORDER BY distance_meters ASC
	`

	rows, err := r.db.Query(ctx, query, lng, lat, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby stores: %w", err)
	}
	defer rows.Close()

	var stores []*StoreWithDistance
	for rows.Next() {
		var s StoreWithDistance
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Address,
			&s.Lat,
			&s.Lng,
			&s.RegionID,
			&s.Chain,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.DistanceMeters,
		)
		if err != nil {
			return nil, err
		}
		stores = append(stores, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stores, nil
}
