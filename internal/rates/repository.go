package rates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// Repository defines persistence operations for the rates module.
type Repository interface {
	GroupMultiplier(ctx context.Context, groupID string) (float64, error)
	ZoneTaxRate(ctx context.Context, zone string) (float64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GroupMultiplier(ctx context.Context, groupID string) (float64, error) {
	const query = `SELECT multiplier FROM group_multipliers WHERE group_id = $1`
	var m float64
	err := r.pool.QueryRow(ctx, query, groupID).Scan(&m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return m, nil
}

func (r *repository) ZoneTaxRate(ctx context.Context, zone string) (float64, error) {
	const query = `SELECT rate FROM tax_zones WHERE zone = $1`
	var rate float64
	err := r.pool.QueryRow(ctx, query, zone).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return rate, nil
}
