package proposals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Josecau2/njfinish-sub001/internal/platform/db"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// Repository defines persistence operations for the proposals module.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	CreateProposal(ctx context.Context, p Proposal) error
	GetProposal(ctx context.Context, id string) (*Proposal, error)
	ListProposals(ctx context.Context, groupID string, limit, offset int) ([]Proposal, error)
	CountProposals(ctx context.Context, groupID string) (int, error)
	CreateVersion(ctx context.Context, mv ManufacturerVersion) error
	GetVersion(ctx context.Context, proposalID, versionID string) (*ManufacturerVersion, error)
	SaveVersion(ctx context.Context, mv ManufacturerVersion) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) CreateProposal(ctx context.Context, p Proposal) error {
	const query = `
		INSERT INTO proposals (id, customer_name, owner_group_id, tax_zone, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, p.ID, p.CustomerName, p.OwnerGroupID, p.TaxZone, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *repository) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	const query = `
		SELECT id, customer_name, owner_group_id, tax_zone, created_by, created_at, updated_at
		FROM proposals WHERE id = $1`
	var p Proposal
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.CustomerName, &p.OwnerGroupID, &p.TaxZone, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListProposals(ctx context.Context, groupID string, limit, offset int) ([]Proposal, error) {
	query := `
		SELECT id, customer_name, owner_group_id, tax_zone, created_by, created_at, updated_at
		FROM proposals`
	args := []interface{}{}
	if groupID != "" {
		query += ` WHERE owner_group_id = $1`
		args = append(args, groupID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []Proposal
	for rows.Next() {
		var p Proposal
		err := rows.Scan(&p.ID, &p.CustomerName, &p.OwnerGroupID, &p.TaxZone, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

func (r *repository) CountProposals(ctx context.Context, groupID string) (int, error) {
	query := `SELECT COUNT(*) FROM proposals`
	args := []interface{}{}
	if groupID != "" {
		query += ` WHERE owner_group_id = $1`
		args = append(args, groupID)
	}
	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) CreateVersion(ctx context.Context, mv ManufacturerVersion) error {
	snapshot, err := json.Marshal(mv.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	const query = `
		INSERT INTO manufacturer_versions (id, proposal_id, manufacturer, revision, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.Exec(ctx, query, mv.ID, mv.ProposalID, mv.Manufacturer, mv.Revision, snapshot, mv.UpdatedAt)
	return err
}

func (r *repository) GetVersion(ctx context.Context, proposalID, versionID string) (*ManufacturerVersion, error) {
	const query = `
		SELECT id, proposal_id, manufacturer, revision, snapshot, updated_at
		FROM manufacturer_versions
		WHERE id = $1 AND proposal_id = $2`
	var mv ManufacturerVersion
	var snapshot []byte
	err := r.db.QueryRow(ctx, query, versionID, proposalID).Scan(&mv.ID, &mv.ProposalID, &mv.Manufacturer, &mv.Revision, &snapshot, &mv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &mv.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &mv, nil
}

func (r *repository) SaveVersion(ctx context.Context, mv ManufacturerVersion) error {
	snapshot, err := json.Marshal(mv.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	const query = `
		UPDATE manufacturer_versions
		SET revision = $1, snapshot = $2, updated_at = $3
		WHERE id = $4 AND proposal_id = $5`
	tag, err := r.db.Exec(ctx, query, mv.Revision, snapshot, mv.UpdatedAt, mv.ID, mv.ProposalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
