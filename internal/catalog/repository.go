package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// ErrDuplicateTemplate indicates a template with the same name already exists.
var ErrDuplicateTemplate = errors.New("duplicate template")

// Repository defines persistence operations for the catalog module.
type Repository interface {
	ListEntries(ctx context.Context, styleID string) ([]Entry, error)
	GetEntry(ctx context.Context, id string) (*Entry, error)
	ListTemplates(ctx context.Context) ([]ModTemplate, error)
	CreateTemplate(ctx context.Context, tpl ModTemplate) (*ModTemplate, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListEntries(ctx context.Context, styleID string) ([]Entry, error) {
	query := `
		SELECT id, style_id, code, description, price, assembly_type, assembly_price, created_at, updated_at
		FROM catalog_entries`
	args := []interface{}{}
	if styleID != "" {
		query += ` WHERE style_id = $1`
		args = append(args, styleID)
	}
	query += ` ORDER BY code`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.StyleID, &e.Code, &e.Description, &e.Price, &e.AssemblyType, &e.AssemblyPrice, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) GetEntry(ctx context.Context, id string) (*Entry, error) {
	query := `
		SELECT id, style_id, code, description, price, assembly_type, assembly_price, created_at, updated_at
		FROM catalog_entries WHERE id = $1`
	var e Entry
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.StyleID, &e.Code, &e.Description, &e.Price, &e.AssemblyType, &e.AssemblyPrice, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListTemplates(ctx context.Context) ([]ModTemplate, error) {
	query := `SELECT id, name, price, created_at FROM mod_templates ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []ModTemplate
	for rows.Next() {
		var t ModTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Price, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *repository) CreateTemplate(ctx context.Context, tpl ModTemplate) (*ModTemplate, error) {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	tpl.CreatedAt = time.Now().UTC()

	query := `INSERT INTO mod_templates (id, name, price, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.pool.Exec(ctx, query, tpl.ID, tpl.Name, tpl.Price, tpl.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateTemplate
		}
		return nil, err
	}
	return &tpl, nil
}
