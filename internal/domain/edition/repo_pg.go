package edition

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/refset/refset/internal/platform/db"
)

type editionRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &editionRepoPG{pool: pool}
}

const editionCols = `id, short_name, name, namespace, organization, default_locale, created_at, updated_at`

func scanEdition(row pgx.Row) (*Edition, error) {
	var e Edition
	err := row.Scan(&e.ID, &e.ShortName, &e.Name, &e.Namespace, &e.Organization,
		&e.DefaultLocale, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *editionRepoPG) Create(ctx context.Context, e *Edition) error {
	e.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO edition (id, short_name, name, namespace, organization, default_locale)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		e.ID, e.ShortName, e.Name, e.Namespace, e.Organization, e.DefaultLocale,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *editionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Edition, error) {
	return scanEdition(r.conn(ctx).QueryRow(ctx, `SELECT `+editionCols+` FROM edition WHERE id = $1`, id))
}

func (r *editionRepoPG) Update(ctx context.Context, e *Edition) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE edition SET short_name=$2, name=$3, namespace=$4, organization=$5,
			default_locale=$6, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		e.ID, e.ShortName, e.Name, e.Namespace, e.Organization, e.DefaultLocale,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update edition %s: %w", e.ID, err)
	}
	return nil
}

func (r *editionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM edition WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete edition %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (r *editionRepoPG) ListAll(ctx context.Context) ([]*Edition, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+editionCols+` FROM edition`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Edition
	for rows.Next() {
		e, err := scanEdition(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *editionRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}
