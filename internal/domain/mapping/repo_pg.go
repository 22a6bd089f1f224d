package mapping

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/refset/refset/internal/platform/db"
)

type mappingRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &mappingRepoPG{pool: pool}
}

const mappingCols = `id, project_id, source_code, source_display, target_code, target_display,
	relationship, status, author, created_at, updated_at`

func scanMapping(row pgx.Row) (*Mapping, error) {
	var m Mapping
	var targetCode, targetDisplay *string
	err := row.Scan(&m.ID, &m.ProjectID, &m.Source.Code, &m.Source.Display, &targetCode, &targetDisplay,
		&m.Relationship, &m.Status, &m.Author, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if targetCode != nil {
		m.Target = &Concept{Code: *targetCode}
		if targetDisplay != nil {
			m.Target.Display = *targetDisplay
		}
	}
	return &m, nil
}

func targetCols(m *Mapping) (code, display *string) {
	if m.Target == nil {
		return nil, nil
	}
	return &m.Target.Code, &m.Target.Display
}

func (r *mappingRepoPG) Create(ctx context.Context, m *Mapping) error {
	m.ID = uuid.New()
	code, display := targetCols(m)
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO mapping (id, project_id, source_code, source_display, target_code, target_display,
			relationship, status, author)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		m.ID, m.ProjectID, m.Source.Code, m.Source.Display, code, display,
		m.Relationship, m.Status, m.Author,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *mappingRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Mapping, error) {
	return scanMapping(r.conn(ctx).QueryRow(ctx, `SELECT `+mappingCols+` FROM mapping WHERE id = $1`, id))
}

func (r *mappingRepoPG) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Mapping, error) {
	return r.list(ctx, `SELECT `+mappingCols+` FROM mapping WHERE id = ANY($1)`, ids)
}

func (r *mappingRepoPG) Update(ctx context.Context, m *Mapping) error {
	code, display := targetCols(m)
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE mapping SET project_id=$2, source_code=$3, source_display=$4, target_code=$5,
			target_display=$6, relationship=$7, status=$8, author=$9, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		m.ID, m.ProjectID, m.Source.Code, m.Source.Display, code, display,
		m.Relationship, m.Status, m.Author,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update mapping %s: %w", m.ID, err)
	}
	return nil
}

func (r *mappingRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM mapping WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete mapping %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (r *mappingRepoPG) ListAll(ctx context.Context) ([]*Mapping, error) {
	return r.list(ctx, `SELECT `+mappingCols+` FROM mapping`)
}

func (r *mappingRepoPG) list(ctx context.Context, sql string, args ...any) ([]*Mapping, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Mapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *mappingRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}
