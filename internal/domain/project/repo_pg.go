package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/refset/refset/internal/platform/db"
)

type projectRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &projectRepoPG{pool: pool}
}

// Reads go through project_search, which joins the edition summary.
const projectCols = `id, name, description, edition_id, privacy, created_at, updated_at,
	edition_short_name, edition_name`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	var shortName, name *string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.EditionID, &p.Privacy,
		&p.CreatedAt, &p.UpdatedAt, &shortName, &name)
	if err != nil {
		return nil, err
	}
	if shortName != nil {
		p.Edition = &EditionRef{ShortName: *shortName, Name: *name}
	}
	return &p, nil
}

func (r *projectRepoPG) Create(ctx context.Context, p *Project) error {
	p.ID = uuid.New()
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO project (id, name, description, edition_id, privacy)
			VALUES ($1,$2,$3,$4,$5)`,
			p.ID, p.Name, p.Description, p.EditionID, p.Privacy)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return r.reload(ctx, p)
	})
}

func (r *projectRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	return scanProject(r.conn(ctx).QueryRow(ctx, `SELECT `+projectCols+` FROM project_search WHERE id = $1`, id))
}

func (r *projectRepoPG) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Project, error) {
	return r.list(ctx, `SELECT `+projectCols+` FROM project_search WHERE id = ANY($1)`, ids)
}

func (r *projectRepoPG) Update(ctx context.Context, p *Project) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE project SET name=$2, description=$3, edition_id=$4, privacy=$5, updated_at=NOW()
			WHERE id = $1`,
			p.ID, p.Name, p.Description, p.EditionID, p.Privacy)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update project %s: %w", p.ID, pgx.ErrNoRows)
		}
		return r.reload(ctx, p)
	})
}

func (r *projectRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM project WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete project %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (r *projectRepoPG) ListAll(ctx context.Context) ([]*Project, error) {
	return r.list(ctx, `SELECT `+projectCols+` FROM project_search`)
}

func (r *projectRepoPG) reload(ctx context.Context, p *Project) error {
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("reload project %s: %w", p.ID, err)
	}
	*p = *got
	return nil
}

func (r *projectRepoPG) list(ctx context.Context, sql string, args ...any) ([]*Project, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *projectRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}
