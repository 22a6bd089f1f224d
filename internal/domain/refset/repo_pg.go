package refset

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/refset/refset/internal/platform/db"
)

type refsetRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &refsetRepoPG{pool: pool}
}

const refsetCols = `id, refset_id, name, type, edition_id, module_id, version_date, member_count, active,
	created_at, updated_at, edition_short_name, edition_name`

func scanRefset(row pgx.Row) (*Refset, error) {
	var r Refset
	var shortName, name *string
	err := row.Scan(&r.ID, &r.RefsetID, &r.Name, &r.Type, &r.EditionID, &r.ModuleID, &r.VersionDate,
		&r.MemberCount, &r.Active, &r.CreatedAt, &r.UpdatedAt, &shortName, &name)
	if err != nil {
		return nil, err
	}
	if shortName != nil {
		r.Edition = &EditionRef{ShortName: *shortName, Name: *name}
	}
	return &r, nil
}

func (p *refsetRepoPG) Create(ctx context.Context, r *Refset) error {
	r.ID = uuid.New()
	return db.WithTx(ctx, p.pool, func(ctx context.Context) error {
		_, err := p.conn(ctx).Exec(ctx, `
			INSERT INTO refset (id, refset_id, name, type, edition_id, module_id, version_date, member_count, active)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			r.ID, r.RefsetID, r.Name, r.Type, r.EditionID, r.ModuleID, r.VersionDate, r.MemberCount, r.Active)
		if err != nil {
			return fmt.Errorf("insert refset: %w", err)
		}
		return p.reload(ctx, r)
	})
}

func (p *refsetRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Refset, error) {
	return scanRefset(p.conn(ctx).QueryRow(ctx, `SELECT `+refsetCols+` FROM refset_search WHERE id = $1`, id))
}

func (p *refsetRepoPG) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Refset, error) {
	return p.list(ctx, `SELECT `+refsetCols+` FROM refset_search WHERE id = ANY($1)`, ids)
}

func (p *refsetRepoPG) Update(ctx context.Context, r *Refset) error {
	return db.WithTx(ctx, p.pool, func(ctx context.Context) error {
		tag, err := p.conn(ctx).Exec(ctx, `
			UPDATE refset SET refset_id=$2, name=$3, type=$4, edition_id=$5, module_id=$6,
				version_date=$7, member_count=$8, active=$9, updated_at=NOW()
			WHERE id = $1`,
			r.ID, r.RefsetID, r.Name, r.Type, r.EditionID, r.ModuleID, r.VersionDate, r.MemberCount, r.Active)
		if err != nil {
			return fmt.Errorf("update refset: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update refset %s: %w", r.ID, pgx.ErrNoRows)
		}
		return p.reload(ctx, r)
	})
}

func (p *refsetRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.conn(ctx).Exec(ctx, `DELETE FROM refset WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete refset %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (p *refsetRepoPG) ListAll(ctx context.Context) ([]*Refset, error) {
	return p.list(ctx, `SELECT `+refsetCols+` FROM refset_search`)
}

func (p *refsetRepoPG) reload(ctx context.Context, r *Refset) error {
	got, err := p.GetByID(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("reload refset %s: %w", r.ID, err)
	}
	*r = *got
	return nil
}

func (p *refsetRepoPG) list(ctx context.Context, sql string, args ...any) ([]*Refset, error) {
	rows, err := p.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Refset
	for rows.Next() {
		r, err := scanRefset(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (p *refsetRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, p.pool)
}
