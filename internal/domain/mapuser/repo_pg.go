package mapuser

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/refset/refset/internal/platform/db"
)

type mapUserRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &mapUserRepoPG{pool: pool}
}

const mapUserCols = `id, user_name, name, email, role, created_at, updated_at`

func scanMapUser(row pgx.Row) (*MapUser, error) {
	var u MapUser
	if err := row.Scan(&u.ID, &u.UserName, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mapUserRepoPG) Create(ctx context.Context, u *MapUser) error {
	u.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO map_user (id, user_name, name, email, role)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		u.ID, u.UserName, u.Name, u.Email, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *mapUserRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MapUser, error) {
	return scanMapUser(r.conn(ctx).QueryRow(ctx, `SELECT `+mapUserCols+` FROM map_user WHERE id = $1`, id))
}

func (r *mapUserRepoPG) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*MapUser, error) {
	return r.list(ctx, `SELECT `+mapUserCols+` FROM map_user WHERE id = ANY($1)`, ids)
}

func (r *mapUserRepoPG) Update(ctx context.Context, u *MapUser) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE map_user SET user_name=$2, name=$3, email=$4, role=$5, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		u.ID, u.UserName, u.Name, u.Email, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update map user %s: %w", u.ID, err)
	}
	return nil
}

func (r *mapUserRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM map_user WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete map user %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (r *mapUserRepoPG) ListAll(ctx context.Context) ([]*MapUser, error) {
	return r.list(ctx, `SELECT `+mapUserCols+` FROM map_user`)
}

func (r *mapUserRepoPG) list(ctx context.Context, sql string, args ...any) ([]*MapUser, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MapUser
	for rows.Next() {
		u, err := scanMapUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *mapUserRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}
