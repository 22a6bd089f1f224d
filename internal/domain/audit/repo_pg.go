package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/refset/refset/internal/platform/db"
)

type auditRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &auditRepoPG{pool: pool}
}

const entryCols = `id, user_name, action, entity_type, entity_id, query, method, path,
	ip_address, request_id, status_code, recorded_at`

func (r *auditRepoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO audit_entry (`+entryCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.UserName, e.Action, e.EntityType, e.EntityID, e.Query, e.Method, e.Path,
		e.IPAddress, e.RequestID, e.StatusCode, e.Timestamp)
	return err
}

func (r *auditRepoPG) List(ctx context.Context, f Filter, limit int) ([]*Entry, error) {
	q := db.NewSearchQuery("audit_entry", entryCols)
	if f.UserName != "" {
		q.AddEquals("user_name", f.UserName)
	}
	if f.EntityType != "" {
		q.AddEquals("entity_type", f.EntityType)
	}
	if f.Action != "" {
		q.AddEquals("action", f.Action)
	}
	if !f.Since.IsZero() {
		q.Add(fmt.Sprintf("recorded_at >= $%d", q.Idx()), f.Since)
	}
	q.OrderBy("recorded_at DESC")

	rows, err := db.Conn(ctx, r.pool).Query(ctx, q.DataSQL(limit, 0), q.DataArgs(limit, 0)...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.UserName, &e.Action, &e.EntityType, &e.EntityID, &e.Query, &e.Method,
			&e.Path, &e.IPAddress, &e.RequestID, &e.StatusCode, &e.Timestamp)
		return &e, err
	})
}
