package audit

import "context"

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// List returns at most limit entries matching f, newest first.
	List(ctx context.Context, f Filter, limit int) ([]*Entry, error)
}
