package refset

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Refset) error
	GetByID(ctx context.Context, id uuid.UUID) (*Refset, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Refset, error)
	Update(ctx context.Context, r *Refset) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*Refset, error)
}
