package mapping

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Mapping) error
	GetByID(ctx context.Context, id uuid.UUID) (*Mapping, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Mapping, error)
	Update(ctx context.Context, m *Mapping) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*Mapping, error)
}
