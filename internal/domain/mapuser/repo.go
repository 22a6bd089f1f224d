package mapuser

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *MapUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*MapUser, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*MapUser, error)
	Update(ctx context.Context, u *MapUser) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*MapUser, error)
}
