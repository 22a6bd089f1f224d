package edition

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Edition) error
	GetByID(ctx context.Context, id uuid.UUID) (*Edition, error)
	Update(ctx context.Context, e *Edition) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*Edition, error)
}
