package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for catalog product storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, activeOnly bool) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
}
