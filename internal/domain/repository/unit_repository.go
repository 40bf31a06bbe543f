package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia de las unidades de cada producto.
// Las unidades nunca se borran físicamente; SoftDelete fija deleted_at.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	CreateBatch(ctx context.Context, units []*entity.Unit) error
	GetByID(ctx context.Context, productID, unitID string) (*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	SoftDelete(ctx context.Context, productID, unitID string, at time.Time) error
	// ListByProduct devuelve las unidades en orden de creación.
	ListByProduct(ctx context.Context, productID string, includeDeleted bool) ([]*entity.Unit, error)
	CountActive(ctx context.Context, productID string) (int, error)
	CountActiveByLocation(ctx context.Context, productID, location string) (int, error)
}
