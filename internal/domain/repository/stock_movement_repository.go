package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID  string
	UnitID     string
	Location   string // coincide con origen o destino
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementRepository define el puerto del registro de movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
