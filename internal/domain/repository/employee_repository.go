package repository

import (
	"context"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// EmployeeRepository expone el directorio de empleados (solo lectura para el núcleo).
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	List(ctx context.Context) ([]*entity.Employee, error)
}
