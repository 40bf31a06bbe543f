package inventory

import (
	"context"

	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  repository.ProductRepository
	Units     repository.UnitRepository
	Movements repository.MovementRepository
	History   repository.StockHistoryRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún cambio aplicado: los lotes son todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

// EventPublisher difunde eventos de dominio ya confirmados a las vistas interesadas.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Actor identifica quién ejecuta la operación. User viene de la sesión (token);
// EmployeeID/EmployeeName atribuyen movimientos y son solo de auditoría.
type Actor struct {
	User         string
	EmployeeID   string
	EmployeeName string
}
