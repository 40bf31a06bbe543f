// Package memory implementa los puertos de persistencia en memoria. Sirve como backend
// de desarrollo (INVENTORY_STORAGE=memory) y como doble de pruebas de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products  map[string]*entity.Product
	units     map[string][]*entity.Unit // por producto, en orden de creación
	movements []*entity.Movement
	history   []*entity.StockHistoryEntry
	employees map[string]*entity.Employee
}

func (s *state) clone() *state {
	out := &state{
		products:  make(map[string]*entity.Product, len(s.products)),
		units:     make(map[string][]*entity.Unit, len(s.units)),
		movements: append([]*entity.Movement(nil), s.movements...),
		history:   append([]*entity.StockHistoryEntry(nil), s.history...),
		employees: s.employees,
	}
	for id, p := range s.products {
		out.products[id] = cloneProduct(p)
	}
	for id, list := range s.units {
		cp := make([]*entity.Unit, len(list))
		for i, u := range list {
			cp[i] = cloneUnit(u)
		}
		out.units[id] = cp
	}
	return out
}

// Store guarda todo el inventario bajo un único mutex. Run serializa las transacciones
// y restaura la foto previa si fn falla.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{
		products:  make(map[string]*entity.Product),
		units:     make(map[string][]*entity.Unit),
		employees: make(map[string]*entity.Employee),
	}}
}

// Run ejecuta fn con repositorios sobre el estado bloqueado. Todo o nada.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	repos := inventory.TxRepos{
		Products:  &ProductRepo{s: s},
		Units:     &UnitRepo{s: s},
		Movements: &MovementRepo{s: s},
		History:   &StockHistoryRepo{s: s},
	}
	if err := fn(ctx, repos); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s, locking: true} }

// Units repositorio de unidades fuera de transacción.
func (s *Store) Units() *UnitRepo { return &UnitRepo{s: s, locking: true} }

// Movements registro de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s, locking: true} }

// History historial de stock fuera de transacción.
func (s *Store) History() *StockHistoryRepo { return &StockHistoryRepo{s: s, locking: true} }

// Employees directorio de empleados.
func (s *Store) Employees() *EmployeeRepo { return &EmployeeRepo{s: s} }

// AddEmployees carga empleados en el directorio.
func (s *Store) AddEmployees(employees ...*entity.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range employees {
		cp := *e
		s.st.employees[e.ID] = &cp
	}
}

// lock toma el mutex solo para repositorios usados fuera de Run.
func (s *Store) lock(locking bool) func() {
	if !locking {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.Price != nil {
		price := *p.Price
		cp.Price = &price
	}
	if p.MinStock != nil {
		ms := *p.MinStock
		cp.MinStock = &ms
	}
	return &cp
}

func cloneUnit(u *entity.Unit) *entity.Unit {
	cp := *u
	if u.DeletedAt != nil {
		at := *u.DeletedAt
		cp.DeletedAt = &at
	}
	return &cp
}

// paginate aplica offset y límite (0 = 100) a una lista ya ordenada.
func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 100
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
