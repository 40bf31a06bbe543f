package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/inventory"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

// lowStockScanLimit máximo de productos revisados por el informe de stock bajo.
const lowStockScanLimit = 1000

// QueryUseCase lado de lectura: unidades, movimientos, historial y catálogos.
type QueryUseCase struct {
	products  repository.ProductRepository
	units     repository.UnitRepository
	movements repository.MovementRepository
	history   repository.StockHistoryRepository
	employees repository.EmployeeRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	products repository.ProductRepository,
	units repository.UnitRepository,
	movements repository.MovementRepository,
	history repository.StockHistoryRepository,
	employees repository.EmployeeRepository,
) *QueryUseCase {
	return &QueryUseCase{
		products:  products,
		units:     units,
		movements: movements,
		history:   history,
		employees: employees,
	}
}

// UnitFilter filtros opcionales sobre las unidades de un producto. Campos vacíos no filtran.
type UnitFilter struct {
	Location       string
	Status         string
	SKU            string
	Serial         string // coincidencia parcial, sin distinguir mayúsculas
	IncludeDeleted bool
}

func (f UnitFilter) match(u *entity.Unit) bool {
	if f.Location != "" && u.Location != f.Location {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.SKU != "" && u.SKU != f.SKU {
		return false
	}
	if f.Serial != "" && !strings.Contains(strings.ToLower(u.SerialNumber), strings.ToLower(f.Serial)) {
		return false
	}
	return true
}

// ProductUnits lista las unidades del producto en orden de creación.
func (uc *QueryUseCase) ProductUnits(ctx context.Context, productID string, f UnitFilter) ([]*entity.Unit, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if f.Location != "" {
		loc, ok := entity.NormalizeLocation(f.Location)
		if !ok {
			return nil, domain.ErrInvalidLocation
		}
		f.Location = loc
	}
	if f.Status != "" && !entity.ValidUnitStatus(f.Status) {
		return nil, domain.ErrInvalidStatus
	}
	units, err := uc.units.ListByProduct(ctx, p.ID, f.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Unit, 0, len(units))
	for _, u := range units {
		if f.match(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GroupedUnits lista y agrupa las unidades (location, sku, serial o status).
func (uc *QueryUseCase) GroupedUnits(ctx context.Context, productID string, f UnitFilter, by string) (map[string][]*entity.Unit, error) {
	units, err := uc.ProductUnits(ctx, productID, f)
	if err != nil {
		return nil, err
	}
	return inventory.GroupUnits(units, by)
}

// Movements lista el registro de movimientos, más recientes primero.
func (uc *QueryUseCase) Movements(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	if f.Location != "" {
		loc, ok := entity.NormalizeLocation(f.Location)
		if !ok {
			return nil, domain.ErrInvalidLocation
		}
		f.Location = loc
	}
	return uc.movements.List(ctx, f)
}

// GroupedMovements agrupa los movimientos filtrados por unidad.
func (uc *QueryUseCase) GroupedMovements(ctx context.Context, f repository.MovementFilter) (map[string][]*entity.Movement, error) {
	list, err := uc.Movements(ctx, f)
	if err != nil {
		return nil, err
	}
	return inventory.GroupMovementsByUnit(list), nil
}

// GroupedHistory agrupa el historial filtrado por acción.
func (uc *QueryUseCase) GroupedHistory(ctx context.Context, f repository.HistoryFilter) (map[string][]*entity.StockHistoryEntry, error) {
	list, err := uc.StockHistory(ctx, f)
	if err != nil {
		return nil, err
	}
	return inventory.GroupHistoryByAction(list), nil
}

// StockHistory lista el historial de stock, más reciente primero.
func (uc *QueryUseCase) StockHistory(ctx context.Context, f repository.HistoryFilter) ([]*entity.StockHistoryEntry, error) {
	if f.Action != "" && !entity.ValidStockAction(f.Action) {
		return nil, domain.ErrInvalidInput
	}
	return uc.history.List(ctx, f)
}

// Employees devuelve el directorio de empleados.
func (uc *QueryUseCase) Employees(ctx context.Context) ([]*entity.Employee, error) {
	return uc.employees.List(ctx)
}

// Locations devuelve el catálogo de ubicaciones agrupado por sede.
func (uc *QueryUseCase) Locations() map[string][]string {
	return entity.LocationsBySite()
}

// LowStockItem producto con stock bajo el mínimo o con unidades pendientes de crear.
type LowStockItem struct {
	Product        *entity.Product
	Reconciliation inventory.Reconciliation
	BelowMinStock  bool
	// Deficit unidades que faltan para alcanzar el mínimo (0 sin mínimo).
	Deficit int
}

// LowStock informa de los productos de la empresa que requieren atención, ordenados por
// déficit respecto al mínimo y después por unidades pendientes.
func (uc *QueryUseCase) LowStock(ctx context.Context, companyID string) ([]LowStockItem, error) {
	products, err := uc.products.ListByCompany(ctx, companyID, lowStockScanLimit, 0)
	if err != nil {
		return nil, err
	}
	items := make([]LowStockItem, 0)
	for _, p := range products {
		active, err := uc.units.CountActive(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		item := LowStockItem{
			Product:        p,
			Reconciliation: inventory.Reconcile(p.Stock, active),
			BelowMinStock:  p.BelowMinStock(),
		}
		if item.BelowMinStock {
			item.Deficit = *p.MinStock - p.Stock
		}
		if !item.BelowMinStock && item.Reconciliation.Consistent() {
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		return a.Reconciliation.Pending > b.Reconciliation.Pending
	})
	return items, nil
}
