package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.UnitRepository         = (*UnitRepo)(nil)
	_ repository.MovementRepository     = (*MovementRepo)(nil)
	_ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)
	_ repository.EmployeeRepository     = (*EmployeeRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s       *Store
	locking bool
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.locking)()
	if _, ok := r.s.st.products[p.ID]; ok {
		return fmt.Errorf("%w: producto duplicado", domain.ErrConflict)
	}
	r.s.st.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.locking)()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

// GetForUpdate equivale a GetByID: Run ya tiene el almacén bloqueado.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update conserva el stock almacenado; el stock solo cambia con UpdateStock.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.locking)()
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneProduct(p)
	cp.Stock = cur.Stock
	cp.CompanyID = cur.CompanyID
	cp.CreatedAt = cur.CreatedAt
	r.s.st.products[p.ID] = cp
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, productID string, stock int) error {
	defer r.s.lock(r.locking)()
	p, ok := r.s.st.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	defer r.s.lock(r.locking)()
	var list []*entity.Product
	for _, p := range r.s.st.products {
		if p.CompanyID == companyID {
			list = append(list, cloneProduct(p))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, limit, offset), nil
}

// UnitRepo unidades en memoria.
type UnitRepo struct {
	s       *Store
	locking bool
}

func (r *UnitRepo) find(productID, unitID string) *entity.Unit {
	for _, u := range r.s.st.units[productID] {
		if u.ID == unitID {
			return u
		}
	}
	return nil
}

// checkSerial replica el índice único parcial: serie única entre unidades activas del producto.
func (r *UnitRepo) checkSerial(u *entity.Unit) error {
	if u.SerialNumber == "" || !u.Active() {
		return nil
	}
	for _, other := range r.s.st.units[u.ProductID] {
		if other.ID != u.ID && other.Active() && other.SerialNumber == u.SerialNumber {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSerial, u.SerialNumber)
		}
	}
	return nil
}

func (r *UnitRepo) insert(u *entity.Unit) error {
	if r.find(u.ProductID, u.ID) != nil {
		return fmt.Errorf("%w: unidad duplicada", domain.ErrConflict)
	}
	if err := r.checkSerial(u); err != nil {
		return err
	}
	r.s.st.units[u.ProductID] = append(r.s.st.units[u.ProductID], cloneUnit(u))
	return nil
}

func (r *UnitRepo) Create(_ context.Context, u *entity.Unit) error {
	defer r.s.lock(r.locking)()
	return r.insert(u)
}

// CreateBatch inserta todas o ninguna.
func (r *UnitRepo) CreateBatch(_ context.Context, units []*entity.Unit) error {
	defer r.s.lock(r.locking)()
	prev := r.s.st.units
	cp := make(map[string][]*entity.Unit, len(prev))
	for k, v := range prev {
		cp[k] = append([]*entity.Unit(nil), v...)
	}
	r.s.st.units = cp
	for _, u := range units {
		if err := r.insert(u); err != nil {
			r.s.st.units = prev
			return err
		}
	}
	return nil
}

func (r *UnitRepo) GetByID(_ context.Context, productID, unitID string) (*entity.Unit, error) {
	defer r.s.lock(r.locking)()
	u := r.find(productID, unitID)
	if u == nil {
		return nil, nil
	}
	return cloneUnit(u), nil
}

func (r *UnitRepo) Update(_ context.Context, u *entity.Unit) error {
	defer r.s.lock(r.locking)()
	cur := r.find(u.ProductID, u.ID)
	if cur == nil || !cur.Active() {
		return domain.ErrNotFound
	}
	if err := r.checkSerial(u); err != nil {
		return err
	}
	cur.SKU = u.SKU
	cur.SerialNumber = u.SerialNumber
	cur.Location = u.Location
	cur.Status = u.Status
	cur.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *UnitRepo) SoftDelete(_ context.Context, productID, unitID string, at time.Time) error {
	defer r.s.lock(r.locking)()
	cur := r.find(productID, unitID)
	if cur == nil || !cur.Active() {
		return domain.ErrNotFound
	}
	cur.DeletedAt = &at
	cur.UpdatedAt = at
	return nil
}

func (r *UnitRepo) ListByProduct(_ context.Context, productID string, includeDeleted bool) ([]*entity.Unit, error) {
	defer r.s.lock(r.locking)()
	var list []*entity.Unit
	for _, u := range r.s.st.units[productID] {
		if includeDeleted || u.Active() {
			list = append(list, cloneUnit(u))
		}
	}
	return list, nil
}

func (r *UnitRepo) CountActive(_ context.Context, productID string) (int, error) {
	defer r.s.lock(r.locking)()
	n := 0
	for _, u := range r.s.st.units[productID] {
		if u.Active() {
			n++
		}
	}
	return n, nil
}

func (r *UnitRepo) CountActiveByLocation(_ context.Context, productID, location string) (int, error) {
	defer r.s.lock(r.locking)()
	n := 0
	for _, u := range r.s.st.units[productID] {
		if u.Active() && u.Location == location {
			n++
		}
	}
	return n, nil
}

// MovementRepo registro de movimientos en memoria.
type MovementRepo struct {
	s       *Store
	locking bool
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	defer r.s.lock(r.locking)()
	cp := *m
	r.s.st.movements = append(r.s.st.movements, &cp)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.s.lock(r.locking)()
	var list []*entity.Movement
	for _, m := range r.s.st.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID ||
			f.UnitID != "" && m.UnitID != f.UnitID ||
			f.EmployeeID != "" && m.EmployeeID != f.EmployeeID ||
			f.Location != "" && m.FromLocation != f.Location && m.ToLocation != f.Location ||
			!inRange(m.CreatedAt, f.From, f.To) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return newer(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return paginate(list, f.Limit, f.Offset), nil
}

// StockHistoryRepo historial en memoria.
type StockHistoryRepo struct {
	s       *Store
	locking bool
}

func (r *StockHistoryRepo) Create(_ context.Context, e *entity.StockHistoryEntry) error {
	defer r.s.lock(r.locking)()
	cp := *e
	r.s.st.history = append(r.s.st.history, &cp)
	return nil
}

func (r *StockHistoryRepo) List(_ context.Context, f repository.HistoryFilter) ([]*entity.StockHistoryEntry, error) {
	defer r.s.lock(r.locking)()
	var list []*entity.StockHistoryEntry
	for _, e := range r.s.st.history {
		if f.ProductID != "" && e.ProductID != f.ProductID ||
			f.CompanyID != "" && e.CompanyID != f.CompanyID ||
			f.Action != "" && e.Action != f.Action ||
			!inRange(e.CreatedAt, f.From, f.To) {
			continue
		}
		cp := *e
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return newer(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return paginate(list, f.Limit, f.Offset), nil
}

// EmployeeRepo directorio en memoria. Se carga con Store.AddEmployees.
type EmployeeRepo struct {
	s *Store
}

func (r *EmployeeRepo) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.st.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *EmployeeRepo) List(_ context.Context) ([]*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.Employee, 0, len(r.s.st.employees))
	for _, e := range r.s.st.employees {
		cp := *e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func inRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}

func newer(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA > idB
}
