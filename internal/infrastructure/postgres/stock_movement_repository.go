package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo registro de movimientos (solo inserción).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, unit_id, product_id, product_name, sku, serial_number,
			from_location, to_location, user_name, employee_id, employee_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.UnitID, m.ProductID, m.ProductName, m.SKU, m.SerialNumber,
		m.FromLocation, m.ToLocation, m.User, m.EmployeeID, m.EmployeeName, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List lista movimientos filtrados, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var w whereBuilder
	w.eq("product_id", f.ProductID)
	w.eq("unit_id", f.UnitID)
	w.eq("employee_id", f.EmployeeID)
	if f.Location != "" {
		w.add("(from_location = ? OR to_location = ?)", f.Location)
	}
	w.between("created_at", f.From, f.To)

	query := `
		SELECT id, unit_id, product_id, product_name, sku, serial_number,
			from_location, to_location, user_name, employee_id, employee_name, created_at
		FROM stock_movements` + w.sql() + w.page("created_at DESC, id DESC", f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.UnitID, &m.ProductID, &m.ProductName, &m.SKU, &m.SerialNumber,
			&m.FromLocation, &m.ToLocation, &m.User, &m.EmployeeID, &m.EmployeeName, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
