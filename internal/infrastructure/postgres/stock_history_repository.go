package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo historial del stock agregado (solo inserción).
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Create inserta una entrada de historial.
func (r *StockHistoryRepo) Create(ctx context.Context, e *entity.StockHistoryEntry) error {
	query := `
		INSERT INTO stock_history (id, product_id, product_name, sku, action, previous_stock, new_stock,
			quantity, reason, user_name, company_id, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.ProductName, e.SKU, e.Action, e.PreviousStock, e.NewStock,
		e.Quantity, e.Reason, e.User, e.CompanyID, e.Category, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock history: %w", err)
	}
	return nil
}

// List lista el historial filtrado, más reciente primero.
func (r *StockHistoryRepo) List(ctx context.Context, f repository.HistoryFilter) ([]*entity.StockHistoryEntry, error) {
	var w whereBuilder
	w.eq("product_id", f.ProductID)
	w.eq("company_id", f.CompanyID)
	w.eq("action", f.Action)
	w.between("created_at", f.From, f.To)

	query := `
		SELECT id, product_id, product_name, sku, action, previous_stock, new_stock,
			quantity, reason, user_name, company_id, category, created_at
		FROM stock_history` + w.sql() + w.page("created_at DESC, id DESC", f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockHistoryEntry
	for rows.Next() {
		var e entity.StockHistoryEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.ProductName, &e.SKU, &e.Action, &e.PreviousStock, &e.NewStock,
			&e.Quantity, &e.Reason, &e.User, &e.CompanyID, &e.Category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock history: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
