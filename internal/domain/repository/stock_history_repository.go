package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// HistoryFilter filtros opcionales para el historial de stock.
type HistoryFilter struct {
	ProductID string
	CompanyID string
	Action    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockHistoryRepository define el puerto del historial de stock agregado (solo inserción).
type StockHistoryRepository interface {
	Create(ctx context.Context, entry *entity.StockHistoryEntry) error
	List(ctx context.Context, filter HistoryFilter) ([]*entity.StockHistoryEntry, error)
}
