package inventory

import (
	"fmt"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// Criterios de agrupación de unidades.
const (
	GroupByLocation = "location"
	GroupBySKU      = "sku"
	GroupBySerial   = "serial"
	GroupByStatus   = "status"
)

func groupBy[T any](items []T, key func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		out[k] = append(out[k], it)
	}
	return out
}

// GroupUnits agrupa unidades por ubicación, SKU, serie o estado.
func GroupUnits(units []*entity.Unit, by string) (map[string][]*entity.Unit, error) {
	var key func(*entity.Unit) string
	switch by {
	case GroupByLocation:
		key = func(u *entity.Unit) string { return u.Location }
	case GroupBySKU:
		key = func(u *entity.Unit) string { return u.SKU }
	case GroupBySerial:
		key = func(u *entity.Unit) string { return u.SerialNumber }
	case GroupByStatus:
		key = func(u *entity.Unit) string { return u.Status }
	default:
		return nil, fmt.Errorf("%w: agrupación %q", domain.ErrInvalidInput, by)
	}
	return groupBy(units, key), nil
}

// GroupMovementsByUnit agrupa el registro de movimientos por unidad.
func GroupMovementsByUnit(movements []*entity.Movement) map[string][]*entity.Movement {
	return groupBy(movements, func(m *entity.Movement) string { return m.UnitID })
}

// GroupHistoryByAction agrupa el historial de stock por tipo de acción.
func GroupHistoryByAction(entries []*entity.StockHistoryEntry) map[string][]*entity.StockHistoryEntry {
	return groupBy(entries, func(e *entity.StockHistoryEntry) string { return e.Action })
}
