package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// ActiveUnits filtra las unidades no eliminadas, conservando el orden.
func ActiveUnits(units []*entity.Unit) []*entity.Unit {
	out := make([]*entity.Unit, 0, len(units))
	for _, u := range units {
		if u.Active() {
			out = append(out, u)
		}
	}
	return out
}

// ActiveAt filtra las unidades activas en una ubicación.
func ActiveAt(units []*entity.Unit, location string) []*entity.Unit {
	out := make([]*entity.Unit, 0, len(units))
	for _, u := range units {
		if u.Active() && u.Location == location {
			out = append(out, u)
		}
	}
	return out
}

// SelectForReduction elige las n unidades activas a dar de baja cuando se reduce el stock
// sin selección manual: primero las más recientes (CreatedAt descendente, desempate por ID descendente).
func SelectForReduction(units []*entity.Unit, n int) []*entity.Unit {
	if n <= 0 {
		return nil
	}
	active := ActiveUnits(units)
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if n > len(active) {
		n = len(active)
	}
	return active[:n]
}

// CheckSelection valida la selección manual de una baja: exactamente quantity IDs distintos,
// todos de unidades activas ubicadas en location. Devuelve las unidades seleccionadas.
func CheckSelection(units []*entity.Unit, selectedIDs []string, location string, quantity int) ([]*entity.Unit, error) {
	if len(selectedIDs) != quantity {
		return nil, fmt.Errorf("%w: seleccionadas %d, requeridas %d", domain.ErrSelectionMismatch, len(selectedIDs), quantity)
	}
	byID := make(map[string]*entity.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	seen := make(map[string]struct{}, len(selectedIDs))
	out := make([]*entity.Unit, 0, len(selectedIDs))
	for _, id := range selectedIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: unidad repetida %s", domain.ErrSelectionMismatch, id)
		}
		seen[id] = struct{}{}
		u, ok := byID[id]
		if !ok || !u.Active() || u.Location != location {
			return nil, fmt.Errorf("%w: la unidad %s no está activa en %s", domain.ErrSelectionMismatch, id, location)
		}
		out = append(out, u)
	}
	return out, nil
}
