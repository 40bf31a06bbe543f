package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// UnitDraft datos de una unidad aún no persistida.
type UnitDraft struct {
	SKU          string
	SerialNumber string
}

// ResolveBulkQuantity determina cuántas unidades crear en un alta masiva.
// Una cantidad explícita manda; si no, max(len(skus), len(serials), faltante). Las listas
// se asignan por posición y las entradas sobrantes quedan sin SKU o con serie provisional.
func ResolveBulkQuantity(explicit int, skus, serials []string, shortfall int) int {
	if explicit > 0 {
		return explicit
	}
	return max(len(skus), len(serials), shortfall, 0)
}

// PlaceholderSerial genera un número de serie provisional AUTO-<timestamp>-<index>.
func PlaceholderSerial(at time.Time, index int) string {
	return fmt.Sprintf("AUTO-%d-%d", at.UnixMilli(), index)
}

// PlanBulkUnits asigna posicionalmente series y SKUs a quantity unidades.
// Las entradas sin SKU quedan vacías. Para productos con serie, las entradas sin serie reciben
// un serial provisional solo si allowPlaceholders; si no, el alta se rechaza.
func PlanBulkUnits(quantity int, skus, serials []string, requiresSerial, allowPlaceholders bool, at time.Time) ([]UnitDraft, error) {
	if quantity <= 0 {
		return nil, domain.ErrQuantityOutOfRange
	}
	if len(skus) > quantity {
		return nil, domain.ErrSKUCountMismatch
	}
	if len(serials) > quantity {
		return nil, domain.ErrSerialCountMismatch
	}
	if requiresSerial && len(serials) < quantity && !allowPlaceholders {
		return nil, domain.ErrSerialCountMismatch
	}

	drafts := make([]UnitDraft, quantity)
	for i := range drafts {
		if i < len(skus) {
			drafts[i].SKU = strings.TrimSpace(skus[i])
		}
		if i < len(serials) {
			drafts[i].SerialNumber = strings.TrimSpace(serials[i])
			if requiresSerial && drafts[i].SerialNumber == "" {
				return nil, fmt.Errorf("%w: posición %d", domain.ErrSerialRequired, i+1)
			}
			continue
		}
		if requiresSerial {
			drafts[i].SerialNumber = PlaceholderSerial(at, i+1)
		}
	}
	return drafts, nil
}

// ValidateSerials comprueba que las series no estén vacías, no se repitan en la lista
// y no coincidan con la serie de una unidad activa del producto.
func ValidateSerials(serials []string, existing []*entity.Unit) error {
	taken := make(map[string]struct{}, len(existing)+len(serials))
	for _, u := range existing {
		if u.Active() && u.SerialNumber != "" {
			taken[u.SerialNumber] = struct{}{}
		}
	}
	for i, s := range serials {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("%w: posición %d", domain.ErrSerialRequired, i+1)
		}
		if _, dup := taken[s]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSerial, s)
		}
		taken[s] = struct{}{}
	}
	return nil
}

// ValidateSKUs exige, si se envía lista de SKUs, exactamente quantity entradas.
func ValidateSKUs(skus []string, quantity int) error {
	if len(skus) > 0 && len(skus) != quantity {
		return domain.ErrSKUCountMismatch
	}
	return nil
}

// TrimAll recorta espacios y descarta la lista si todas las entradas quedan vacías.
func TrimAll(list []string) []string {
	out := make([]string, len(list))
	empty := true
	for i, s := range list {
		out[i] = strings.TrimSpace(s)
		if out[i] != "" {
			empty = false
		}
	}
	if empty {
		return nil
	}
	return out
}
