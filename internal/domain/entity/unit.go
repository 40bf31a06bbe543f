package entity

import "time"

// Estados del ciclo de vida de una unidad.
const (
	UnitStatusAvailable   = "available"
	UnitStatusInUse       = "in-use"
	UnitStatusMaintenance = "maintenance"
	UnitStatusOutOfUse    = "out-of-use"
)

// ValidUnitStatus indica si s es uno de los estados admitidos.
func ValidUnitStatus(s string) bool {
	switch s {
	case UnitStatusAvailable, UnitStatusInUse, UnitStatusMaintenance, UnitStatusOutOfUse:
		return true
	}
	return false
}

// Unit es una unidad física (serializada o con SKU) de un producto.
// Nunca se borra físicamente: DeletedAt marca la baja lógica.
type Unit struct {
	ID           string
	ProductID    string
	SKU          string
	SerialNumber string
	Location     string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Active indica si la unidad cuenta para el stock.
func (u *Unit) Active() bool {
	return u.DeletedAt == nil
}
