package inventory

// Reconciliation compara el stock agregado con las unidades activas.
// Pending > 0 es una divergencia tolerada (unidades por crear); Excess > 0 nunca debe ocurrir.
type Reconciliation struct {
	Stock   int `json:"stock"`
	Active  int `json:"active_units"`
	Pending int `json:"pending_units"`
	Excess  int `json:"excess_units"`
}

// Reconcile calcula el estado de conciliación.
func Reconcile(stock, active int) Reconciliation {
	r := Reconciliation{Stock: stock, Active: active}
	switch {
	case active < stock:
		r.Pending = stock - active
	case active > stock:
		r.Excess = active - stock
	}
	return r
}

// Consistent indica que stock y unidades activas coinciden.
func (r Reconciliation) Consistent() bool {
	return r.Pending == 0 && r.Excess == 0
}

// HasPending indica que faltan unidades por crear.
func (r Reconciliation) HasPending() bool {
	return r.Pending > 0
}
