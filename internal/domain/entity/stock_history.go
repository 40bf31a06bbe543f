package entity

import "time"

// Acciones del historial de stock. "recibido" y "retirado" se conservan para lectura de
// registros antiguos; las operaciones actuales emiten add, remove, adjust y order-received.
const (
	StockActionReceived      = "recibido"
	StockActionWithdrawn     = "retirado"
	StockActionAdd           = "add"
	StockActionRemove        = "remove"
	StockActionAdjust        = "adjust"
	StockActionOrderReceived = "order-received"
)

// ValidStockAction indica si a es una acción de historial conocida.
func ValidStockAction(a string) bool {
	switch a {
	case StockActionReceived, StockActionWithdrawn, StockActionAdd,
		StockActionRemove, StockActionAdjust, StockActionOrderReceived:
		return true
	}
	return false
}

// StockHistoryEntry registra un cambio del stock agregado de un producto (solo inserción).
type StockHistoryEntry struct {
	ID            string
	ProductID     string
	ProductName   string
	SKU           string
	Action        string
	PreviousStock int
	NewStock      int
	Quantity      int // |NewStock - PreviousStock|
	Reason        string
	User          string
	CompanyID     string
	Category      string
	CreatedAt     time.Time
}

// NewStockHistoryEntry construye la entrada tomando la foto del producto y calculando Quantity.
func NewStockHistoryEntry(p *Product, action string, previous, next int, reason, user string, at time.Time) *StockHistoryEntry {
	qty := next - previous
	if qty < 0 {
		qty = -qty
	}
	return &StockHistoryEntry{
		ProductID:     p.ID,
		ProductName:   p.Name,
		SKU:           p.SKU,
		Action:        action,
		PreviousStock: previous,
		NewStock:      next,
		Quantity:      qty,
		Reason:        reason,
		User:          user,
		CompanyID:     p.CompanyID,
		Category:      p.Category,
		CreatedAt:     at,
	}
}
