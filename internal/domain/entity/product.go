package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Stock es la cantidad objetivo de unidades
// activas (no eliminadas); puede ir por delante de las unidades creadas, nunca por detrás.
type Product struct {
	ID              string
	CompanyID       string
	Name            string
	SKU             string // opcional
	Category        string
	Department      string
	SupplierID      string
	Warehouse       string
	Price           *decimal.Decimal // opcional
	Stock           int
	MinStock        *int // umbral opcional de stock mínimo
	HasSerialNumber bool // por defecto false
	OrderNumber     string // pedido de procedencia (opcional)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequiresSerial indica si cada unidad del producto debe llevar número de serie.
func (p *Product) RequiresSerial() bool {
	return p.HasSerialNumber
}

// BelowMinStock indica si el stock está por debajo del mínimo configurado.
// Sin MinStock nunca se considera bajo.
func (p *Product) BelowMinStock() bool {
	if p.MinStock == nil {
		return false
	}
	return p.Stock < *p.MinStock
}
