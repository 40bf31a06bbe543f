package dto

import (
	"time"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/inventory"
)

// StockAdjustmentRequest ajuste agregado de stock (POST /stock-adjustments).
type StockAdjustmentRequest struct {
	Type     string   `json:"type" validate:"required,oneof=add remove"`
	Quantity int      `json:"quantity" validate:"required,gt=0"`
	Reason   string   `json:"reason" validate:"required"`
	Location string   `json:"location" validate:"required"`
	Serials  []string `json:"serials"`
	SKUs     []string `json:"skus"`
	UnitIDs  []string `json:"unit_ids"`
}

// EditStockRequest edición directa del stock (PATCH /stock).
type EditStockRequest struct {
	Stock   *int   `json:"stock" validate:"required,min=0"`
	Reason  string `json:"reason"`
	Confirm bool   `json:"confirm"`
}

// ReceiveOrderRequest recepción de un pedido.
type ReceiveOrderRequest struct {
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	OrderNumber string `json:"order_number" validate:"required"`
}

// HistoryEntryResponse entrada del historial de stock.
type HistoryEntryResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	SKU           string    `json:"sku,omitempty"`
	Action        string    `json:"action"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Quantity      int       `json:"quantity"`
	Reason        string    `json:"reason,omitempty"`
	User          string    `json:"user,omitempty"`
	Category      string    `json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdjustmentResponse resultado de un cambio de stock.
type AdjustmentResponse struct {
	ProductID string                `json:"product_id"`
	Stock     int                   `json:"stock"`
	Units     []UnitResponse        `json:"units,omitempty"`
	Entry     *HistoryEntryResponse `json:"history_entry,omitempty"`
}

// StockStatusResponse estado de conciliación de un producto.
type StockStatusResponse struct {
	ProductID      string                   `json:"product_id"`
	Name           string                   `json:"name"`
	HasSerial      bool                     `json:"has_serial_number"`
	MinStock       *int                     `json:"min_stock,omitempty"`
	BelowMinStock  bool                     `json:"below_min_stock"`
	Reconciliation inventory.Reconciliation `json:"reconciliation"`
}

// LowStockResponse elemento del informe de stock bajo.
type LowStockResponse struct {
	StockStatusResponse
	Deficit int `json:"deficit"`
}

// ShortfallResponse detalle de un faltante en la ubicación de origen.
type ShortfallResponse struct {
	ErrorResponse
	Location  string `json:"location"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Missing   int    `json:"missing"`
}

// ToHistoryEntryResponse convierte la entidad.
func ToHistoryEntryResponse(e *entity.StockHistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		ProductName:   e.ProductName,
		SKU:           e.SKU,
		Action:        e.Action,
		PreviousStock: e.PreviousStock,
		NewStock:      e.NewStock,
		Quantity:      e.Quantity,
		Reason:        e.Reason,
		User:          e.User,
		Category:      e.Category,
		CreatedAt:     e.CreatedAt,
	}
}

// ToHistoryList convierte una lista de entradas.
func ToHistoryList(list []*entity.StockHistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToHistoryEntryResponse(e))
	}
	return out
}

// ToStockStatus arma la respuesta de conciliación.
func ToStockStatus(p *entity.Product, r inventory.Reconciliation, below bool) StockStatusResponse {
	return StockStatusResponse{
		ProductID:      p.ID,
		Name:           p.Name,
		HasSerial:      p.HasSerialNumber,
		MinStock:       p.MinStock,
		BelowMinStock:  below,
		Reconciliation: r,
	}
}
