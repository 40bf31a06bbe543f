package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock es el valor inicial;
// las unidades quedan pendientes de crear.
type CreateProductRequest struct {
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	SKU             string           `json:"sku" validate:"max=100"`
	Category        string           `json:"category" validate:"max=100"`
	Department      string           `json:"department" validate:"max=100"`
	SupplierID      string           `json:"supplier_id"`
	Warehouse       string           `json:"warehouse"`
	Price           *decimal.Decimal `json:"price"`
	Stock           int              `json:"stock" validate:"min=0"`
	MinStock        *int             `json:"min_stock" validate:"omitempty,min=0"`
	HasSerialNumber bool             `json:"has_serial_number"`
	OrderNumber     string           `json:"order_number" validate:"max=100"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock: se cambia vía ajustes).
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU             *string          `json:"sku" validate:"omitempty,max=100"`
	Category        *string          `json:"category"`
	Department      *string          `json:"department"`
	SupplierID      *string          `json:"supplier_id"`
	Warehouse       *string          `json:"warehouse"`
	Price           *decimal.Decimal `json:"price"`
	MinStock        *int             `json:"min_stock" validate:"omitempty,min=0"`
	HasSerialNumber *bool            `json:"has_serial_number"`
	OrderNumber     *string          `json:"order_number"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string           `json:"id"`
	CompanyID       string           `json:"company_id"`
	Name            string           `json:"name"`
	SKU             string           `json:"sku,omitempty"`
	Category        string           `json:"category,omitempty"`
	Department      string           `json:"department,omitempty"`
	SupplierID      string           `json:"supplier_id,omitempty"`
	Warehouse       string           `json:"warehouse,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Stock           int              `json:"stock"`
	MinStock        *int             `json:"min_stock,omitempty"`
	HasSerialNumber bool             `json:"has_serial_number"`
	OrderNumber     string           `json:"order_number,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
