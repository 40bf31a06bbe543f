package dto

import (
	"time"

	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
)

// UnitRequest alta o edición de una unidad.
type UnitRequest struct {
	SKU          string `json:"sku" validate:"max=100"`
	SerialNumber string `json:"serial_number" validate:"max=100"`
	Location     string `json:"location" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=available in-use maintenance out-of-use"`
	// Solo en edición: atribución del movimiento si cambia la ubicación.
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
}

// BulkAddRequest alta masiva. Con Confirm=false solo se valida y se devuelve la vista previa.
type BulkAddRequest struct {
	Quantity  int      `json:"quantity" validate:"min=0"`
	Location  string   `json:"location" validate:"required"`
	Status    string   `json:"status" validate:"omitempty,oneof=available in-use maintenance out-of-use"`
	Reference string   `json:"reference"`
	SKUs      []string `json:"skus" validate:"omitempty,dive,max=100"`
	Serials   []string `json:"serials" validate:"omitempty,dive,max=100"`
	Confirm   bool     `json:"confirm"`
}

// BulkAddPreview estado del asistente de alta masiva antes de confirmar.
type BulkAddPreview struct {
	State     string   `json:"state"`
	Shortfall int      `json:"shortfall"`
	Quantity  int      `json:"quantity"`
	Location  string   `json:"location"`
	Status    string   `json:"status,omitempty"`
	Reference string   `json:"reference"`
	SKUs      []string `json:"skus,omitempty"`
	Serials   []string `json:"serials,omitempty"`
}

// MoveRequest movimiento de una o varias unidades a una nueva ubicación.
type MoveRequest struct {
	UnitIDs      []string `json:"unit_ids" validate:"required,min=1,dive,required"`
	NewLocation  string   `json:"new_location" validate:"required"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Confirm      bool     `json:"confirm"`
}

// MovePreview estado del asistente de movimiento antes de confirmar.
type MovePreview struct {
	State        string         `json:"state"`
	NewLocation  string         `json:"new_location"`
	EmployeeID   string         `json:"employee_id,omitempty"`
	EmployeeName string         `json:"employee_name,omitempty"`
	Units        []UnitResponse `json:"units"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"product_id"`
	SKU          string     `json:"sku,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	Location     string     `json:"location"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// MovementResponse salida de un movimiento registrado.
type MovementResponse struct {
	ID           string    `json:"id"`
	UnitID       string    `json:"unit_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SKU          string    `json:"sku,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	User         string    `json:"user,omitempty"`
	EmployeeID   string    `json:"employee_id,omitempty"`
	EmployeeName string    `json:"employee_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EmployeeResponse entrada del directorio de empleados.
type EmployeeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

// ToUnitResponse convierte la entidad.
func ToUnitResponse(u *entity.Unit) UnitResponse {
	return UnitResponse{
		ID:           u.ID,
		ProductID:    u.ProductID,
		SKU:          u.SKU,
		SerialNumber: u.SerialNumber,
		Location:     u.Location,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		DeletedAt:    u.DeletedAt,
	}
}

// ToUnitList convierte una lista de unidades.
func ToUnitList(units []*entity.Unit) []UnitResponse {
	out := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, ToUnitResponse(u))
	}
	return out
}

// ToMovementResponse convierte la entidad.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		UnitID:       m.UnitID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		SKU:          m.SKU,
		SerialNumber: m.SerialNumber,
		FromLocation: m.FromLocation,
		ToLocation:   m.ToLocation,
		User:         m.User,
		EmployeeID:   m.EmployeeID,
		EmployeeName: m.EmployeeName,
		CreatedAt:    m.CreatedAt,
	}
}

// ToMovementList convierte una lista de movimientos.
func ToMovementList(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToEmployeeList convierte el directorio.
func ToEmployeeList(list []*entity.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, EmployeeResponse{ID: e.ID, Name: e.Name, Department: e.Department})
	}
	return out
}
