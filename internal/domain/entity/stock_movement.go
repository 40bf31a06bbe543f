package entity

import "time"

// Movement registra la reubicación de una unidad (solo inserción).
// Los datos de producto y serie son una foto del momento del movimiento.
type Movement struct {
	ID           string
	UnitID       string
	ProductID    string
	ProductName  string
	SKU          string
	SerialNumber string
	FromLocation string
	ToLocation   string
	User         string // usuario de la sesión que registró el movimiento
	EmployeeID   string
	EmployeeName string
	CreatedAt    time.Time
}
