package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Errores de validación: se detectan antes de cualquier mutación.
var (
	ErrInvalidLocation     = errors.New("ubicación no válida")
	ErrInvalidStatus       = errors.New("estado de unidad no válido")
	ErrSerialRequired      = errors.New("el producto requiere número de serie")
	ErrSerialCountMismatch = errors.New("la cantidad de números de serie no coincide con la cantidad")
	ErrSKUCountMismatch    = errors.New("la cantidad de SKUs no coincide con la cantidad")
	ErrDuplicateSerial     = errors.New("número de serie duplicado")
	ErrSelectionMismatch   = errors.New("la selección de unidades no coincide con la cantidad")
	ErrQuantityOutOfRange  = errors.New("cantidad fuera de rango")
	ErrEmployeeRequired    = errors.New("el empleado es obligatorio")
	ErrReasonRequired      = errors.New("la referencia o motivo es obligatorio")
	ErrSameLocation        = errors.New("la nueva ubicación debe ser distinta de la actual")
)

// Violaciones de política: la operación se rechaza y, cuando aplica, se indica el flujo correcto.
var (
	ErrUnitLimitReached                = errors.New("ya existen todas las unidades del stock del producto")
	ErrSerialReductionRequiresUnitFlow = errors.New("producto con número de serie: reduzca el stock seleccionando unidades")
	ErrPendingUnitCreation             = errors.New("hay unidades pendientes de crear para este producto")
	ErrConfirmationRequired            = errors.New("la operación requiere confirmación")
)

// ShortfallError indica que la ubicación de origen no tiene unidades activas suficientes.
type ShortfallError struct {
	Location  string
	Requested int
	Available int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s: solicitadas %d, disponibles %d (faltan %d)",
		e.Location, e.Requested, e.Available, e.Requested-e.Available)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *ShortfallError) Unwrap() error { return ErrInsufficientStock }
