package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-unidades/internal/application/dto"
	"github.com/jhoicas/inventario-unidades/internal/domain"
)

// Flujos a los que se redirige una operación rechazada por política.
const (
	RedirectUnitSelection = "unit-selection"
	RedirectBulkAdd       = "bulk-add"
)

type errorMapping struct {
	err      error
	status   int
	code     string
	redirect string
}

// errorTable en orden: los errores más específicos primero.
var errorTable = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},

	{domain.ErrInvalidLocation, fiber.StatusBadRequest, "INVALID_LOCATION", ""},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS", ""},
	{domain.ErrSerialRequired, fiber.StatusBadRequest, "SERIAL_REQUIRED", ""},
	{domain.ErrSerialCountMismatch, fiber.StatusBadRequest, "SERIAL_COUNT_MISMATCH", ""},
	{domain.ErrSKUCountMismatch, fiber.StatusBadRequest, "SKU_COUNT_MISMATCH", ""},
	{domain.ErrDuplicateSerial, fiber.StatusBadRequest, "DUPLICATE_SERIAL", ""},
	{domain.ErrSelectionMismatch, fiber.StatusBadRequest, "SELECTION_MISMATCH", ""},
	{domain.ErrQuantityOutOfRange, fiber.StatusBadRequest, "QUANTITY_OUT_OF_RANGE", ""},
	{domain.ErrEmployeeRequired, fiber.StatusBadRequest, "EMPLOYEE_REQUIRED", ""},
	{domain.ErrReasonRequired, fiber.StatusBadRequest, "REASON_REQUIRED", ""},
	{domain.ErrSameLocation, fiber.StatusBadRequest, "SAME_LOCATION", ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},

	{domain.ErrUnitLimitReached, fiber.StatusConflict, "UNIT_LIMIT_REACHED", ""},
	{domain.ErrSerialReductionRequiresUnitFlow, fiber.StatusConflict, "SERIAL_REDUCTION_REQUIRES_UNIT_FLOW", RedirectUnitSelection},
	{domain.ErrPendingUnitCreation, fiber.StatusConflict, "PENDING_UNIT_CREATION", RedirectBulkAdd},
	{domain.ErrConfirmationRequired, fiber.StatusConflict, "CONFIRMATION_REQUIRED", ""},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", ""},

	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", ""},
}

// respondError traduce un error de dominio a la respuesta HTTP.
func respondError(c *fiber.Ctx, err error) error {
	var shortfall *domain.ShortfallError
	if errors.As(err, &shortfall) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ShortfallResponse{
			ErrorResponse: dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()},
			Location:      shortfall.Location,
			Requested:     shortfall.Requested,
			Available:     shortfall.Available,
			Missing:       shortfall.Requested - shortfall.Available,
		})
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error(), Redirect: m.redirect})
		}
	}
	zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
