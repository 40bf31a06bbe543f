package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-unidades/internal/application/dto"
	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
)

// UnitHandler expone el almacén de unidades de un producto y sus asistentes.
type UnitHandler struct {
	units *inventory.UnitUseCase
	query *inventory.QueryUseCase
}

// NewUnitHandler construye el handler.
func NewUnitHandler(units *inventory.UnitUseCase, query *inventory.QueryUseCase) *UnitHandler {
	return &UnitHandler{units: units, query: query}
}

// List godoc
// @Summary      Listar unidades del producto
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id               path   string  true   "ID del producto"
// @Param        location         query  string  false  "Ubicación"
// @Param        status           query  string  false  "Estado"
// @Param        sku              query  string  false  "SKU"
// @Param        serial           query  string  false  "Serie (coincidencia parcial)"
// @Param        include_deleted  query  bool    false  "Incluir bajas"
// @Param        group_by         query  string  false  "location|sku|serial|status"
// @Success      200  {array}   dto.UnitResponse
// @Router       /api/products/{id}/units [get]
func (h *UnitHandler) List(c *fiber.Ctx) error {
	f := inventory.UnitFilter{
		Location:       c.Query("location"),
		Status:         c.Query("status"),
		SKU:            c.Query("sku"),
		Serial:         c.Query("serial"),
		IncludeDeleted: c.QueryBool("include_deleted", false),
	}
	if by := c.Query("group_by"); by != "" {
		grouped, err := h.query.GroupedUnits(c.UserContext(), c.Params("id"), f, by)
		if err != nil {
			return respondError(c, err)
		}
		out := make(map[string][]dto.UnitResponse, len(grouped))
		for k, v := range grouped {
			out[k] = dto.ToUnitList(v)
		}
		return c.JSON(out)
	}
	units, err := h.query.ProductUnits(c.UserContext(), c.Params("id"), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToUnitList(units))
}

// Create godoc
// @Summary      Crear una unidad (solo si hay unidades pendientes)
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del producto"
// @Param        body  body  dto.UnitRequest  true  "Unidad"
// @Success      201   {object}  dto.UnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/units [post]
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.UnitRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	u, err := h.units.AddUnit(c.UserContext(), c.Params("id"), inventory.UnitInput{
		SKU:          in.SKU,
		SerialNumber: in.SerialNumber,
		Location:     in.Location,
		Status:       in.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToUnitResponse(u))
}

// Update godoc
// @Summary      Editar una unidad; si cambia la ubicación registra un movimiento
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string           true  "ID del producto"
// @Param        unitId  path  string           true  "ID de la unidad"
// @Param        body    body  dto.UnitRequest  true  "Unidad"
// @Success      200     {object}  map[string]interface{}
// @Router       /api/products/{id}/units/{unitId} [put]
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UnitRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	u, mov, err := h.units.UpdateUnit(c.UserContext(), c.Params("id"), c.Params("unitId"), inventory.UnitInput{
		SKU:          in.SKU,
		SerialNumber: in.SerialNumber,
		Location:     in.Location,
		Status:       in.Status,
	}, actorFrom(c, in.EmployeeID, in.EmployeeName))
	if err != nil {
		return respondError(c, err)
	}
	resp := fiber.Map{"unit": dto.ToUnitResponse(u)}
	if mov != nil {
		resp["movement"] = dto.ToMovementResponse(mov)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Baja lógica de una unidad (el stock no cambia)
// @Tags         units
// @Security     Bearer
// @Param        id      path  string  true  "ID del producto"
// @Param        unitId  path  string  true  "ID de la unidad"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/units/{unitId} [delete]
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.units.DeleteUnit(c.UserContext(), c.Params("id"), c.Params("unitId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkAdd godoc
// @Summary      Alta masiva de unidades pendientes
// @Description  Con confirm=false devuelve la entrada normalizada (estado confirming) sin crear nada.
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del producto"
// @Param        body  body  dto.BulkAddRequest  true  "Alta masiva"
// @Success      200   {object}  dto.BulkAddPreview
// @Success      201   {array}   dto.UnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/units/bulk [post]
func (h *UnitHandler) BulkAdd(c *fiber.Ctx) error {
	var in dto.BulkAddRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	w, err := h.units.NewBulkAddWizard(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	seeded := w.Input()
	input := inventory.BulkAddInput{
		Quantity:  in.Quantity,
		Location:  in.Location,
		Status:    in.Status,
		Reference: in.Reference,
		SKUs:      in.SKUs,
		Serials:   in.Serials,
	}
	if input.Quantity == 0 {
		input.Quantity = seeded.Quantity
	}
	if input.Reference == "" {
		input.Reference = seeded.Reference
	}
	if err := w.Submit(input); err != nil {
		return respondError(c, err)
	}
	if !in.Confirm {
		return c.JSON(bulkPreview(w))
	}
	created, err := w.Confirm(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToUnitList(created))
}

// Move godoc
// @Summary      Mover una o varias unidades
// @Description  Con confirm=false solo valida y devuelve la vista previa.
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del producto"
// @Param        body  body  dto.MoveRequest  true  "Movimiento"
// @Success      200   {object}  dto.MovePreview
// @Success      201   {array}   dto.MovementResponse
// @Router       /api/products/{id}/units/move [post]
func (h *UnitHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	w, err := h.units.NewMoveWizard(c.UserContext(), c.Params("id"), in.UnitIDs)
	if err != nil {
		return respondError(c, err)
	}
	if err := w.Submit(inventory.MoveInput{
		NewLocation:  in.NewLocation,
		EmployeeID:   in.EmployeeID,
		EmployeeName: in.EmployeeName,
	}); err != nil {
		return respondError(c, err)
	}
	if !in.Confirm {
		input := w.Input()
		return c.JSON(dto.MovePreview{
			State:        string(w.State()),
			NewLocation:  input.NewLocation,
			EmployeeID:   input.EmployeeID,
			EmployeeName: input.EmployeeName,
			Units:        dto.ToUnitList(w.Units()),
		})
	}
	movements, err := w.Confirm(c.UserContext(), GetUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementList(movements))
}

func bulkPreview(w *inventory.BulkAddWizard) dto.BulkAddPreview {
	in := w.Input()
	return dto.BulkAddPreview{
		State:     string(w.State()),
		Shortfall: w.Shortfall(),
		Quantity:  in.Quantity,
		Location:  in.Location,
		Status:    in.Status,
		Reference: in.Reference,
		SKUs:      in.SKUs,
		Serials:   in.Serials,
	}
}

// actorFrom arma la atribución: usuario del token más el empleado indicado.
func actorFrom(c *fiber.Ctx, employeeID, employeeName string) inventory.Actor {
	return inventory.Actor{User: GetUserName(c), EmployeeID: employeeID, EmployeeName: employeeName}
}
