package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-unidades/internal/application/dto"
	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
)

// StockHandler expone la conciliación de stock de un producto.
type StockHandler struct {
	stock *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase) *StockHandler {
	return &StockHandler{stock: stock}
}

// Adjust godoc
// @Summary      Ajuste agregado de stock (add crea unidades, remove da de baja las seleccionadas)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del producto"
// @Param        body  body  dto.StockAdjustmentRequest  true  "Ajuste"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ShortfallResponse
// @Router       /api/products/{id}/stock-adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	res, err := h.stock.OnStockAdjustment(c.UserContext(), c.Params("id"), in.Type, in.Quantity, in.Reason,
		inventory.AdjustmentDetails{
			Location: in.Location,
			Serials:  in.Serials,
			SKUs:     in.SKUs,
			UnitIDs:  in.UnitIDs,
		}, actorFrom(c, "", ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAdjustmentResponse(res))
}

// Edit godoc
// @Summary      Edición directa del stock
// @Description  Subir deja unidades pendientes. Bajar un producto con serie redirige a la selección de unidades.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del producto"
// @Param        body  body  dto.EditStockRequest  true  "Nuevo stock"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [patch]
func (h *StockHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditStockRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	res, err := h.stock.EditStock(c.UserContext(), c.Params("id"), inventory.EditStockInput{
		NewStock: *in.Stock,
		Reason:   in.Reason,
		Confirm:  in.Confirm,
	}, actorFrom(c, "", ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAdjustmentResponse(res))
}

// ReceiveOrder godoc
// @Summary      Recepción de pedido: suma stock y deja las unidades pendientes
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.ReceiveOrderRequest  true  "Pedido"
// @Success      200   {object}  dto.AdjustmentResponse
// @Router       /api/products/{id}/orders-received [post]
func (h *StockHandler) ReceiveOrder(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	res, err := h.stock.ReceiveOrder(c.UserContext(), c.Params("id"), inventory.ReceiveOrderInput{
		Quantity:    in.Quantity,
		OrderNumber: in.OrderNumber,
	}, actorFrom(c, "", ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAdjustmentResponse(res))
}

// Status godoc
// @Summary      Estado de conciliación (stock, unidades activas, pendientes)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockStatusResponse
// @Router       /api/products/{id}/status [get]
func (h *StockHandler) Status(c *fiber.Ctx) error {
	st, err := h.stock.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStockStatus(st.Product, st.Reconciliation, st.BelowMinStock))
}

// ReductionCandidates godoc
// @Summary      Unidades activas en la ubicación para elegir cuáles dar de baja
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del producto"
// @Param        location  query  string  true  "Ubicación de origen"
// @Param        quantity  query  int     true  "Cantidad a bajar"
// @Success      200  {array}   dto.UnitResponse
// @Failure      422  {object}  dto.ShortfallResponse
// @Router       /api/products/{id}/reduction-candidates [get]
func (h *StockHandler) ReductionCandidates(c *fiber.Ctx) error {
	units, err := h.stock.ReductionCandidates(c.UserContext(), c.Params("id"), c.Query("location"), c.QueryInt("quantity", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToUnitList(units))
}

func toAdjustmentResponse(res *inventory.AdjustmentResult) dto.AdjustmentResponse {
	out := dto.AdjustmentResponse{
		ProductID: res.Product.ID,
		Stock:     res.Product.Stock,
	}
	if len(res.Units) > 0 {
		out.Units = dto.ToUnitList(res.Units)
	}
	if res.Entry != nil {
		entry := dto.ToHistoryEntryResponse(res.Entry)
		out.Entry = &entry
	}
	return out
}
