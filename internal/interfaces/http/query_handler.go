package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-unidades/internal/application/dto"
	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

// QueryHandler lado de lectura: movimientos, historial, stock bajo y catálogos.
type QueryHandler struct {
	query *inventory.QueryUseCase
}

// NewQueryHandler construye el handler.
func NewQueryHandler(query *inventory.QueryUseCase) *QueryHandler {
	return &QueryHandler{query: query}
}

// Movements godoc
// @Summary      Registro de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        unit_id      query  string  false  "Unidad"
// @Param        location     query  string  false  "Origen o destino"
// @Param        employee_id  query  string  false  "Empleado"
// @Param        from         query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to           query  string  false  "Hasta (RFC3339 o AAAA-MM-DD)"
// @Param        group_by     query  string  false  "unit"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/movements [get]
func (h *QueryHandler) Movements(c *fiber.Ctx) error {
	from, to, err := timeRange(c)
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	f := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		UnitID:     c.Query("unit_id"),
		Location:   c.Query("location"),
		EmployeeID: c.Query("employee_id"),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	switch c.Query("group_by") {
	case "":
		list, err := h.query.Movements(c.UserContext(), f)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.ToMovementList(list))
	case "unit":
		grouped, err := h.query.GroupedMovements(c.UserContext(), f)
		if err != nil {
			return respondError(c, err)
		}
		out := make(map[string][]dto.MovementResponse, len(grouped))
		for k, v := range grouped {
			out[k] = dto.ToMovementList(v)
		}
		return c.JSON(out)
	}
	return respondError(c, fmt.Errorf("%w: group_by admite unit", domain.ErrInvalidInput))
}

// StockHistory godoc
// @Summary      Historial de stock de la empresa
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        action      query  string  false  "add|remove|adjust|order-received|recibido|retirado"
// @Param        from        query  string  false  "Desde"
// @Param        to          query  string  false  "Hasta"
// @Param        group_by    query  string  false  "action"
// @Success      200  {array}   dto.HistoryEntryResponse
// @Router       /api/stock-history [get]
func (h *QueryHandler) StockHistory(c *fiber.Ctx) error {
	from, to, err := timeRange(c)
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	f := repository.HistoryFilter{
		ProductID: c.Query("product_id"),
		CompanyID: GetCompanyID(c),
		Action:    c.Query("action"),
		From:      from,
		To:        to,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	switch c.Query("group_by") {
	case "":
		list, err := h.query.StockHistory(c.UserContext(), f)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.ToHistoryList(list))
	case "action":
		grouped, err := h.query.GroupedHistory(c.UserContext(), f)
		if err != nil {
			return respondError(c, err)
		}
		out := make(map[string][]dto.HistoryEntryResponse, len(grouped))
		for k, v := range grouped {
			out[k] = dto.ToHistoryList(v)
		}
		return c.JSON(out)
	}
	return respondError(c, fmt.Errorf("%w: group_by admite action", domain.ErrInvalidInput))
}

// LowStock godoc
// @Summary      Productos bajo el mínimo o con unidades pendientes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockResponse
// @Router       /api/products/low-stock [get]
func (h *QueryHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	items, err := h.query.LowStock(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LowStockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockResponse{
			StockStatusResponse: dto.ToStockStatus(it.Product, it.Reconciliation, it.BelowMinStock),
			Deficit:             it.Deficit,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Locations catálogo de ubicaciones agrupado por sede.
func (h *QueryHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(h.query.Locations())
}

// Employees directorio de empleados para atribuir movimientos.
func (h *QueryHandler) Employees(c *fiber.Ctx) error {
	list, err := h.query.Employees(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToEmployeeList(list))
}

// timeRange lee from/to en RFC3339 o AAAA-MM-DD; "to" con solo fecha incluye el día entero.
func timeRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = parseTime(c.Query("from"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parseTime(c.Query("to"), true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseTime(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
