package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/inventory"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

// Tipos de ajuste agregado ("Subir Stock" / "Bajar Stock").
const (
	AdjustmentAdd    = "add"
	AdjustmentRemove = "remove"
)

// StockUseCase concilia el stock agregado del producto con sus unidades y el historial:
// cada operación cambia stock, unidades y registra la entrada de historial en una sola transacción.
type StockUseCase struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	units     repository.UnitRepository
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	units repository.UnitRepository,
	publisher EventPublisher,
	log zerolog.Logger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:  txRunner,
		products:  products,
		units:     units,
		publisher: publisher,
		log:       log.With().Str("component", "stock").Logger(),
		now:       time.Now,
	}
}

// IncreaseInput entrada de "Subir Stock". Serials es obligatorio (exacto) si el producto
// lleva serie; SKUs es opcional pero, si llega, debe tener exactamente Quantity entradas.
type IncreaseInput struct {
	Quantity int
	Location string
	Reason   string
	Serials  []string
	SKUs     []string
}

// DecreaseInput entrada de "Bajar Stock": UnitIDs es la selección manual en Location.
type DecreaseInput struct {
	Quantity int
	Location string
	Reason   string
	UnitIDs  []string
}

// AdjustmentDetails datos complementarios de un ajuste agregado.
type AdjustmentDetails struct {
	Location string
	Serials  []string
	SKUs     []string
	UnitIDs  []string
}

// EditStockInput edición directa del campo stock.
type EditStockInput struct {
	NewStock int
	Reason   string
	// Confirm es obligatorio para reducir el stock de productos sin serie.
	Confirm bool
}

// ReceiveOrderInput incremento de stock por pedido recibido.
type ReceiveOrderInput struct {
	Quantity    int
	OrderNumber string
}

// AdjustmentResult resultado de una operación de conciliación.
type AdjustmentResult struct {
	Product *entity.Product
	// Units son las unidades creadas (subida) o dadas de baja (bajada).
	Units []*entity.Unit
	// Entry es nil cuando la operación no cambió el stock.
	Entry *entity.StockHistoryEntry
}

// StockStatus estado de conciliación de un producto.
type StockStatus struct {
	Product        *entity.Product
	Reconciliation inventory.Reconciliation
	BelowMinStock  bool
}

// OnStockAdjustment punto de entrada del ajuste agregado: despacha a subida o bajada.
func (uc *StockUseCase) OnStockAdjustment(
	ctx context.Context,
	productID, adjustmentType string,
	quantity int,
	reason string,
	details AdjustmentDetails,
	actor Actor,
) (*AdjustmentResult, error) {
	switch adjustmentType {
	case AdjustmentAdd:
		return uc.IncreaseStock(ctx, productID, IncreaseInput{
			Quantity: quantity,
			Location: details.Location,
			Reason:   reason,
			Serials:  details.Serials,
			SKUs:     details.SKUs,
		}, actor)
	case AdjustmentRemove:
		return uc.DecreaseStock(ctx, productID, DecreaseInput{
			Quantity: quantity,
			Location: details.Location,
			Reason:   reason,
			UnitIDs:  details.UnitIDs,
		}, actor)
	}
	return nil, fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, adjustmentType)
}

func validateAggregate(quantity int, location, reason string) (string, string, error) {
	if quantity <= 0 {
		return "", "", domain.ErrQuantityOutOfRange
	}
	loc, ok := entity.NormalizeLocation(location)
	if !ok {
		return "", "", domain.ErrInvalidLocation
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", "", domain.ErrReasonRequired
	}
	return loc, reason, nil
}

// IncreaseStock sube el stock en Quantity y crea las unidades en Location.
// Toda validación ocurre antes de mutar: si falla, no cambia nada.
func (uc *StockUseCase) IncreaseStock(ctx context.Context, productID string, in IncreaseInput, actor Actor) (*AdjustmentResult, error) {
	loc, reason, err := validateAggregate(in.Quantity, in.Location, in.Reason)
	if err != nil {
		return nil, err
	}
	skus := inventory.TrimAll(in.SKUs)
	if err := inventory.ValidateSKUs(skus, in.Quantity); err != nil {
		return nil, err
	}
	serials := inventory.TrimAll(in.Serials)

	res := &AdjustmentResult{}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		existing, err := repos.Units.ListByProduct(ctx, p.ID, false)
		if err != nil {
			return err
		}
		if inventory.Reconcile(p.Stock, len(existing)).HasPending() {
			return domain.ErrPendingUnitCreation
		}
		if p.RequiresSerial() || len(serials) > 0 {
			if len(serials) != in.Quantity {
				return domain.ErrSerialCountMismatch
			}
			if err := inventory.ValidateSerials(serials, existing); err != nil {
				return err
			}
		}
		now := uc.now()
		drafts, err := inventory.PlanBulkUnits(in.Quantity, skus, serials, p.RequiresSerial(), false, now)
		if err != nil {
			return err
		}

		previous := p.Stock
		p.Stock += in.Quantity
		p.UpdatedAt = now
		if err := repos.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
			return err
		}
		res.Units = buildUnits(p.ID, loc, entity.UnitStatusAvailable, drafts, now)
		if err := repos.Units.CreateBatch(ctx, res.Units); err != nil {
			return err
		}
		res.Entry, err = appendHistory(ctx, repos, p, entity.StockActionAdd, previous, reason, actor, now)
		res.Product = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logAdjustment(res, loc)
	publishAll(ctx, uc.publisher, uc.log,
		stockEvent(res.Entry),
		Event{Type: EventUnitsCreated, ProductID: productID, UnitIDs: unitIDs(res.Units), ToLocation: loc, Reason: reason, OccurredAt: res.Entry.CreatedAt},
	)
	return res, nil
}

// ReductionCandidates comprueba que Location tenga al menos quantity unidades activas y
// devuelve todas ellas para que el usuario elija exactamente quantity.
func (uc *StockUseCase) ReductionCandidates(ctx context.Context, productID, location string, quantity int) ([]*entity.Unit, error) {
	if quantity <= 0 {
		return nil, domain.ErrQuantityOutOfRange
	}
	loc, ok := entity.NormalizeLocation(location)
	if !ok {
		return nil, domain.ErrInvalidLocation
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	units, err := uc.units.ListByProduct(ctx, p.ID, false)
	if err != nil {
		return nil, err
	}
	candidates := inventory.ActiveAt(units, loc)
	if len(candidates) < quantity {
		return nil, &domain.ShortfallError{Location: loc, Requested: quantity, Available: len(candidates)}
	}
	return candidates, nil
}

// DecreaseStock da de baja las unidades seleccionadas en Location y baja el stock en Quantity.
func (uc *StockUseCase) DecreaseStock(ctx context.Context, productID string, in DecreaseInput, actor Actor) (*AdjustmentResult, error) {
	loc, reason, err := validateAggregate(in.Quantity, in.Location, in.Reason)
	if err != nil {
		return nil, err
	}

	res := &AdjustmentResult{}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		units, err := repos.Units.ListByProduct(ctx, p.ID, false)
		if err != nil {
			return err
		}
		if inventory.Reconcile(p.Stock, len(units)).HasPending() {
			return domain.ErrPendingUnitCreation
		}
		if available := len(inventory.ActiveAt(units, loc)); available < in.Quantity {
			return &domain.ShortfallError{Location: loc, Requested: in.Quantity, Available: available}
		}
		selected, err := inventory.CheckSelection(units, in.UnitIDs, loc, in.Quantity)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, u := range selected {
			if err := repos.Units.SoftDelete(ctx, p.ID, u.ID, now); err != nil {
				return err
			}
			u.DeletedAt = &now
		}
		previous := p.Stock
		p.Stock -= in.Quantity
		p.UpdatedAt = now
		if err := repos.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
			return err
		}
		res.Units = selected
		res.Entry, err = appendHistory(ctx, repos, p, entity.StockActionRemove, previous, reason, actor, now)
		res.Product = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logAdjustment(res, loc)
	publishAll(ctx, uc.publisher, uc.log,
		stockEvent(res.Entry),
		Event{Type: EventUnitDeleted, ProductID: productID, UnitIDs: unitIDs(res.Units), FromLocation: loc, Reason: reason, OccurredAt: res.Entry.CreatedAt},
	)
	return res, nil
}

// EditStock aplica una edición directa del campo stock.
//   - Subida: fija el stock; las unidades quedan pendientes de crear (alta masiva).
//   - Bajada con serie: se rechaza; debe usarse DecreaseStock con selección de unidades.
//   - Bajada sin serie: requiere Confirm; da de baja las unidades activas sobrantes
//     empezando por las más recientes.
func (uc *StockUseCase) EditStock(ctx context.Context, productID string, in EditStockInput, actor Actor) (*AdjustmentResult, error) {
	if in.NewStock < 0 {
		return nil, domain.ErrQuantityOutOfRange
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "Edición de stock"
	}

	res := &AdjustmentResult{}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		res.Product = p
		if in.NewStock == p.Stock {
			return nil
		}
		now := uc.now()
		if in.NewStock < p.Stock {
			if p.RequiresSerial() {
				return domain.ErrSerialReductionRequiresUnitFlow
			}
			if !in.Confirm {
				return domain.ErrConfirmationRequired
			}
			units, err := repos.Units.ListByProduct(ctx, p.ID, false)
			if err != nil {
				return err
			}
			res.Units = inventory.SelectForReduction(units, len(units)-in.NewStock)
			for _, u := range res.Units {
				if err := repos.Units.SoftDelete(ctx, p.ID, u.ID, now); err != nil {
					return err
				}
				u.DeletedAt = &now
			}
		}
		previous := p.Stock
		p.Stock = in.NewStock
		p.UpdatedAt = now
		if err := repos.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
			return err
		}
		res.Entry, err = appendHistory(ctx, repos, p, entity.StockActionAdjust, previous, reason, actor, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Entry == nil {
		return res, nil
	}
	uc.logAdjustment(res, "")
	events := []Event{stockEvent(res.Entry)}
	if len(res.Units) > 0 {
		events = append(events, Event{Type: EventUnitDeleted, ProductID: productID, UnitIDs: unitIDs(res.Units), Reason: reason, OccurredAt: res.Entry.CreatedAt})
	}
	publishAll(ctx, uc.publisher, uc.log, events...)
	return res, nil
}

// ReceiveOrder suma al stock lo recibido de un pedido y anota el número de pedido en el producto.
// Las unidades quedan pendientes; el alta masiva propone "Pedido <número>" como referencia.
func (uc *StockUseCase) ReceiveOrder(ctx context.Context, productID string, in ReceiveOrderInput, actor Actor) (*AdjustmentResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrQuantityOutOfRange
	}
	orderNumber := strings.TrimSpace(in.OrderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: número de pedido requerido", domain.ErrInvalidInput)
	}

	res := &AdjustmentResult{}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		now := uc.now()
		previous := p.Stock
		p.Stock += in.Quantity
		p.OrderNumber = orderNumber
		p.UpdatedAt = now
		if err := repos.Products.Update(ctx, p); err != nil {
			return err
		}
		if err := repos.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
			return err
		}
		res.Entry, err = appendHistory(ctx, repos, p, entity.StockActionOrderReceived, previous, OrderReference(orderNumber), actor, now)
		res.Product = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logAdjustment(res, "")
	publishAll(ctx, uc.publisher, uc.log, stockEvent(res.Entry))
	return res, nil
}

// Status devuelve el estado de conciliación del producto.
func (uc *StockUseCase) Status(ctx context.Context, productID string) (*StockStatus, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	active, err := uc.units.CountActive(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &StockStatus{
		Product:        p,
		Reconciliation: inventory.Reconcile(p.Stock, active),
		BelowMinStock:  p.BelowMinStock(),
	}, nil
}

// OrderReference formatea la referencia de un pedido.
func OrderReference(orderNumber string) string {
	if orderNumber == "" {
		return ""
	}
	return "Pedido " + orderNumber
}

func appendHistory(ctx context.Context, repos TxRepos, p *entity.Product, action string, previous int, reason string, actor Actor, at time.Time) (*entity.StockHistoryEntry, error) {
	entry := entity.NewStockHistoryEntry(p, action, previous, p.Stock, reason, actor.User, at)
	entry.ID = uuid.New().String()
	if err := repos.History.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func stockEvent(e *entity.StockHistoryEntry) Event {
	return Event{
		Type:          EventStockAdjusted,
		ProductID:     e.ProductID,
		Action:        e.Action,
		PreviousStock: e.PreviousStock,
		NewStock:      e.NewStock,
		Reason:        e.Reason,
		User:          e.User,
		OccurredAt:    e.CreatedAt,
	}
}

func (uc *StockUseCase) logAdjustment(res *AdjustmentResult, location string) {
	e := res.Entry
	uc.log.Info().
		Str("product_id", e.ProductID).
		Str("action", e.Action).
		Int("previous_stock", e.PreviousStock).
		Int("new_stock", e.NewStock).
		Int("units", len(res.Units)).
		Str("location", location).
		Msg("stock ajustado")
}
