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

// UnitOptions ajustes del ciclo de vida de unidades.
type UnitOptions struct {
	// AllowPlaceholderSerials permite completar con series AUTO-<ts>-<i> un alta masiva
	// de producto con serie que no trae todas las series.
	AllowPlaceholderSerials bool
}

// UnitUseCase opera el almacén de unidades: alta, alta masiva, edición/movimiento,
// movimiento masivo y baja lógica. Cada operación es una única transacción.
type UnitUseCase struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	units     repository.UnitRepository
	employees repository.EmployeeRepository
	publisher EventPublisher
	log       zerolog.Logger
	opts      UnitOptions
	now       func() time.Time
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	units repository.UnitRepository,
	employees repository.EmployeeRepository,
	publisher EventPublisher,
	log zerolog.Logger,
	opts UnitOptions,
) *UnitUseCase {
	return &UnitUseCase{
		txRunner:  txRunner,
		products:  products,
		units:     units,
		employees: employees,
		publisher: publisher,
		log:       log.With().Str("component", "units").Logger(),
		opts:      opts,
		now:       time.Now,
	}
}

// UnitInput campos editables de una unidad.
type UnitInput struct {
	SKU          string
	SerialNumber string
	Location     string
	Status       string
}

// BulkAddInput entrada del alta masiva. Quantity 0 = se deduce de las listas o del faltante.
type BulkAddInput struct {
	Quantity  int
	Location  string
	Status    string
	Reference string
	SKUs      []string
	Serials   []string
}

// MoveUpdate nueva ubicación para una unidad.
type MoveUpdate struct {
	UnitID      string
	NewLocation string
}

func normalizeUnitInput(in UnitInput, defaultStatus string) (UnitInput, error) {
	loc, ok := entity.NormalizeLocation(in.Location)
	if !ok {
		return in, domain.ErrInvalidLocation
	}
	in.Location = loc
	in.SKU = strings.TrimSpace(in.SKU)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	if in.Status == "" {
		in.Status = defaultStatus
	}
	if in.Status != "" && !entity.ValidUnitStatus(in.Status) {
		return in, domain.ErrInvalidStatus
	}
	return in, nil
}

func lockProduct(ctx context.Context, repos TxRepos, productID string) (*entity.Product, error) {
	p, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// AddUnit crea una unidad. Se rechaza si las unidades activas ya igualan el stock del producto.
// Un alta simple no genera movimiento ni entrada de historial.
func (uc *UnitUseCase) AddUnit(ctx context.Context, productID string, in UnitInput) (*entity.Unit, error) {
	in, err := normalizeUnitInput(in, entity.UnitStatusAvailable)
	if err != nil {
		return nil, err
	}
	var unit *entity.Unit
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		if p.RequiresSerial() && in.SerialNumber == "" {
			return domain.ErrSerialRequired
		}
		existing, err := repos.Units.ListByProduct(ctx, p.ID, false)
		if err != nil {
			return err
		}
		if len(existing) >= p.Stock {
			return domain.ErrUnitLimitReached
		}
		if p.RequiresSerial() {
			if err := inventory.ValidateSerials([]string{in.SerialNumber}, existing); err != nil {
				return err
			}
		}
		now := uc.now()
		unit = &entity.Unit{
			ID:           uuid.New().String(),
			ProductID:    p.ID,
			SKU:          in.SKU,
			SerialNumber: in.SerialNumber,
			Location:     in.Location,
			Status:       in.Status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return repos.Units.Create(ctx, unit)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", productID).Str("unit_id", unit.ID).Msg("unidad creada")
	publishAll(ctx, uc.publisher, uc.log, Event{
		Type:       EventUnitsCreated,
		ProductID:  productID,
		UnitIDs:    []string{unit.ID},
		ToLocation: unit.Location,
		OccurredAt: unit.CreatedAt,
	})
	return unit, nil
}

// BulkAddUnits crea varias unidades en un solo lote. Nunca deja más unidades activas que stock.
func (uc *UnitUseCase) BulkAddUnits(ctx context.Context, productID string, in BulkAddInput) ([]*entity.Unit, error) {
	loc, ok := entity.NormalizeLocation(in.Location)
	if !ok {
		return nil, domain.ErrInvalidLocation
	}
	status := in.Status
	if status == "" {
		status = entity.UnitStatusAvailable
	}
	if !entity.ValidUnitStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	if in.Quantity < 0 {
		return nil, domain.ErrQuantityOutOfRange
	}
	skus := inventory.TrimAll(in.SKUs)
	serials := inventory.TrimAll(in.Serials)

	var created []*entity.Unit
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		existing, err := repos.Units.ListByProduct(ctx, p.ID, false)
		if err != nil {
			return err
		}
		shortfall := p.Stock - len(existing)
		if shortfall <= 0 {
			return domain.ErrUnitLimitReached
		}
		qty := inventory.ResolveBulkQuantity(in.Quantity, skus, serials, shortfall)
		if qty > shortfall {
			return fmt.Errorf("%w: solicitadas %d, pendientes %d", domain.ErrQuantityOutOfRange, qty, shortfall)
		}
		if p.RequiresSerial() && len(serials) > 0 {
			if err := inventory.ValidateSerials(serials, existing); err != nil {
				return err
			}
		}
		now := uc.now()
		drafts, err := inventory.PlanBulkUnits(qty, skus, serials, p.RequiresSerial(), uc.opts.AllowPlaceholderSerials, now)
		if err != nil {
			return err
		}
		created = buildUnits(p.ID, loc, status, drafts, now)
		return repos.Units.CreateBatch(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", productID).
		Int("quantity", len(created)).
		Str("location", loc).
		Str("reference", in.Reference).
		Msg("alta masiva de unidades")
	publishAll(ctx, uc.publisher, uc.log, Event{
		Type:       EventUnitsCreated,
		ProductID:  productID,
		UnitIDs:    unitIDs(created),
		ToLocation: loc,
		Reason:     in.Reference,
		OccurredAt: uc.now(),
	})
	return created, nil
}

// buildUnits materializa los borradores. Cada unidad avanza un microsegundo su CreatedAt
// para conservar el orden de inserción al persistir.
func buildUnits(productID, location, status string, drafts []inventory.UnitDraft, now time.Time) []*entity.Unit {
	units := make([]*entity.Unit, 0, len(drafts))
	for i, d := range drafts {
		at := now.Add(time.Duration(i) * time.Microsecond)
		units = append(units, &entity.Unit{
			ID:           uuid.New().String(),
			ProductID:    productID,
			SKU:          d.SKU,
			SerialNumber: d.SerialNumber,
			Location:     location,
			Status:       status,
			CreatedAt:    at,
			UpdatedAt:    at,
		})
	}
	return units
}

// UpdateUnit reemplaza los campos de la unidad. Si cambia la ubicación y hay empleado,
// registra además un movimiento (origen = ubicación anterior).
func (uc *UnitUseCase) UpdateUnit(ctx context.Context, productID, unitID string, in UnitInput, actor Actor) (*entity.Unit, *entity.Movement, error) {
	// Status vacío conserva el estado actual.
	in, err := normalizeUnitInput(in, "")
	if err != nil {
		return nil, nil, err
	}
	return uc.updateUnit(ctx, productID, unitID, actor, func(ctx context.Context, repos TxRepos, p *entity.Product, unit *entity.Unit) error {
		if p.RequiresSerial() {
			if in.SerialNumber == "" {
				return domain.ErrSerialRequired
			}
			if in.SerialNumber != unit.SerialNumber {
				others, err := repos.Units.ListByProduct(ctx, p.ID, false)
				if err != nil {
					return err
				}
				if err := inventory.ValidateSerials([]string{in.SerialNumber}, others); err != nil {
					return err
				}
			}
		}
		unit.SKU = in.SKU
		unit.SerialNumber = in.SerialNumber
		unit.Location = in.Location
		if in.Status != "" {
			unit.Status = in.Status
		}
		return nil
	})
}

// MoveUnit cambia solo la ubicación de la unidad; el resto de campos se conserva tal como
// está en el momento de la transacción.
func (uc *UnitUseCase) MoveUnit(ctx context.Context, productID, unitID, newLocation string, actor Actor) (*entity.Unit, *entity.Movement, error) {
	loc, ok := entity.NormalizeLocation(newLocation)
	if !ok {
		return nil, nil, domain.ErrInvalidLocation
	}
	return uc.updateUnit(ctx, productID, unitID, actor, func(_ context.Context, _ TxRepos, _ *entity.Product, unit *entity.Unit) error {
		unit.Location = loc
		return nil
	})
}

// updateUnit lee la unidad activa dentro de la transacción, aplica apply y registra el
// movimiento cuando cambia la ubicación y hay empleado.
func (uc *UnitUseCase) updateUnit(
	ctx context.Context,
	productID, unitID string,
	actor Actor,
	apply func(ctx context.Context, repos TxRepos, p *entity.Product, unit *entity.Unit) error,
) (*entity.Unit, *entity.Movement, error) {
	actor, err := uc.resolveEmployee(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	var (
		unit     *entity.Unit
		movement *entity.Movement
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		unit, err = activeUnit(ctx, repos, p.ID, unitID)
		if err != nil {
			return err
		}
		prior := unit.Location
		if err := apply(ctx, repos, p, unit); err != nil {
			return err
		}
		now := uc.now()
		unit.UpdatedAt = now
		if err := repos.Units.Update(ctx, unit); err != nil {
			return err
		}
		if prior == unit.Location || actor.EmployeeID == "" {
			return nil
		}
		movement = newMovement(p, unit, prior, actor, now)
		return repos.Movements.Create(ctx, movement)
	})
	if err != nil {
		return nil, nil, err
	}
	if movement != nil {
		uc.log.Info().
			Str("product_id", productID).
			Str("unit_id", unitID).
			Str("from", movement.FromLocation).
			Str("to", movement.ToLocation).
			Str("employee_id", movement.EmployeeID).
			Msg("unidad movida")
		publishAll(ctx, uc.publisher, uc.log, movementEvent(movement))
	}
	return unit, movement, nil
}

// BulkMoveUnits cambia la ubicación de varias unidades y registra un movimiento por unidad.
func (uc *UnitUseCase) BulkMoveUnits(ctx context.Context, productID string, updates []MoveUpdate, actor Actor) ([]*entity.Movement, error) {
	if len(updates) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(updates))
	normalized := make([]MoveUpdate, len(updates))
	for i, up := range updates {
		loc, ok := entity.NormalizeLocation(up.NewLocation)
		if !ok {
			return nil, domain.ErrInvalidLocation
		}
		if _, dup := seen[up.UnitID]; dup || up.UnitID == "" {
			return nil, fmt.Errorf("%w: unidad repetida o vacía", domain.ErrInvalidInput)
		}
		seen[up.UnitID] = struct{}{}
		normalized[i] = MoveUpdate{UnitID: up.UnitID, NewLocation: loc}
	}
	actor, err := uc.resolveEmployee(ctx, actor)
	if err != nil {
		return nil, err
	}

	var movements []*entity.Movement
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, up := range normalized {
			unit, err := activeUnit(ctx, repos, p.ID, up.UnitID)
			if err != nil {
				return err
			}
			prior := unit.Location
			unit.Location = up.NewLocation
			unit.UpdatedAt = now
			if err := repos.Units.Update(ctx, unit); err != nil {
				return err
			}
			mov := newMovement(p, unit, prior, actor, now)
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", productID).
		Int("units", len(movements)).
		Str("employee_id", actor.EmployeeID).
		Msg("movimiento masivo de unidades")
	events := make([]Event, 0, len(movements))
	for _, m := range movements {
		events = append(events, movementEvent(m))
	}
	publishAll(ctx, uc.publisher, uc.log, events...)
	return movements, nil
}

// DeleteUnit da de baja lógica la unidad. No modifica el stock del producto ni genera historial:
// las reducciones de stock combinan la baja con un ajuste explícito.
func (uc *UnitUseCase) DeleteUnit(ctx context.Context, productID, unitID string) error {
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		if _, err := activeUnit(ctx, repos, productID, unitID); err != nil {
			return err
		}
		return repos.Units.SoftDelete(ctx, productID, unitID, now)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", productID).Str("unit_id", unitID).Msg("unidad eliminada")
	publishAll(ctx, uc.publisher, uc.log, Event{
		Type:       EventUnitDeleted,
		ProductID:  productID,
		UnitIDs:    []string{unitID},
		OccurredAt: now,
	})
	return nil
}

// resolveEmployee completa el nombre del empleado desde el directorio cuando solo llega el ID.
// El empleado es solo atribución: un ID desconocido no bloquea la operación.
func (uc *UnitUseCase) resolveEmployee(ctx context.Context, actor Actor) (Actor, error) {
	actor.EmployeeID = strings.TrimSpace(actor.EmployeeID)
	if actor.EmployeeID == "" || actor.EmployeeName != "" || uc.employees == nil {
		return actor, nil
	}
	emp, err := uc.employees.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return actor, err
	}
	if emp != nil {
		actor.EmployeeName = emp.Name
	}
	return actor, nil
}

func activeUnit(ctx context.Context, repos TxRepos, productID, unitID string) (*entity.Unit, error) {
	unit, err := repos.Units.GetByID(ctx, productID, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil || !unit.Active() {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

func newMovement(p *entity.Product, u *entity.Unit, from string, actor Actor, at time.Time) *entity.Movement {
	sku := u.SKU
	if sku == "" {
		sku = p.SKU
	}
	return &entity.Movement{
		ID:           uuid.New().String(),
		UnitID:       u.ID,
		ProductID:    p.ID,
		ProductName:  p.Name,
		SKU:          sku,
		SerialNumber: u.SerialNumber,
		FromLocation: from,
		ToLocation:   u.Location,
		User:         actor.User,
		EmployeeID:   actor.EmployeeID,
		EmployeeName: actor.EmployeeName,
		CreatedAt:    at,
	}
}

func movementEvent(m *entity.Movement) Event {
	return Event{
		Type:         EventMovementRecorded,
		ProductID:    m.ProductID,
		UnitIDs:      []string{m.UnitID},
		FromLocation: m.FromLocation,
		ToLocation:   m.ToLocation,
		User:         m.User,
		OccurredAt:   m.CreatedAt,
	}
}

func unitIDs(units []*entity.Unit) []string {
	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID)
	}
	return ids
}
