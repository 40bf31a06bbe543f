package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/inventory"
)

// WizardState estado de un asistente de alta o movimiento masivo.
type WizardState string

const (
	StateCollectingInput WizardState = "collecting-input"
	StateConfirming      WizardState = "confirming"
	StateDone            WizardState = "done"
)

func stateError(got, want WizardState) error {
	return fmt.Errorf("%w: asistente en estado %s, se esperaba %s", domain.ErrConflict, got, want)
}

// BulkAddWizard recoge y valida la entrada del alta masiva antes de delegar en BulkAddUnits.
// Ninguna validación fallida avanza a confirming.
type BulkAddWizard struct {
	units     *UnitUseCase
	product   *entity.Product
	shortfall int
	state     WizardState
	input     BulkAddInput
}

// NewBulkAddWizard abre el asistente para un producto con unidades pendientes de crear.
func (uc *UnitUseCase) NewBulkAddWizard(ctx context.Context, productID string) (*BulkAddWizard, error) {
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
	rec := inventory.Reconcile(p.Stock, active)
	if !rec.HasPending() {
		return nil, domain.ErrUnitLimitReached
	}
	return &BulkAddWizard{
		units:     uc,
		product:   p,
		shortfall: rec.Pending,
		state:     StateCollectingInput,
		input: BulkAddInput{
			Quantity:  rec.Pending,
			Reference: OrderReference(p.OrderNumber),
		},
	}, nil
}

// State devuelve el estado actual.
func (w *BulkAddWizard) State() WizardState { return w.state }

// Shortfall unidades que faltan por crear.
func (w *BulkAddWizard) Shortfall() int { return w.shortfall }

// Product producto sobre el que opera el asistente.
func (w *BulkAddWizard) Product() *entity.Product { return w.product }

// Input entrada actual: la sembrada al abrir o la normalizada tras Submit.
func (w *BulkAddWizard) Input() BulkAddInput { return w.input }

// Submit valida la entrada y pasa a confirming.
func (w *BulkAddWizard) Submit(in BulkAddInput) error {
	if w.state != StateCollectingInput {
		return stateError(w.state, StateCollectingInput)
	}
	loc, ok := entity.NormalizeLocation(in.Location)
	if !ok {
		return domain.ErrInvalidLocation
	}
	in.Location = loc
	in.Reference = strings.TrimSpace(in.Reference)
	if in.Reference == "" {
		return domain.ErrReasonRequired
	}
	if in.Status == "" {
		in.Status = entity.UnitStatusAvailable
	}
	if !entity.ValidUnitStatus(in.Status) {
		return domain.ErrInvalidStatus
	}

	if w.product.RequiresSerial() {
		// Con serie la cantidad no es editable: siempre el faltante completo.
		in.Quantity = w.shortfall
		in.Serials = inventory.TrimAll(in.Serials)
		if len(in.Serials) != in.Quantity {
			return fmt.Errorf("%w: %d series para %d unidades", domain.ErrSerialCountMismatch, len(in.Serials), in.Quantity)
		}
		if err := inventory.ValidateSerials(in.Serials, nil); err != nil {
			return err
		}
	} else {
		in.Quantity = clamp(in.Quantity, 1, w.shortfall)
		in.Serials = nil
	}

	in.SKUs = inventory.TrimAll(in.SKUs)
	if err := inventory.ValidateSKUs(in.SKUs, in.Quantity); err != nil {
		return err
	}
	w.input = in
	w.state = StateConfirming
	return nil
}

// Back vuelve a la recogida de datos conservando la entrada.
func (w *BulkAddWizard) Back() {
	if w.state == StateConfirming {
		w.state = StateCollectingInput
	}
}

// Confirm ejecuta el alta. Si falla, el asistente sigue en confirming.
func (w *BulkAddWizard) Confirm(ctx context.Context) ([]*entity.Unit, error) {
	if w.state != StateConfirming {
		return nil, stateError(w.state, StateConfirming)
	}
	created, err := w.units.BulkAddUnits(ctx, w.product.ID, w.input)
	if err != nil {
		return nil, err
	}
	w.state = StateDone
	return created, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveInput datos del movimiento: destino y empleado que lo realiza.
type MoveInput struct {
	NewLocation  string
	EmployeeID   string
	EmployeeName string
}

// MoveWizard mueve una o varias unidades activas. El empleado es obligatorio y solo
// sirve de atribución; no hay más reglas de negocio que los campos requeridos.
type MoveWizard struct {
	units     *UnitUseCase
	productID string
	selected  []*entity.Unit
	state     WizardState
	input     MoveInput
}

// NewMoveWizard abre el asistente para las unidades indicadas del producto.
func (uc *UnitUseCase) NewMoveWizard(ctx context.Context, productID string, unitIDs []string) (*MoveWizard, error) {
	if len(unitIDs) == 0 {
		return nil, fmt.Errorf("%w: no hay unidades seleccionadas", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(unitIDs))
	selected := make([]*entity.Unit, 0, len(unitIDs))
	for _, id := range unitIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: unidad repetida %s", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		u, err := uc.units.GetByID(ctx, productID, id)
		if err != nil {
			return nil, err
		}
		if u == nil || !u.Active() {
			return nil, domain.ErrNotFound
		}
		selected = append(selected, u)
	}
	return &MoveWizard{
		units:     uc,
		productID: productID,
		selected:  selected,
		state:     StateCollectingInput,
	}, nil
}

// State devuelve el estado actual.
func (w *MoveWizard) State() WizardState { return w.state }

// Units unidades seleccionadas.
func (w *MoveWizard) Units() []*entity.Unit { return w.selected }

// Input entrada normalizada tras Submit.
func (w *MoveWizard) Input() MoveInput { return w.input }

// Submit valida destino y empleado y pasa a confirming.
func (w *MoveWizard) Submit(in MoveInput) error {
	if w.state != StateCollectingInput {
		return stateError(w.state, StateCollectingInput)
	}
	loc, ok := entity.NormalizeLocation(in.NewLocation)
	if !ok {
		return domain.ErrInvalidLocation
	}
	in.NewLocation = loc
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	if in.EmployeeID == "" {
		return domain.ErrEmployeeRequired
	}
	if len(w.selected) == 1 && w.selected[0].Location == loc {
		return domain.ErrSameLocation
	}
	w.input = in
	w.state = StateConfirming
	return nil
}

// Back vuelve a la recogida de datos.
func (w *MoveWizard) Back() {
	if w.state == StateConfirming {
		w.state = StateCollectingInput
	}
}

// Confirm ejecuta el movimiento: MoveUnit para una unidad, BulkMoveUnits para varias.
func (w *MoveWizard) Confirm(ctx context.Context, user string) ([]*entity.Movement, error) {
	if w.state != StateConfirming {
		return nil, stateError(w.state, StateConfirming)
	}
	actor := Actor{User: user, EmployeeID: w.input.EmployeeID, EmployeeName: w.input.EmployeeName}

	var movements []*entity.Movement
	if len(w.selected) == 1 {
		_, mov, err := w.units.MoveUnit(ctx, w.productID, w.selected[0].ID, w.input.NewLocation, actor)
		if err != nil {
			return nil, err
		}
		if mov != nil {
			movements = append(movements, mov)
		}
	} else {
		updates := make([]MoveUpdate, 0, len(w.selected))
		for _, u := range w.selected {
			updates = append(updates, MoveUpdate{UnitID: u.ID, NewLocation: w.input.NewLocation})
		}
		var err error
		movements, err = w.units.BulkMoveUnits(ctx, w.productID, updates, actor)
		if err != nil {
			return nil, err
		}
	}
	w.state = StateDone
	return movements, nil
}
