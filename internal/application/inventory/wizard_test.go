package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

func TestBulkAddWizard_SinSerie(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 0, false)
	_, err := f.stock.ReceiveOrder(ctx, "p1", inventory.ReceiveOrderInput{Quantity: 4, OrderNumber: "123"}, inventory.Actor{})
	require.NoError(t, err)

	w, err := f.units.NewBulkAddWizard(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, inventory.StateCollectingInput, w.State())
	assert.Equal(t, 4, w.Shortfall())
	assert.Equal(t, "Pedido 123", w.Input().Reference)

	_, err = w.Confirm(ctx)
	assert.ErrorIs(t, err, domain.ErrConflict, "no se confirma sin pasar por Submit")

	assert.ErrorIs(t, w.Submit(inventory.BulkAddInput{Quantity: 2, Reference: "x"}), domain.ErrInvalidLocation)
	assert.ErrorIs(t, w.Submit(inventory.BulkAddInput{Quantity: 2, Location: almacenVC}), domain.ErrReasonRequired)
	assert.ErrorIs(t, w.Submit(inventory.BulkAddInput{Quantity: 2, Location: almacenVC, Reference: "x", SKUs: []string{"a"}}), domain.ErrSKUCountMismatch)
	assert.Equal(t, inventory.StateCollectingInput, w.State())

	// La cantidad se acota a 1..faltante.
	require.NoError(t, w.Submit(inventory.BulkAddInput{Quantity: 99, Location: almacenVC, Reference: "Pedido 123"}))
	assert.Equal(t, inventory.StateConfirming, w.State())
	assert.Equal(t, 4, w.Input().Quantity)

	w.Back()
	assert.Equal(t, inventory.StateCollectingInput, w.State())
	require.NoError(t, w.Submit(inventory.BulkAddInput{Quantity: 0, Location: almacenVC, Reference: "Pedido 123", SKUs: []string{"K1"}}))
	assert.Equal(t, 1, w.Input().Quantity)

	created, err := w.Confirm(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "K1", created[0].SKU)
	assert.Equal(t, inventory.StateDone, w.State())
	assert.Equal(t, 1, f.activeCount(t, "p1"))
}

func TestBulkAddWizard_ConSerie(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{AllowPlaceholderSerials: true})
	f.product(t, "ps", 3, true)
	f.seedUnits(t, "ps", almacenVC, 1, true)

	w, err := f.units.NewBulkAddWizard(ctx, "ps")
	require.NoError(t, err)
	assert.Equal(t, 2, w.Shortfall())

	// El asistente exige todas las series aunque el servicio admita provisionales.
	err = w.Submit(inventory.BulkAddInput{Quantity: 1, Location: aula1VC, Reference: "r", Serials: []string{"N1"}})
	assert.ErrorIs(t, err, domain.ErrSerialCountMismatch)
	err = w.Submit(inventory.BulkAddInput{Location: aula1VC, Reference: "r", Serials: []string{"N1", "N1"}})
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)

	require.NoError(t, w.Submit(inventory.BulkAddInput{Quantity: 1, Location: aula1VC, Reference: "r", Serials: []string{"N1", "N2"}}))
	assert.Equal(t, 2, w.Input().Quantity, "con serie la cantidad es el faltante")

	created, err := w.Confirm(ctx)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, []string{"N1", "N2"}, []string{created[0].SerialNumber, created[1].SerialNumber})
	assert.Equal(t, 3, f.activeCount(t, "ps"))
}

func TestBulkAddWizard_SerieYaActivaFallaAlConfirmar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "ps", 2, true)
	f.seedUnits(t, "ps", almacenVC, 1, true)

	w, err := f.units.NewBulkAddWizard(ctx, "ps")
	require.NoError(t, err)
	require.NoError(t, w.Submit(inventory.BulkAddInput{Location: almacenVC, Reference: "r", Serials: []string{"SN-ps-00"}}))

	_, err = w.Confirm(ctx)
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)
	assert.Equal(t, inventory.StateConfirming, w.State())
	assert.Equal(t, 1, f.activeCount(t, "ps"))
}

func TestBulkAddWizard_SinFaltante(t *testing.T) {
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 1, false)
	f.seedUnits(t, "p1", almacenVC, 1, false)

	_, err := f.units.NewBulkAddWizard(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrUnitLimitReached)
}

func TestMoveWizard_UnaUnidad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 1, false)
	u := f.seedUnits(t, "p1", aula1VC, 1, false)[0]

	w, err := f.units.NewMoveWizard(ctx, "p1", []string{u.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, w.Submit(inventory.MoveInput{NewLocation: aula2VC}), domain.ErrEmployeeRequired)
	assert.ErrorIs(t, w.Submit(inventory.MoveInput{NewLocation: aula1VC, EmployeeID: "E2"}), domain.ErrSameLocation)
	require.NoError(t, w.Submit(inventory.MoveInput{NewLocation: "aula 2 - vc", EmployeeID: "E2"}))
	assert.Equal(t, aula2VC, w.Input().NewLocation)

	movs, err := w.Confirm(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "Luis Gómez", movs[0].EmployeeName)
	assert.Equal(t, "admin", movs[0].User)
	assert.Equal(t, inventory.StateDone, w.State())

	moved, err := f.store.Units().GetByID(ctx, "p1", u.ID)
	require.NoError(t, err)
	assert.Equal(t, aula2VC, moved.Location)
	assert.Equal(t, entity.UnitStatusAvailable, moved.Status)
}

func TestMoveWizard_VariasUnidades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 3, false)
	atA1 := f.seedUnits(t, "p1", aula1VC, 2, false)
	atA2 := f.seedUnits(t, "p1", aula2VC, 1, false)

	w, err := f.units.NewMoveWizard(ctx, "p1", []string{atA1[0].ID, atA1[1].ID, atA2[0].ID})
	require.NoError(t, err)
	require.Len(t, w.Units(), 3)

	// En movimientos masivos no se exige que cambie la ubicación.
	require.NoError(t, w.Submit(inventory.MoveInput{NewLocation: aula2VC, EmployeeID: "E1"}))
	movs, err := w.Confirm(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, movs, 3)

	byUnit, err := f.query.GroupedMovements(ctx, repository.MovementFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, byUnit, 3)
}

func TestNewMoveWizard_Errores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 1, false)
	u := f.seedUnits(t, "p1", aula1VC, 1, false)[0]

	_, err := f.units.NewMoveWizard(ctx, "p1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.units.NewMoveWizard(ctx, "p1", []string{u.ID, u.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.units.DeleteUnit(ctx, "p1", u.ID))
	_, err = f.units.NewMoveWizard(ctx, "p1", []string{u.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMoveWizard_ConservaCambiosPosterioresAlAbrir(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "ps", 1, true)
	u := f.seedUnits(t, "ps", aula1VC, 1, true)[0]

	w, err := f.units.NewMoveWizard(ctx, "ps", []string{u.ID})
	require.NoError(t, err)
	require.NoError(t, w.Submit(inventory.MoveInput{NewLocation: aula2VC, EmployeeID: "E1"}))

	// Otro usuario edita la unidad antes de confirmar.
	_, _, err = f.units.UpdateUnit(ctx, "ps", u.ID, inventory.UnitInput{
		SKU: "K-NUEVO", SerialNumber: "SN-NUEVA", Location: aula1VC, Status: entity.UnitStatusMaintenance,
	}, inventory.Actor{})
	require.NoError(t, err)

	movs, err := w.Confirm(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "SN-NUEVA", movs[0].SerialNumber)

	got, err := f.store.Units().GetByID(ctx, "ps", u.ID)
	require.NoError(t, err)
	assert.Equal(t, aula2VC, got.Location)
	assert.Equal(t, "K-NUEVO", got.SKU)
	assert.Equal(t, "SN-NUEVA", got.SerialNumber)
	assert.Equal(t, entity.UnitStatusMaintenance, got.Status)
}
