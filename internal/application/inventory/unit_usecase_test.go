package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

func TestAddUnit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 1, false)

	u, err := f.units.AddUnit(ctx, "p1", inventory.UnitInput{Location: "almacén – vc"})
	require.NoError(t, err)
	assert.Equal(t, almacenVC, u.Location)
	assert.Equal(t, entity.UnitStatusAvailable, u.Status)
	assert.Equal(t, []string{inventory.EventUnitsCreated}, f.events.types())

	_, err = f.units.AddUnit(ctx, "p1", inventory.UnitInput{Location: almacenVC})
	assert.ErrorIs(t, err, domain.ErrUnitLimitReached)
	assert.Equal(t, 1, f.activeCount(t, "p1"))

	movs, err := f.query.Movements(ctx, repository.MovementFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestAddUnit_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "ps", 3, true)
	f.seedUnits(t, "ps", almacenVC, 1, true)

	_, err := f.units.AddUnit(ctx, "ps", inventory.UnitInput{Location: "PASILLO"})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)

	_, err = f.units.AddUnit(ctx, "ps", inventory.UnitInput{Location: almacenVC, Status: "roto"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.units.AddUnit(ctx, "ps", inventory.UnitInput{Location: almacenVC, SerialNumber: "  "})
	assert.ErrorIs(t, err, domain.ErrSerialRequired)

	_, err = f.units.AddUnit(ctx, "ps", inventory.UnitInput{Location: almacenVC, SerialNumber: "SN-ps-00"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)

	_, err = f.units.AddUnit(ctx, "nope", inventory.UnitInput{Location: almacenVC})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 1, f.activeCount(t, "ps"))
	assert.Empty(t, f.events.types())
}

func TestBulkAddUnits_CompletaFaltante(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 5, false)
	f.seedUnits(t, "p1", almacenVC, 2, false)

	created, err := f.units.BulkAddUnits(ctx, "p1", inventory.BulkAddInput{Location: aula1VC, Reference: "Pedido 7"})
	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, u := range created {
		assert.Equal(t, aula1VC, u.Location)
		assert.Empty(t, u.SKU)
		assert.Empty(t, u.SerialNumber)
	}
	assert.Equal(t, 5, f.activeCount(t, "p1"))

	_, err = f.units.BulkAddUnits(ctx, "p1", inventory.BulkAddInput{Location: aula1VC})
	assert.ErrorIs(t, err, domain.ErrUnitLimitReached)
}

func TestBulkAddUnits_AsignacionPosicional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "ps", 3, true)

	created, err := f.units.BulkAddUnits(ctx, "ps", inventory.BulkAddInput{
		Location: almacenVC,
		Serials:  []string{"A1", "A2", "A3"},
		SKUs:     []string{"K1", "K2"},
		Quantity: 3,
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "A1", created[0].SerialNumber)
	assert.Equal(t, "K1", created[0].SKU)
	assert.Equal(t, "A3", created[2].SerialNumber)
	assert.Empty(t, created[2].SKU)

	units, err := f.query.ProductUnits(ctx, "ps", inventory.UnitFilter{})
	require.NoError(t, err)
	assert.Equal(t, ids(created), ids(units), "se conserva el orden de inserción")
}

func TestBulkAddUnits_ListasDeDistintoLargo(t *testing.T) {
	ctx := context.Background()

	t.Run("skus cortos completan el faltante", func(t *testing.T) {
		f := newFixture(t, inventory.UnitOptions{})
		f.product(t, "p1", 5, false)
		created, err := f.units.BulkAddUnits(ctx, "p1", inventory.BulkAddInput{Location: almacenVC, SKUs: []string{"A", "B"}})
		require.NoError(t, err)
		require.Len(t, created, 5)
		assert.Equal(t, "A", created[0].SKU)
		assert.Equal(t, "B", created[1].SKU)
		for _, u := range created[2:] {
			assert.Empty(t, u.SKU)
		}
		assert.Equal(t, 5, f.activeCount(t, "p1"))
	})

	t.Run("series y skus mezclados", func(t *testing.T) {
		f := newFixture(t, inventory.UnitOptions{})
		f.product(t, "ps", 3, true)
		created, err := f.units.BulkAddUnits(ctx, "ps", inventory.BulkAddInput{
			Location: almacenVC,
			SKUs:     []string{"A", "B"},
			Serials:  []string{"S1", "S2", "S3"},
		})
		require.NoError(t, err)
		require.Len(t, created, 3)
		assert.Equal(t, []string{"S1", "S2", "S3"},
			[]string{created[0].SerialNumber, created[1].SerialNumber, created[2].SerialNumber})
		assert.Equal(t, "B", created[1].SKU)
		assert.Empty(t, created[2].SKU)
	})
}

func TestBulkAddUnits_NoSuperaElStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 2, false)

	_, err := f.units.BulkAddUnits(ctx, "p1", inventory.BulkAddInput{Location: almacenVC, SKUs: []string{"a", "b", "c"}})
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
	assert.Zero(t, f.activeCount(t, "p1"))
}

func TestBulkAddUnits_SeriesIncompletas(t *testing.T) {
	ctx := context.Background()

	t.Run("estricto rechaza", func(t *testing.T) {
		f := newFixture(t, inventory.UnitOptions{})
		f.product(t, "ps", 3, true)
		_, err := f.units.BulkAddUnits(ctx, "ps", inventory.BulkAddInput{Location: almacenVC, Serials: []string{"S1"}, Quantity: 3})
		assert.ErrorIs(t, err, domain.ErrSerialCountMismatch)
		assert.Zero(t, f.activeCount(t, "ps"))
	})

	t.Run("permisivo genera provisionales", func(t *testing.T) {
		f := newFixture(t, inventory.UnitOptions{AllowPlaceholderSerials: true})
		f.product(t, "ps", 3, true)
		created, err := f.units.BulkAddUnits(ctx, "ps", inventory.BulkAddInput{Location: almacenVC, Serials: []string{"S1"}, Quantity: 3})
		require.NoError(t, err)
		require.Len(t, created, 3)
		assert.Equal(t, "S1", created[0].SerialNumber)
		assert.True(t, strings.HasPrefix(created[1].SerialNumber, "AUTO-"))
		assert.True(t, strings.HasSuffix(created[2].SerialNumber, "-3"))
	})
}

func TestActivasNuncaSuperanStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 3, false)

	steps := []func() error{
		func() error { _, err := f.units.AddUnit(ctx, "p1", inventory.UnitInput{Location: almacenVC}); return err },
		func() error {
			_, err := f.units.BulkAddUnits(ctx, "p1", inventory.BulkAddInput{Location: aula1VC, Quantity: 5})
			return err
		},
		func() error { _, err := f.units.BulkAddUnits(ctx, "p1", inventory.BulkAddInput{Location: aula1VC}); return err },
		func() error { _, err := f.units.AddUnit(ctx, "p1", inventory.UnitInput{Location: almacenVC}); return err },
		func() error {
			units, _ := f.query.ProductUnits(ctx, "p1", inventory.UnitFilter{})
			return f.units.DeleteUnit(ctx, "p1", units[0].ID)
		},
		func() error { _, err := f.units.AddUnit(ctx, "p1", inventory.UnitInput{Location: almacenVC}); return err },
		func() error { _, err := f.units.AddUnit(ctx, "p1", inventory.UnitInput{Location: almacenVC}); return err },
	}
	for _, step := range steps {
		_ = step()
		assert.LessOrEqual(t, f.activeCount(t, "p1"), f.stockOf(t, "p1"))
	}
	assert.Equal(t, 3, f.activeCount(t, "p1"))
}

func TestUpdateUnit_MovimientoSoloSiCambiaUbicacionYHayEmpleado(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name     string
		location string
		employee string
		want     int
	}{
		{"cambia con empleado", aula2VC, "E1", 1},
		{"cambia sin empleado", aula2VC, "", 0},
		{"misma ubicación con empleado", aula1VC, "E1", 0},
		{"misma ubicación sin empleado", aula1VC, "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, inventory.UnitOptions{})
			f.product(t, "p1", 1, false)
			u := f.seedUnits(t, "p1", aula1VC, 1, false)[0]

			updated, mov, err := f.units.UpdateUnit(ctx, "p1", u.ID, inventory.UnitInput{
				Location: tc.location,
				Status:   entity.UnitStatusInUse,
				SKU:      "K-9",
			}, inventory.Actor{User: "admin", EmployeeID: tc.employee})
			require.NoError(t, err)
			assert.Equal(t, tc.location, updated.Location)
			assert.Equal(t, entity.UnitStatusInUse, updated.Status)

			movs, err := f.query.Movements(ctx, repository.MovementFilter{ProductID: "p1"})
			require.NoError(t, err)
			assert.Len(t, movs, tc.want)
			if tc.want == 1 {
				require.NotNil(t, mov)
				assert.Equal(t, aula1VC, mov.FromLocation)
				assert.Equal(t, aula2VC, mov.ToLocation)
				assert.Equal(t, "Ana Pérez", mov.EmployeeName)
				assert.Equal(t, "K-9", mov.SKU)
			} else {
				assert.Nil(t, mov)
			}
		})
	}
}

func TestUpdateUnit_SerieObligatoriaYUnica(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "ps", 2, true)
	units := f.seedUnits(t, "ps", almacenVC, 2, true)

	_, _, err := f.units.UpdateUnit(ctx, "ps", units[0].ID, inventory.UnitInput{Location: almacenVC}, inventory.Actor{})
	assert.ErrorIs(t, err, domain.ErrSerialRequired)

	_, _, err = f.units.UpdateUnit(ctx, "ps", units[0].ID, inventory.UnitInput{Location: almacenVC, SerialNumber: units[1].SerialNumber}, inventory.Actor{})
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)

	// Conservar la propia serie no es duplicado.
	_, _, err = f.units.UpdateUnit(ctx, "ps", units[0].ID, inventory.UnitInput{Location: aula1VC, SerialNumber: units[0].SerialNumber}, inventory.Actor{})
	assert.NoError(t, err)
}

// Escenario C: mover 2 unidades de AULA 1 a AULA 2 con el empleado E1.
func TestBulkMoveUnits_EscenarioC(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 3, false)
	units := f.seedUnits(t, "p1", aula1VC, 3, false)

	movs, err := f.units.BulkMoveUnits(ctx, "p1", []inventory.MoveUpdate{
		{UnitID: units[0].ID, NewLocation: aula2VC},
		{UnitID: units[1].ID, NewLocation: aula2VC},
	}, inventory.Actor{User: "admin", EmployeeID: "E1"})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, aula1VC, m.FromLocation)
		assert.Equal(t, aula2VC, m.ToLocation)
		assert.Equal(t, "E1", m.EmployeeID)
	}

	byLoc, err := f.query.GroupedUnits(ctx, "p1", inventory.UnitFilter{}, "location")
	require.NoError(t, err)
	assert.Len(t, byLoc[aula2VC], 2)
	assert.Len(t, byLoc[aula1VC], 1)

	logged, err := f.query.Movements(ctx, repository.MovementFilter{Location: aula2VC})
	require.NoError(t, err)
	assert.Len(t, logged, 2)
	assert.Equal(t, []string{inventory.EventMovementRecorded, inventory.EventMovementRecorded}, f.events.types())
}

func TestBulkMoveUnits_TodoONada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 2, false)
	units := f.seedUnits(t, "p1", aula1VC, 1, false)

	_, err := f.units.BulkMoveUnits(ctx, "p1", []inventory.MoveUpdate{
		{UnitID: units[0].ID, NewLocation: aula2VC},
		{UnitID: "no-existe", NewLocation: aula2VC},
	}, inventory.Actor{EmployeeID: "E1"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	u, err := f.store.Units().GetByID(ctx, "p1", units[0].ID)
	require.NoError(t, err)
	assert.Equal(t, aula1VC, u.Location)
	movs, _ := f.query.Movements(ctx, repository.MovementFilter{})
	assert.Empty(t, movs)
	assert.Empty(t, f.events.types())
}

func TestBulkMoveUnits_EntradaInvalida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 1, false)
	u := f.seedUnits(t, "p1", aula1VC, 1, false)[0]

	_, err := f.units.BulkMoveUnits(ctx, "p1", nil, inventory.Actor{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.units.BulkMoveUnits(ctx, "p1", []inventory.MoveUpdate{{UnitID: u.ID, NewLocation: "SÓTANO"}}, inventory.Actor{})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)

	_, err = f.units.BulkMoveUnits(ctx, "p1", []inventory.MoveUpdate{
		{UnitID: u.ID, NewLocation: aula2VC},
		{UnitID: u.ID, NewLocation: almacenVC},
	}, inventory.Actor{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteUnit_BajaLogica(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, inventory.UnitOptions{})
	f.product(t, "p1", 2, false)
	units := f.seedUnits(t, "p1", almacenVC, 2, false)

	require.NoError(t, f.units.DeleteUnit(ctx, "p1", units[0].ID))
	assert.Equal(t, 2, f.stockOf(t, "p1"), "el stock no cambia")
	assert.Equal(t, 1, f.activeCount(t, "p1"))

	active, err := f.query.ProductUnits(ctx, "p1", inventory.UnitFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{units[1].ID}, ids(active))

	all, err := f.query.ProductUnits(ctx, "p1", inventory.UnitFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[0].DeletedAt)

	assert.ErrorIs(t, f.units.DeleteUnit(ctx, "p1", units[0].ID), domain.ErrNotFound)

	history, err := f.query.StockHistory(ctx, repository.HistoryFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, []string{inventory.EventUnitDeleted}, f.events.types())
}
