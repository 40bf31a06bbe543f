package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/inventory"
)

const (
	aula1 = "AULA 1 – VC"
	aula2 = "AULA 2 – VC"
)

func sampleUnits() []*entity.Unit {
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	deleted := base.Add(time.Hour)
	return []*entity.Unit{
		{ID: "a", Location: aula1, CreatedAt: base},
		{ID: "b", Location: aula1, CreatedAt: base.Add(time.Minute)},
		{ID: "c", Location: aula2, CreatedAt: base.Add(time.Minute)},
		{ID: "d", Location: aula1, CreatedAt: base.Add(2 * time.Minute), DeletedAt: &deleted},
	}
}

func TestSelectForReduction_MasRecientesPrimero(t *testing.T) {
	got := inventory.SelectForReduction(sampleUnits(), 2)
	require.Len(t, got, 2)
	// b y c comparten CreatedAt: desempate por ID descendente
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	assert.Len(t, inventory.SelectForReduction(sampleUnits(), 10), 3, "nunca incluye unidades eliminadas")
	assert.Nil(t, inventory.SelectForReduction(sampleUnits(), 0))
}

func TestCheckSelection(t *testing.T) {
	units := sampleUnits()

	got, err := inventory.CheckSelection(units, []string{"a", "b"}, aula1, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = inventory.CheckSelection(units, []string{"a"}, aula1, 2)
	assert.ErrorIs(t, err, domain.ErrSelectionMismatch, "selección parcial")

	_, err = inventory.CheckSelection(units, []string{"a", "a"}, aula1, 2)
	assert.ErrorIs(t, err, domain.ErrSelectionMismatch, "unidad repetida")

	_, err = inventory.CheckSelection(units, []string{"a", "c"}, aula1, 2)
	assert.ErrorIs(t, err, domain.ErrSelectionMismatch, "unidad de otra ubicación")

	_, err = inventory.CheckSelection(units, []string{"a", "d"}, aula1, 2)
	assert.ErrorIs(t, err, domain.ErrSelectionMismatch, "unidad eliminada")
}

func TestActiveAt(t *testing.T) {
	assert.Len(t, inventory.ActiveAt(sampleUnits(), aula1), 2)
	assert.Len(t, inventory.ActiveAt(sampleUnits(), aula2), 1)
}

func TestReconcile(t *testing.T) {
	r := inventory.Reconcile(5, 3)
	assert.Equal(t, 2, r.Pending)
	assert.True(t, r.HasPending())
	assert.False(t, r.Consistent())

	r = inventory.Reconcile(3, 3)
	assert.True(t, r.Consistent())

	r = inventory.Reconcile(1, 3)
	assert.Equal(t, 2, r.Excess)
	assert.False(t, r.Consistent())
}

func TestGroupUnits(t *testing.T) {
	groups, err := inventory.GroupUnits(sampleUnits(), inventory.GroupByLocation)
	require.NoError(t, err)
	assert.Len(t, groups[aula1], 3)
	assert.Len(t, groups[aula2], 1)

	_, err = inventory.GroupUnits(sampleUnits(), "color")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGroupHistoryByAction(t *testing.T) {
	entries := []*entity.StockHistoryEntry{
		{Action: entity.StockActionAdd}, {Action: entity.StockActionRemove}, {Action: entity.StockActionAdd},
	}
	groups := inventory.GroupHistoryByAction(entries)
	assert.Len(t, groups[entity.StockActionAdd], 2)
	assert.Len(t, groups[entity.StockActionRemove], 1)
}
