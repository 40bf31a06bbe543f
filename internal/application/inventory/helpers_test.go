package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/infrastructure/memory"
)

const (
	almacenVC = "ALMACÉN – VC"
	aula1VC   = "AULA 1 – VC"
	aula2VC   = "AULA 2 – VC"
)

type recorder struct {
	mu     sync.Mutex
	events []inventory.Event
}

func (r *recorder) Publish(_ context.Context, e inventory.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store  *memory.Store
	units  *inventory.UnitUseCase
	stock  *inventory.StockUseCase
	query  *inventory.QueryUseCase
	events *recorder
}

func newFixture(t *testing.T, opts inventory.UnitOptions) *fixture {
	t.Helper()
	s := memory.NewStore()
	s.AddEmployees(
		&entity.Employee{ID: "E1", Name: "Ana Pérez", Department: "Mantenimiento"},
		&entity.Employee{ID: "E2", Name: "Luis Gómez", Department: "Secretaría"},
	)
	rec := &recorder{}
	log := zerolog.Nop()
	return &fixture{
		store:  s,
		units:  inventory.NewUnitUseCase(s, s.Products(), s.Units(), s.Employees(), rec, log, opts),
		stock:  inventory.NewStockUseCase(s, s.Products(), s.Units(), rec, log),
		query:  inventory.NewQueryUseCase(s.Products(), s.Units(), s.Movements(), s.History(), s.Employees()),
		events: rec,
	}
}

func (f *fixture) product(t *testing.T, id string, stock int, serial bool) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:              id,
		CompanyID:       "c1",
		Name:            "Producto " + id,
		SKU:             "SKU-" + id,
		Category:        "Informática",
		Stock:           stock,
		HasSerialNumber: serial,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

// seedUnits crea n unidades activas con CreatedAt creciente (u-<product>-<loc>-<i>).
func (f *fixture) seedUnits(t *testing.T, productID, location string, n int, serial bool) []*entity.Unit {
	t.Helper()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	existing, err := f.store.Units().ListByProduct(context.Background(), productID, true)
	require.NoError(t, err)
	offset := len(existing)
	out := make([]*entity.Unit, 0, n)
	for i := 0; i < n; i++ {
		idx := offset + i
		u := &entity.Unit{
			ID:        fmt.Sprintf("u-%s-%02d", productID, idx),
			ProductID: productID,
			Location:  location,
			Status:    entity.UnitStatusAvailable,
			CreatedAt: base.Add(time.Duration(idx) * time.Minute),
			UpdatedAt: base.Add(time.Duration(idx) * time.Minute),
		}
		if serial {
			u.SerialNumber = fmt.Sprintf("SN-%s-%02d", productID, idx)
		}
		require.NoError(t, f.store.Units().Create(context.Background(), u))
		out = append(out, u)
	}
	return out
}

func (f *fixture) activeCount(t *testing.T, productID string) int {
	t.Helper()
	n, err := f.store.Units().CountActive(context.Background(), productID)
	require.NoError(t, err)
	return n
}

func (f *fixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func ids(units []*entity.Unit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.ID)
	}
	return out
}
