package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-unidades/internal/application/dto"
	"github.com/jhoicas/inventario-unidades/internal/application/usecase"
	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/infrastructure/memory"
)

func newProductUC(store *memory.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(store.Products(), store.Units())
}

func TestProductUseCase_CreateYGet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newProductUC(store)
	price := decimal.RequireFromString("1250.50")
	minStock := 2

	out, err := uc.Create(ctx, "c1", dto.CreateProductRequest{
		Name: "  Portátil  ", Stock: 3, MinStock: &minStock, HasSerialNumber: true, Price: &price,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Portátil", out.Name)
	assert.Equal(t, 3, out.Stock)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Price.Equal(price))
	assert.True(t, got.HasSerialNumber)

	// El stock inicial no crea unidades.
	n, err := store.Units().CountActive(ctx, out.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	missing, err := uc.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductUseCase_CreateInvalido(t *testing.T) {
	uc := newProductUC(memory.NewStore())
	_, err := uc.Create(context.Background(), "c1", dto.CreateProductRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(context.Background(), "c1", dto.CreateProductRequest{Name: "X", Stock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_UpdateNoTocaStock(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(memory.NewStore())
	out, err := uc.Create(ctx, "c1", dto.CreateProductRequest{Name: "Silla", Stock: 5})
	require.NoError(t, err)

	name, cat := "Silla ergonómica", "Mobiliario"
	upd, err := uc.Update(ctx, out.ID, dto.UpdateProductRequest{Name: &name, Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Silla ergonómica", upd.Name)
	assert.Equal(t, "Mobiliario", upd.Category)
	assert.Equal(t, 5, upd.Stock)

	none, err := uc.Update(ctx, "nope", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProductUseCase_MarcarConSerieConUnidadesSinSerie(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newProductUC(store)
	out, err := uc.Create(ctx, "c1", dto.CreateProductRequest{Name: "Mesa", Stock: 1})
	require.NoError(t, err)
	require.NoError(t, store.Units().Create(ctx, &entity.Unit{
		ID: "u1", ProductID: out.ID, Location: "ALMACÉN – VC", Status: entity.UnitStatusAvailable, CreatedAt: time.Now(),
	}))

	yes := true
	_, err = uc.Update(ctx, out.ID, dto.UpdateProductRequest{HasSerialNumber: &yes})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductUseCase_List(t *testing.T) {
	ctx := context.Background()
	uc := newProductUC(memory.NewStore())
	for _, n := range []string{"B", "A", "C"} {
		_, err := uc.Create(ctx, "c1", dto.CreateProductRequest{Name: n})
		require.NoError(t, err)
	}
	_, err := uc.Create(ctx, "c2", dto.CreateProductRequest{Name: "Z"})
	require.NoError(t, err)

	list, err := uc.List(ctx, "c1", 2, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "A", list.Items[0].Name)
	assert.Equal(t, "B", list.Items[1].Name)
}
