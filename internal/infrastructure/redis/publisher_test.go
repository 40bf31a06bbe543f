package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-unidades/internal/application/inventory"
	redispub "github.com/jhoicas/inventario-unidades/internal/infrastructure/redis"
	"github.com/jhoicas/inventario-unidades/pkg/config"
)

func TestPublisher_PublicaJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := redispub.NewClient(ctx, config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(ctx, "inventario.events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err, "confirmación de suscripción")

	pub := redispub.NewPublisher(client, "inventario.events")
	require.NoError(t, pub.Ping(ctx))
	err = pub.Publish(ctx, inventory.Event{
		Type:          inventory.EventStockAdjusted,
		ProductID:     "p1",
		Action:        "add",
		PreviousStock: 2,
		NewStock:      5,
		OccurredAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var got inventory.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, inventory.EventStockAdjusted, got.Type)
		assert.Equal(t, "p1", got.ProductID)
		assert.Equal(t, 5, got.NewStock)
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento")
	}
}

func TestPublisher_StockCeroSeSerializa(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := redispub.NewClient(ctx, config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(ctx, "inventario.events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	err = redispub.NewPublisher(client, "inventario.events").Publish(ctx, inventory.Event{
		Type:          inventory.EventStockAdjusted,
		ProductID:     "p1",
		Action:        "add",
		PreviousStock: 0,
		NewStock:      5,
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var raw map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &raw))
		assert.Contains(t, raw, "previous_stock", "un stock previo de 0 también se publica")
		assert.EqualValues(t, 0, raw["previous_stock"])
		assert.EqualValues(t, 5, raw["new_stock"])
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento")
	}
}

func TestNewClient_SinServidor(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redispub.NewClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestPublisher_ErrorSiCerrado(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Close())

	err := redispub.NewPublisher(client, "c").Publish(context.Background(), inventory.Event{Type: inventory.EventUnitDeleted})
	assert.Error(t, err)
}
