package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Tipos de evento de dominio.
const (
	EventUnitsCreated     = "unit.created"
	EventUnitDeleted      = "unit.deleted"
	EventMovementRecorded = "movement.recorded"
	EventStockAdjusted    = "stock.adjusted"
)

// Event es la notificación que reciben las vistas tras una mutación confirmada.
type Event struct {
	Type          string    `json:"type"`
	ProductID     string    `json:"product_id"`
	UnitIDs       []string  `json:"unit_ids,omitempty"`
	Action        string    `json:"action,omitempty"`
	FromLocation  string    `json:"from_location,omitempty"`
	ToLocation    string    `json:"to_location,omitempty"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason,omitempty"`
	User          string    `json:"user,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// LogPublisher publica los eventos solo en el log (cuando no hay Redis configurado).
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher construye el publicador de log.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish escribe el evento a nivel debug.
func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Debug().
		Str("event", event.Type).
		Str("product_id", event.ProductID).
		Strs("unit_ids", event.UnitIDs).
		Msg("evento de inventario")
	return nil
}

// publishAll publica tras el commit; un fallo de difusión no revierte la operación, solo se registra.
func publishAll(ctx context.Context, pub EventPublisher, log zerolog.Logger, events ...Event) {
	if pub == nil {
		return
	}
	for _, ev := range events {
		if err := pub.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).Str("event", ev.Type).Str("product_id", ev.ProductID).Msg("publicar evento")
		}
	}
}
