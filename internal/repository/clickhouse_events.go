package repository

import (
	"context"

	"github.com/dcamacho/rbm-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// EventsRepository is the ClickHouse audit log of inbound webhook events
// (append-only).
type EventsRepository interface {
	Insert(ctx context.Context, ev model.InboundEvent) error
	ListRecent(ctx context.Context, classification string, limit, offset int) ([]model.InboundEvent, error)
}

type eventsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewEventsRepository(ch *sqlx.DB) EventsRepository {
	return &eventsRepository{ch: ch}
}

func (r *eventsRepository) Insert(ctx context.Context, ev model.InboundEvent) error {
	const q = `
		INSERT INTO rbmgw.inbound_events
		    (id, classification, sender_phone, payload, received_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.ch.ExecContext(ctx, q,
		ev.ID, ev.Classification, ev.SenderPhone, ev.Payload, ev.ReceivedAt,
	)
	return err
}

func (r *eventsRepository) ListRecent(ctx context.Context, classification string, limit, offset int) ([]model.InboundEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, classification, sender_phone, payload, received_at
		FROM rbmgw.inbound_events
	`
	args := []any{}

	if classification != "" {
		q += " WHERE classification = ?"
		args = append(args, classification)
	}

	q += " ORDER BY received_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.InboundEvent
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
