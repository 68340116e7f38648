package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/google/uuid"
)

// NewOutboxEvent собирает событие каталога со статусом Pending.
func NewOutboxEvent(eventType OutboxEventType, aggregateID string, data any) (*OutboxEvent, error) {
	const op = "NewOutboxEvent"

	eventID := uuid.NewString()
	payload, err := json.Marshal(CatalogEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
	}, nil
}

// publish записывает событие в outbox в текущей транзакции.
func publish(ctx context.Context, repo OutboxRepository, eventType OutboxEventType, aggregateID string, data any) error {
	event, err := NewOutboxEvent(eventType, aggregateID, data)
	if err != nil {
		return err
	}

	if _, err := repo.Create(ctx, event); err != nil {
		return e.Wrap("publish", err)
	}

	return nil
}
