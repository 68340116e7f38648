package pgdb

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OutboxChannel — канал LISTEN/NOTIFY, которым будится воркер outbox.
const OutboxChannel = "outbox_pending"

const outboxColumns = `id, event_id, event_type, aggregate_id, payload, status, created_at, processed_at`

type OutboxEventRepo struct {
	pool *pgxpool.Pool
	conv converter.OutboxEventConverter
}

func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter) *OutboxEventRepo {
	return &OutboxEventRepo{
		pool: pool,
		conv: conv,
	}
}

// Create пишет событие в транзакцию из ctx вместе с изменением каталога.
// NOTIFY доставляется слушателям только после коммита.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	tx := tr.TxFromCtx(ctx, o.pool)
	model := o.conv.ToModel(event)

	query := `
		INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + outboxColumns

	rows, err := tx.Query(ctx, query, model.EventID, model.EventType, model.AggregateID, model.Payload, model.Status)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.OutboxEventModel])
	if err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: event %s already exists", whereami.WhereAmI(), event.EventID)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, "NOTIFY "+OutboxChannel); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(saved), nil
}

// GetAndMarkAsProcessing забирает до limit самых старых ожидающих событий одним запросом.
// SKIP LOCKED не дает двум воркерам взять одно и то же событие.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	query := `
		WITH claimed AS (
			SELECT id FROM outbox_events
			WHERE status = $2
			ORDER BY created_at, id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox_events o
		SET status = $1, processing_started_at = now()
		FROM claimed
		WHERE o.id = claimed.id
		RETURNING o.id, o.event_id, o.event_type, o.aggregate_id, o.payload, o.status, o.created_at, o.processed_at
	`

	rows, err := o.pool.Query(ctx, query, usecase.Processing, usecase.Pending, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.OutboxEventModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}

// MarkAsProcessed помечает событие отправленным. Повторная отметка ничего не меняет.
func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = now()
		WHERE id = $2 AND status = $3
	`

	if _, err := o.pool.Exec(ctx, query, usecase.Processed, id, usecase.Processing); err != nil {
		return fmt.Errorf("%s: mark event %d processed: %w", whereami.WhereAmI(), id, err)
	}

	return nil
}

// ResetStuck возвращает в очередь события, зависшие в processing дольше olderThan.
func (o *OutboxEventRepo) ResetStuck(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL
		WHERE status = $2 AND processing_started_at < now() - make_interval(secs => $3)
	`

	tag, err := o.pool.Exec(ctx, query, usecase.Pending, usecase.Processing, olderThan.Seconds())
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}
