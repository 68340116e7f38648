package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/repository/pgdb"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pollInterval      = 30 * time.Second
	stuckAfter        = 5 * time.Minute
	reconnectBase     = time.Second
	reconnectMax      = 30 * time.Second
	defaultBatchLimit = 10
)

// OutboxWorker переносит события из outbox в Kafka.
// Будится через LISTEN/NOTIFY, дополнительно опрашивает таблицу раз в pollInterval.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	dbConnStr string
	batchSize int

	reconnect jitter.Backoff

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	batchSize int,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchLimit
	}

	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		dbConnStr: dbConnStr,
		batchSize: batchSize,
		reconnect: jitter.NewBackoff(reconnectBase, reconnectMax),
		wake:      make(chan struct{}, 1),
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	// Запускаем слушатель уведомлений
	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает воркер и дожидается завершения горутин.
func (w *OutboxWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-w.wake:
			w.drain(ctx)
		case <-ticker.C:
			w.resetStuck(ctx)
			w.drain(ctx)
		}
	}
}

// notify будит основной цикл, не блокируясь, если он уже разбужен.
func (w *OutboxWorker) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) resetStuck(ctx context.Context) {
	n, err := w.repo.ResetStuck(ctx, stuckAfter)
	if err != nil {
		w.logger.Warnf("reset stuck outbox events failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Infof("Requeued %d stuck outbox events", n)
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		err := w.listen(ctx)
		if ctx.Err() != nil {
			return
		}

		w.logger.Warnf("LISTEN %s failed (attempt %d): %v", pgdb.OutboxChannel, attempt+1, err)
		if err := w.reconnect.Wait(ctx, attempt); err != nil {
			return
		}
	}
}

// listen держит соединение с подпиской и возвращается при его потере.
func (w *OutboxWorker) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, w.dbConnStr)
	if err != nil {
		return e.Wrap("failed to connect for LISTEN", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgdb.OutboxChannel); err != nil {
		return e.Wrap("failed to LISTEN", err)
	}
	w.logger.Infof("Subscribed to '%s' channel", pgdb.OutboxChannel)

	// Пропущенные во время переподключения события
	w.notify()

	for {
		notif, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return e.Wrap("connection lost", err)
		}

		if isOutboxNotification(notif) {
			w.logger.Debugf("Received outbox notification")
			w.notify()
		}
	}
}

// isOutboxNotification проверяет, что уведомление пришло из канала, в который пишет OutboxEventRepo.
func isOutboxNotification(n *pgconn.Notification) bool {
	return n != nil && n.Channel == pgdb.OutboxChannel
}

// processBatch отправляет одну пачку событий. hasMore == true, если пачка была непустой.
// Неотправленные события остаются в processing и возвращаются в очередь через resetStuck.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.logger.Warnf("publish outbox event %s failed: %v", event.EventID, err)
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return true, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	req := usecase.NewWriteRawMessageReq(event.AggregateID, string(event.EventType), event.Payload)
	if err := w.producer.WriteRawMessage(ctx, req); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}

	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}

	return false
}
