package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// EventTypeHeader — заголовок сообщения с типом события каталога.
const EventTypeHeader = "event-type"

const (
	producerBatchTimeout = 200 * time.Millisecond
	producerWriteTimeout = 10 * time.Second
)

// Producer публикует события каталога в Kafka. Ключ сообщения — идентификатор агрегата,
// поэтому события одного товара или категории попадают в одну партицию.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	p := &Producer{logger: logger, cfg: cfg}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchSize:              cfg.OutboxBatchSize,
		BatchTimeout:           producerBatchTimeout,
		WriteTimeout:           producerWriteTimeout,
		AllowAutoTopicCreation: false,
		ErrorLogger:            kafka.LoggerFunc(p.logErrorf),
	}

	return p
}

func (p *Producer) logErrorf(format string, args ...any) {
	p.logger.Warnf("kafka writer: "+format, args...)
}

// WriteRawMessage синхронно публикует одно событие.
func (p *Producer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	if err := p.writer.WriteMessages(ctx, newMessage(req)); err != nil {
		return fmt.Errorf("publish %s for %s: %w", req.EventType, req.Key, err)
	}

	return nil
}

// EnsureTopic создает топик, если его еще нет. Топики создаются через контроллер кластера.
func (p *Producer) EnsureTopic(ctx context.Context) error {
	if len(p.cfg.Brokers) == 0 {
		return e.Wrap(whereami.WhereAmI(), errors.New("no kafka brokers configured"))
	}

	dialer := &kafka.Dialer{}
	conn, err := dialer.DialContext(ctx, p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	if partitions, err := conn.ReadPartitions(p.cfg.Topic); err == nil && len(partitions) > 0 {
		p.logger.Debugf("kafka topic %s exists with %d partitions", p.cfg.Topic, len(partitions))
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ctrlConn, err := dialer.DialContext(ctx, p.cfg.NetworkMode, net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer ctrlConn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = ctrlConn.SetDeadline(deadline)
	}

	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             p.cfg.Topic,
		NumPartitions:     p.cfg.Partitions,
		ReplicationFactor: p.cfg.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
	}

	p.logger.Infof("kafka topic %s ready", p.cfg.Topic)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func newMessage(req *usecase.WriteRawMessageReq) kafka.Message {
	msg := kafka.Message{
		Key:   []byte(req.Key),
		Value: req.Payload,
	}
	if req.EventType != "" {
		msg.Headers = []kafka.Header{{Key: EventTypeHeader, Value: []byte(req.EventType)}}
	}

	return msg
}
