package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/latableronde/contest/internal/repository"
)

// topicPrefix namespaces every contest event topic.
const topicPrefix = "contest."

// OutboxPoller drains the event_outbox table and publishes events to Kafka.
// Events are removed only after a successful publish, so a crashed poller
// re-publishes rather than loses (consumers must tolerate duplicates).
type OutboxPoller struct {
	pool      *pgxpool.Pool
	outbox    repository.OutboxRepository
	producer  *KafkaProducer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller.
func NewOutboxPoller(pool *pgxpool.Pool, outbox repository.OutboxRepository, producer *KafkaProducer, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		outbox:    outbox,
		producer:  producer,
		logger:    logger,
		interval:  500 * time.Millisecond,
		batchSize: 100,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("outbox poller stopped")
				return
			case <-ticker.C:
				if err := p.poll(ctx); err != nil {
					p.logger.Error("outbox poll error", "error", err)
				}
			}
		}
	}()
}

func (p *OutboxPoller) poll(ctx context.Context) error {
	drafts, err := p.outbox.FetchUnpublished(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return nil
	}

	published := make([]int64, 0, len(drafts))
	for _, d := range drafts {
		topic := topicPrefix + string(d.AggregateType) + "." + string(d.EventType)
		msg, err := json.Marshal(d)
		if err != nil {
			p.logger.Error("marshal outbox event", "event_id", d.EventID, "error", err)
			continue
		}

		if err := p.producer.Publish(ctx, topic, []byte(d.PartitionKey), msg); err != nil {
			p.logger.Error("kafka publish failed", "event_id", d.EventID, "error", err)
			continue
		}
		published = append(published, d.SeqID)
	}

	if len(published) == 0 {
		return nil
	}
	if err := p.outbox.MarkPublished(ctx, p.pool, published); err != nil {
		return err
	}

	p.logger.Debug("outbox poll complete", "published", len(published))
	return nil
}
