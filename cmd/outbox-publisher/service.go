package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/rentalfleet-backend/pkg/config"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/metrics"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox/registry"
	"github.com/angelmondragon/rentalfleet-backend/pkg/tracing"
)

const (
	defaultBatchSize      = 50
	defaultPollInterval   = 500 * time.Millisecond
	defaultPublishTimeout = 15 * time.Second
	defaultMaxAttempts    = 10
	maxIdleBackoff        = 10 * time.Second
	jitterWindow          = 250 * time.Millisecond
)

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type pubSubClient interface {
	Ping(context.Context) error
	Publisher(name string) *gcppubsub.Publisher
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type registryResolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

type ServiceParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               dbClient
	PubSub           pubSubClient
	Repository       outboxRepository
	Registry         registryResolver
	PublisherFactory publisherFactory
	Metrics          *metrics.OutboxMetrics
}

// Service drains outbox_events to Pub/Sub. Each batch runs in one transaction so
// row locks are held until every event in it is marked.
type Service struct {
	logg         *logger.Logger
	db           dbClient
	pubsub       pubSubClient
	repo         outboxRepository
	registry     registryResolver
	publishers   publisherFactory
	metrics      *metrics.OutboxMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	var missing error
	for name, present := range map[string]bool{
		"config":            params.Config != nil,
		"logger":            params.Logger != nil,
		"database client":   params.DB != nil,
		"pubsub client":     params.PubSub != nil,
		"outbox repository": params.Repository != nil,
		"event registry":    params.Registry != nil,
	} {
		if !present {
			missing = multierr.Append(missing, fmt.Errorf("%s is required", name))
		}
	}
	if missing != nil {
		return nil, missing
	}

	publishers := params.PublisherFactory
	if publishers == nil {
		publishers = topicPublishers(params.PubSub)
	}
	outboxCfg := params.Config.Outbox
	svc := &Service{
		logg:         params.Logger,
		db:           params.DB,
		pubsub:       params.PubSub,
		repo:         params.Repository,
		registry:     params.Registry,
		publishers:   publishers,
		metrics:      params.Metrics,
		batchSize:    defaultBatchSize,
		maxAttempts:  defaultMaxAttempts,
		pollInterval: defaultPollInterval,
	}
	if outboxCfg.BatchSize > 0 {
		svc.batchSize = outboxCfg.BatchSize
	}
	if outboxCfg.MaxAttempts > 0 {
		svc.maxAttempts = outboxCfg.MaxAttempts
	}
	if outboxCfg.PollIntervalMS > 0 {
		svc.pollInterval = time.Duration(outboxCfg.PollIntervalMS) * time.Millisecond
	}
	return svc, nil
}

// Run polls until ctx is cancelled. A full batch is followed immediately by the
// next one; an empty batch waits one poll interval; a failing batch backs off
// exponentially up to maxIdleBackoff.
func (s *Service) Run(ctx context.Context) error {
	for name, ping := range map[string]func(context.Context) error{"database": s.db.Ping, "pubsub": s.pubsub.Ping} {
		if err := ping(ctx); err != nil {
			s.logg.Error(ctx, name+" ping failed", err)
			return fmt.Errorf("%s ping failed: %w", name, err)
		}
	}

	delay := s.pollInterval
	for {
		if err := ctx.Err(); err != nil {
			s.logg.Info(ctx, "outbox publisher stopping")
			return err
		}

		processed, err := s.processBatch(ctx)
		switch {
		case err != nil:
			s.logg.Error(ctx, "outbox batch failed", err)
			delay = min(delay*2, maxIdleBackoff)
		case processed:
			delay = s.pollInterval
			continue
		default:
			delay = s.pollInterval
		}

		if err := sleepCtx(ctx, delay+jitter()); err != nil {
			return err
		}
	}
}

// outcome is what happened to one row in a batch.
type outcome struct {
	kind   string
	err    error
	topic  string
	reason string
}

func (s *Service) processBatch(ctx context.Context) (processed bool, err error) {
	ctx, span := tracing.Start(ctx, "outbox.publish_batch")
	started := time.Now()
	defer func() {
		if processed {
			s.metrics.ObserveBatch(time.Since(started))
		}
		tracing.End(span, err)
	}()

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, fetchErr := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if fetchErr != nil {
			return fetchErr
		}
		span.SetAttributes(attribute.Int("outbox.batch_len", len(events)))
		processed = len(events) > 0

		for _, event := range events {
			if markErr := s.settle(ctx, tx, event, s.dispatch(ctx, event)); markErr != nil {
				return markErr
			}
		}
		return nil
	})
	return processed, err
}

// dispatch resolves and publishes one row without touching the database.
func (s *Service) dispatch(ctx context.Context, event models.OutboxEvent) outcome {
	resolved, err := s.registry.Resolve(event)
	if err != nil {
		return outcome{kind: metrics.OutboxTerminal, err: err, reason: "unresolvable"}
	}
	topic := resolved.Descriptor.Topic

	pub := s.publishers(topic)
	if pub == nil {
		return outcome{kind: metrics.OutboxTerminal, topic: topic, reason: "no_publisher",
			err: fmt.Errorf("publisher not configured for topic %s", topic)}
	}

	msg := newMessage(event, resolved)
	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	result := pub.Publish(publishCtx, msg)
	if result == nil {
		return outcome{kind: metrics.OutboxTerminal, topic: topic, reason: "no_publisher",
			err: fmt.Errorf("publisher returned no result for topic %s", topic)}
	}
	if _, err := result.Get(publishCtx); err != nil {
		if resumer, ok := pub.(orderingResumer); ok {
			resumer.ResumePublish(msg.OrderingKey)
		}
		var nonRetry registry.NonRetryableError
		if errors.As(err, &nonRetry) {
			return outcome{kind: metrics.OutboxTerminal, err: err, topic: topic, reason: "non_retryable"}
		}
		if event.AttemptCount+1 >= s.maxAttempts {
			return outcome{kind: metrics.OutboxTerminal, topic: topic, reason: "max_attempts",
				err: fmt.Errorf("max publish attempts reached: %w", err)}
		}
		return outcome{kind: metrics.OutboxFailed, err: err, topic: topic}
	}
	return outcome{kind: metrics.OutboxPublished, topic: topic}
}

// settle records the outcome on the row inside the batch transaction.
func (s *Service) settle(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, out outcome) error {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"attempt_count":  event.AttemptCount,
	}
	if out.topic != "" {
		fields["topic"] = out.topic
	}
	if out.err != nil {
		fields["error"] = out.err.Error()
	}
	logCtx := s.logg.WithFields(ctx, fields)

	var markErr error
	switch out.kind {
	case metrics.OutboxPublished:
		markErr = s.repo.MarkPublishedTx(tx, event.ID)
		s.logg.Info(logCtx, "outbox event published")
	case metrics.OutboxFailed:
		markErr = s.repo.MarkFailedTx(tx, event.ID, out.err)
		s.logg.Warn(logCtx, "outbox publish failed, will retry")
	default:
		// parked rows keep payload and last_error for manual replay
		markErr = s.repo.MarkTerminalTx(tx, event.ID, out.err, s.maxAttempts)
		s.logg.Warn(s.logg.WithField(logCtx, "terminal_reason", out.reason), "outbox event parked")
	}
	if markErr != nil {
		return fmt.Errorf("mark %s %s: %w", out.kind, event.ID, markErr)
	}
	s.metrics.ObserveEvent(string(event.EventType), out.kind)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func jitter() time.Duration {
	return rand.N(jitterWindow)
}
