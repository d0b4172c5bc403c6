package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/sendblocks/custom-indexer-example/internal/adapter"
	"github.com/sendblocks/custom-indexer-example/internal/domain"
	"github.com/sendblocks/custom-indexer-example/internal/function"
	"github.com/sendblocks/custom-indexer-example/internal/logger"
	"github.com/sendblocks/custom-indexer-example/internal/trigger"
	"github.com/sendblocks/custom-indexer-example/internal/webhook"
)

const (
	DEFAULT_WORKER_POOL_SIZE  = 8
	DEFAULT_WORKER_QUEUE_SIZE = 1024
)

// Config holds the configuration for the function host
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	Workers        int
	QueueSize      int
}

// Host defines the interface for the function host
type Host interface {
	// Run starts the function host
	Run(ctx context.Context) error
	// Close closes the host and cleans up resources
	Close()
}

type host struct {
	nc       adapter.NatsConn
	js       adapter.JetStream
	handler  function.Handler
	registry trigger.Registry
	notifier webhook.Notifier
	json     adapter.JSON
	clock    adapter.Clock
	config   Config
}

// NewHost creates a function host consuming trigger messages from JetStream.
// notifier may be nil when no webhook endpoint is configured.
func NewHost(
	cfg Config,
	natsJS adapter.NatsJetStream,
	handler function.Handler,
	registry trigger.Registry,
	notifier webhook.Notifier,
	jsonAdapter adapter.JSON,
	clock adapter.Clock,
) (Host, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "triggers"
	}

	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	h := &host{
		nc:       nc,
		js:       js,
		handler:  handler,
		registry: registry,
		notifier: notifier,
		json:     jsonAdapter,
		clock:    clock,
		config:   cfg,
	}

	return h, nil
}

// Run starts the function host
func (h *host) Run(ctx context.Context) error {
	logger.Info("Starting function host",
		zap.String("stream", h.config.StreamName),
		zap.String("consumer", h.config.ConsumerName))

	subject := h.config.SubjectPrefix + ".>"

	// Ensure the trigger stream exists before binding the consumer
	streamConfig := jetstream.StreamConfig{
		Name:     h.config.StreamName,
		Subjects: []string{subject},
	}
	if err := h.js.CreateOrUpdateStream(ctx, streamConfig); err != nil {
		return fmt.Errorf("failed to create/update stream: %w", err)
	}

	// Create or get consumer
	consumerConfig := jetstream.ConsumerConfig{
		Durable:       h.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       h.config.AckWaitTimeout,
		MaxDeliver:    h.config.MaxDeliver,
		FilterSubject: subject,
	}

	consumer, err := h.js.CreateOrUpdateConsumer(ctx, h.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	// Worker pool bounds in-flight message processing
	workers := h.config.Workers
	if workers == 0 {
		workers = DEFAULT_WORKER_POOL_SIZE
	}
	queueSize := h.config.QueueSize
	if queueSize == 0 {
		queueSize = DEFAULT_WORKER_QUEUE_SIZE
	}

	pool := pond.NewPool(
		workers,
		pond.WithQueueSize(queueSize),
		pond.WithContext(ctx),
	)
	defer func() {
		pool.StopAndWait()
		logger.Info("Worker pool shutdown complete",
			zap.Uint64("submitted", pool.SubmittedTasks()),
			zap.Uint64("completed", pool.CompletedTasks()),
			zap.Uint64("failed", pool.FailedTasks()))
	}()

	// Create subscription
	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming messages", zap.Int("workers", workers))

	// Process messages
	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down function host")
			return ctx.Err()
		case msg := <-msgChan:
			pool.Submit(func() {
				h.handleMessage(ctx, msg)
			})
		}
	}
}

// handleMessage processes a single trigger message and acknowledges it
// according to the failure class: decode and validation failures terminate
// the message, backend failures request redelivery, everything else acks.
func (h *host) handleMessage(ctx context.Context, msg adapter.Message) {
	var delivered uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		delivered = metadata.NumDelivered
	}

	var envelope domain.TriggerMessage
	if err := h.json.Unmarshal(msg.Data(), &envelope); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal trigger message"))
		h.term(ctx, msg)
		return
	}

	if !envelope.Valid() {
		logger.WarnCtx(ctx, "Dropping malformed trigger message", zap.String("id", envelope.ID))
		h.term(ctx, msg)
		return
	}

	if _, ok := h.registry.Match(envelope.Log.ContractAddress); !ok {
		logger.WarnCtx(ctx, "Dropping log from unregistered contract",
			zap.String("id", envelope.ID),
			zap.String("contract_address", envelope.Log.ContractAddress))
		h.term(ctx, msg)
		return
	}

	logger.InfoCtx(ctx, "Received trigger message",
		zap.String("id", envelope.ID),
		zap.String("trigger", envelope.Trigger),
		zap.String("contract_address", envelope.Log.ContractAddress),
		zap.String("tx_hash", envelope.Log.TxHash),
		zap.Uint64("delivery_count", delivered))

	change, err := h.handler.Handle(ctx, envelope.Log)
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Failed to handle trigger message"),
			zap.String("id", envelope.ID))
		if terminalError(err) {
			h.term(ctx, msg)
		} else {
			h.nak(ctx, msg)
		}
		return
	}

	if change != nil && h.notifier != nil {
		event := webhook.NewLedgerUpdatedEvent(*change, h.clock.Now())
		if err := h.notifier.Notify(ctx, event); err != nil {
			// The store write has already committed; a delivery failure must
			// not send the message back for reprocessing
			logger.ErrorCtx(ctx, err,
				zap.String("message", "Failed to deliver webhook"),
				zap.String("id", envelope.ID),
				zap.String("event_id", event.EventID))
		}
	}

	h.ack(ctx, msg)
}

// terminalError reports whether err is a permanent failure: the same payload
// fails the same way on every redelivery
func terminalError(err error) bool {
	return errors.Is(err, domain.ErrUnknownEvent) ||
		errors.Is(err, domain.ErrMalformedLog) ||
		errors.Is(err, domain.ErrInvalidAddress) ||
		errors.Is(err, domain.ErrInvalidTokenID)
}

func (h *host) ack(ctx context.Context, msg adapter.Message) {
	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
}

func (h *host) nak(ctx context.Context, msg adapter.Message) {
	if err := msg.Nak(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
	}
}

func (h *host) term(ctx context.Context, msg adapter.Message) {
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
	}
}

// Close closes the host and cleans up resources
func (h *host) Close() {
	if h.nc == nil {
		return
	}

	h.nc.Close()
}
