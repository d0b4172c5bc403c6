package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/sendblocks/custom-indexer-example/internal/adapter"
	"github.com/sendblocks/custom-indexer-example/internal/logger"
)

// Config holds the delivery settings for one webhook endpoint
type Config struct {
	URL       string
	Secret    string // hex-encoded HMAC key
	UserAgent string

	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// Notifier defines an interface for delivering webhook events
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	// Notify delivers one event to the configured endpoint, retrying transient
	// failures with exponential backoff until the configured elapsed-time cap
	Notify(ctx context.Context, event Event) error
}

type httpNotifier struct {
	cfg    Config
	client adapter.HTTPClient
	clock  adapter.Clock
}

// NewHTTPNotifier creates a notifier that POSTs signed events over HTTP
func NewHTTPNotifier(cfg Config, client adapter.HTTPClient, clock adapter.Clock) Notifier {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Token-Ledger-Webhook/1.0"
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 2 * time.Second
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 30 * time.Second
	}
	if cfg.MaxElapsedTime == 0 {
		cfg.MaxElapsedTime = 5 * time.Minute
	}

	return &httpNotifier{
		cfg:    cfg,
		client: client,
		clock:  clock,
	}
}

// Notify signs and delivers the event. A 2xx response completes the delivery;
// 4xx responses other than 429 are treated as permanent rejections.
func (n *httpNotifier) Notify(ctx context.Context, event Event) error {
	payload, signature, timestamp, err := GenerateSignedPayload(n.cfg.Secret, event, n.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to generate signed payload: %w", err)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"User-Agent":    n.cfg.UserAgent,
		HeaderSignature: signature,
		HeaderEventID:   event.EventID,
		HeaderEventType: event.EventType,
		HeaderTimestamp: fmt.Sprintf("%d", timestamp),
	}

	operation := func() error {
		resp, err := n.client.PostWithHeadersNoRetry(ctx, n.cfg.URL, headers, bytes.NewReader(payload))
		if err != nil {
			// Network errors are retryable
			return fmt.Errorf("failed to post webhook: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", n.cfg.URL))
			}
		}()

		// Read response body with a size limit; it is only used for error reporting
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		if err != nil {
			respBody = []byte{}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				// The endpoint rejected the payload; redelivery cannot fix it
				return backoff.Permanent(err)
			}
			return err
		}

		return nil
	}

	// Configure exponential backoff
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = n.cfg.InitialInterval
	b.MaxInterval = n.cfg.MaxInterval
	b.MaxElapsedTime = n.cfg.MaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // Add jitter to prevent thundering herd

	// Execute with retry and detailed logging
	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Webhook delivery failed, retrying",
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return fmt.Errorf("failed after %d attempts: %w", attemptCount, err)
	}

	if attemptCount > 0 {
		logger.InfoCtx(ctx, "Webhook delivered after retries",
			zap.String("event_id", event.EventID),
			zap.Int("total_attempts", attemptCount+1),
		)
	}

	return nil
}
