// Package notify delivers review notifications to providers through the
// messenger gateway.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/metrics"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/application"
)

const (
	defaultTimeout    = 5 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 200 * time.Millisecond

	// TargetProviderReview marks failures of review notifications.
	TargetProviderReview = "provider_review"
)

// Failure is a notification that could not be delivered.
type Failure struct {
	Target   string
	Key      string
	Payload  map[string]any
	Err      string
	Attempts int
	At       time.Time
}

// FailureStore persists undelivered notifications for later replay.
type FailureStore interface {
	Save(ctx context.Context, failure Failure) error
}

// Config configures the messenger gateway client.
type Config struct {
	Endpoint    string
	Destination string
	Timeout     time.Duration
	Attempts    int
	RetryDelay  time.Duration
}

// Notifier implements application.ReviewHook.
type Notifier struct {
	client      *http.Client
	endpoint    string
	destination string
	attempts    int
	retryDelay  time.Duration
	failures    FailureStore
	logger      *zap.Logger
	newKey      func() string
	wg          sync.WaitGroup
}

var _ application.ReviewHook = (*Notifier)(nil)

// New creates a Notifier. A nil client uses one with cfg.Timeout.
func New(cfg Config, client *http.Client, failures FailureStore, logger *zap.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = defaultAttempts
	}
	delay := cfg.RetryDelay
	if delay < 0 {
		delay = 0
	} else if delay == 0 {
		delay = defaultRetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		client:      client,
		endpoint:    strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		destination: strings.TrimSpace(cfg.Destination),
		attempts:    attempts,
		retryDelay:  delay,
		failures:    failures,
		logger:      logger.Named("notify"),
		newKey:      uuid.NewString,
	}
}

// Enabled reports whether a gateway endpoint is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.endpoint != ""
}

// ReviewCreated notifies the provider's owner in the background. It never blocks
// the review write and never reports errors to the caller.
func (n *Notifier) ReviewCreated(ctx context.Context, event application.ReviewCreatedEvent) {
	if !n.Enabled() {
		return
	}
	recipient := strings.TrimSpace(event.Provider.OwnerID)
	if recipient == "" {
		n.logger.Debug("provider has no owner to notify", zap.String("provider_id", event.Provider.ID))
		return
	}

	msg := message{
		UserID:         recipient,
		Text:           buildReviewMessage(event),
		Destination:    n.destination,
		IdempotencyKey: n.newKey(),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(context.WithoutCancel(ctx), msg, event)
	}()
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

type message struct {
	UserID         string `json:"userId"`
	Text           string `json:"text"`
	Destination    string `json:"destination,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func (n *Notifier) deliver(ctx context.Context, msg message, event application.ReviewCreatedEvent) {
	attempts, err := n.sendWithRetry(ctx, msg)
	metrics.ReviewNotified(err)
	if err == nil {
		return
	}

	n.logger.Warn("review notification failed",
		zap.String("review_id", event.Review.ID),
		zap.String("provider_id", event.Provider.ID),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
	if n.failures == nil {
		return
	}
	failure := Failure{
		Target: TargetProviderReview,
		Key:    msg.IdempotencyKey,
		Payload: map[string]any{
			"reviewId":    event.Review.ID,
			"subjectType": string(event.Review.Subject.Kind),
			"subjectId":   event.Review.Subject.ID,
			"providerId":  event.Provider.ID,
			"userId":      msg.UserID,
			"text":        msg.Text,
		},
		Err:      err.Error(),
		Attempts: attempts,
		At:       time.Now().UTC(),
	}
	if err := n.failures.Save(ctx, failure); err != nil {
		n.logger.Error("persist failed notification", zap.String("key", msg.IdempotencyKey), zap.Error(err))
	}
}

// sendWithRetry returns the number of attempts made and the last error.
// Client errors (4xx) are not retried.
func (n *Notifier) sendWithRetry(ctx context.Context, msg message) (int, error) {
	var lastErr error
	for i := 1; i <= n.attempts; i++ {
		lastErr = n.send(ctx, msg)
		if lastErr == nil {
			return i, nil
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) || i == n.attempts {
			return i, lastErr
		}
		select {
		case <-ctx.Done():
			return i, lastErr
		case <-time.After(n.retryDelay):
		}
	}
	return n.attempts, lastErr
}

type permanentError struct {
	status int
	body   string
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("messenger gateway rejected message: status=%d body=%s", e.status, e.body)
}

func (n *Notifier) send(ctx context.Context, msg message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode messenger payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build messenger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", msg.IdempotencyKey)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("messenger request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		text, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		trimmed := strings.TrimSpace(string(text))
		if res.StatusCode < 500 && res.StatusCode != http.StatusTooManyRequests {
			return &permanentError{status: res.StatusCode, body: trimmed}
		}
		return fmt.Errorf("messenger gateway error: status=%d body=%s", res.StatusCode, trimmed)
	}
	return nil
}

func buildReviewMessage(event application.ReviewCreatedEvent) string {
	var b strings.Builder
	name := strings.TrimSpace(event.Review.ReviewerName)
	if name == "" {
		name = "A client"
	}
	fmt.Fprintf(&b, "%s left a %d/5 review on %q.\n", name, event.Review.Rating, event.Listing.Title)
	if comment := strings.TrimSpace(event.Review.Comment); comment != "" {
		b.WriteString("> ")
		b.WriteString(comment)
		b.WriteString("\n")
	}
	return b.String()
}
