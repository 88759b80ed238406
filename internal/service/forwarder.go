package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/mileage-recorder/internal/domain"
	"github.com/kahvecikaan/mileage-recorder/internal/events"
	"github.com/kahvecikaan/mileage-recorder/internal/metrics"
	"github.com/kahvecikaan/mileage-recorder/internal/webhook"
)

// Sender delivers a serialized body to the webhook
type Sender interface {
	Send(ctx context.Context, body []byte) (*webhook.Result, error)
	Method() string
	RedactedURL() string
}

// ForwarderService turns app messages into webhook calls
type ForwarderService interface {
	Handle(ctx context.Context, msg domain.AppMessage)
	Close() error
}

type forwarderService struct {
	sender   Sender
	eventBus *events.EventBus[any]
	logger   hclog.Logger
	wg       sync.WaitGroup
	mutex    sync.Mutex
	closed   bool
	once     sync.Once
}

func NewForwarderService(
	sender Sender,
	eventBus *events.EventBus[any],
	logger hclog.Logger) ForwarderService {
	return &forwarderService{
		sender:   sender,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Handle issues exactly one webhook request for msg. The request runs on its
// own goroutine; its outcome is logged and published but never returned.
func (s *forwarderService) Handle(ctx context.Context, msg domain.AppMessage) {
	body := domain.Reshape(msg.Payload)

	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("Unable to encode webhook body", "error", err)
		return
	}

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		s.logger.Warn("Forwarder is closed, dropping message", "data", string(data))
		return
	}
	s.wg.Add(1)
	s.mutex.Unlock()

	s.logger.Info("Constructing webhook request",
		"method", s.sender.Method(),
		"url", s.sender.RedactedURL(),
		"data", string(data))

	// The inbound request may finish before the webhook call does
	go s.send(context.WithoutCancel(ctx), data)
}

func (s *forwarderService) send(ctx context.Context, data []byte) {
	defer s.wg.Done()

	res, err := s.sender.Send(ctx, data)
	if res != nil {
		metrics.WebhookLatency.Observe(res.Duration.Seconds())
	}

	if err != nil {
		metrics.WebhookRequests.WithLabelValues(metrics.OutcomeFailed).Inc()
		failed := events.RequestFailed{
			Method: s.sender.Method(),
			URL:    s.sender.RedactedURL(),
			Body:   string(data),
			Error:  err.Error(),
		}
		if res != nil {
			failed.StatusCode = res.StatusCode
		}
		s.logger.Warn("Webhook request failed", "url", failed.URL, "status", failed.StatusCode, "error", err)
		s.eventBus.Publish(failed)
		return
	}

	metrics.WebhookRequests.WithLabelValues(metrics.OutcomeSent).Inc()
	s.logger.Debug("Webhook request sent", "status", res.StatusCode, "duration", res.Duration)
	s.eventBus.Publish(events.RequestSent{
		Method:     s.sender.Method(),
		URL:        s.sender.RedactedURL(),
		Body:       string(data),
		StatusCode: res.StatusCode,
		Duration:   res.Duration,
	})
}

// Close waits for in-flight webhook requests. Messages handled afterwards
// are dropped.
func (s *forwarderService) Close() error {
	s.once.Do(func() {
		s.logger.Info("Shutting down ForwarderService...")

		s.mutex.Lock()
		s.closed = true
		s.mutex.Unlock()

		s.wg.Wait()

		s.logger.Info("ForwarderService shutdown complete.")
	})
	return nil
}
