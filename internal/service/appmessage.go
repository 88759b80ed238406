package service

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/mileage-recorder/internal/domain"
	"github.com/kahvecikaan/mileage-recorder/internal/events"
	"github.com/kahvecikaan/mileage-recorder/internal/metrics"
)

// AppMessageService is the host side of the watch connection: it accepts
// delivered messages and hands them to the registered listeners.
type AppMessageService interface {
	AddEventListener(eventType string, l events.Listener[domain.AppMessage])
	Receive(ctx context.Context, msg domain.AppMessage) error
}

type appMessageService struct {
	listeners *events.Listeners[domain.AppMessage]
	validator *domain.Validation
	strict    bool
	eventBus  *events.EventBus[any]
	logger    hclog.Logger
}

// NewAppMessageService creates the service. When strict is set, messages
// whose readings fail validation are rejected instead of forwarded.
func NewAppMessageService(
	validator *domain.Validation,
	strict bool,
	eventBus *events.EventBus[any],
	logger hclog.Logger) AppMessageService {
	return &appMessageService{
		listeners: events.NewListeners[domain.AppMessage](),
		validator: validator,
		strict:    strict,
		eventBus:  eventBus,
		logger:    logger,
	}
}

func (s *appMessageService) AddEventListener(eventType string, l events.Listener[domain.AppMessage]) {
	s.listeners.AddEventListener(eventType, l)
}

// Receive delivers msg as an appmessage event. It returns
// domain.ErrMissingPayload or domain.ValidationErrors without dispatching.
func (s *appMessageService) Receive(ctx context.Context, msg domain.AppMessage) error {
	if msg.Payload == nil {
		return domain.ErrMissingPayload
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}

	metrics.AppMessagesReceived.Inc()
	s.logger.Debug("AppMessage received", "keys", len(msg.Payload))

	if s.strict {
		if errs := s.validator.Validate(domain.ReadingFromPayload(msg.Payload)); len(errs) > 0 {
			metrics.ReadingsRejected.Inc()
			s.logger.Warn("Rejecting invalid reading", "error", errs)
			return errs
		}
	}

	s.eventBus.Publish(events.AppMessageReceived{ReceivedAt: msg.ReceivedAt})

	if n := s.listeners.Dispatch(ctx, domain.EventAppMessage, msg); n == 0 {
		s.logger.Warn("No listener registered for app messages")
	}
	return nil
}
