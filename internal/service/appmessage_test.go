package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/mileage-recorder/internal/domain"
	"github.com/kahvecikaan/mileage-recorder/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiveDispatchesToListeners(t *testing.T) {
	bus := newBus()
	sub := bus.Subscribe()
	s := NewAppMessageService(domain.NewValidation(), false, bus, hclog.NewNullLogger())

	var got []domain.AppMessage
	s.AddEventListener(domain.EventAppMessage, func(_ context.Context, msg domain.AppMessage) {
		got = append(got, msg)
	})

	require.NoError(t, s.Receive(context.Background(), fillUp(52341, 45990, 12500)))

	require.Len(t, got, 1)
	assert.Equal(t, 52341.0, got[0].Payload[domain.KeyOdometer])
	assert.False(t, got[0].ReceivedAt.IsZero())

	_, ok := (<-sub).(events.AppMessageReceived)
	assert.True(t, ok)
}

func TestReceiveMissingPayload(t *testing.T) {
	s := NewAppMessageService(domain.NewValidation(), false, newBus(), hclog.NewNullLogger())

	called := false
	s.AddEventListener(domain.EventAppMessage, func(context.Context, domain.AppMessage) { called = true })

	err := s.Receive(context.Background(), domain.AppMessage{})
	assert.True(t, errors.Is(err, domain.ErrMissingPayload))
	assert.False(t, called)
}

func TestReceivePassesThroughInvalidReadings(t *testing.T) {
	s := NewAppMessageService(domain.NewValidation(), false, newBus(), hclog.NewNullLogger())

	calls := 0
	s.AddEventListener(domain.EventAppMessage, func(context.Context, domain.AppMessage) { calls++ })

	err := s.Receive(context.Background(), domain.AppMessage{Payload: domain.Payload{domain.KeyOdometer: "n/a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestReceiveStrictRejectsInvalidReadings(t *testing.T) {
	s := NewAppMessageService(domain.NewValidation(), true, newBus(), hclog.NewNullLogger())

	calls := 0
	s.AddEventListener(domain.EventAppMessage, func(context.Context, domain.AppMessage) { calls++ })

	err := s.Receive(context.Background(), domain.AppMessage{Payload: domain.Payload{
		domain.KeyOdometer: 52341.0,
		domain.KeyQuantity: 12500.0,
	}})

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "Price", verrs[0].Field)
	assert.Equal(t, 0, calls)

	require.NoError(t, s.Receive(context.Background(), fillUp(1, 2, 3)))
	assert.Equal(t, 1, calls)
}

func TestReceiveWithForwarder(t *testing.T) {
	sender := &fakeSender{}
	fs := NewForwarderService(sender, newBus(), hclog.NewNullLogger())
	s := NewAppMessageService(domain.NewValidation(), false, newBus(), hclog.NewNullLogger())
	s.AddEventListener(domain.EventAppMessage, fs.Handle)

	require.NoError(t, s.Receive(context.Background(), fillUp(100, 2000, 3000)))
	require.NoError(t, s.Receive(context.Background(), fillUp(200, 4000, 6000)))
	require.NoError(t, fs.Close())

	assert.Len(t, sender.sent(), 2)
}
