package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublish(t *testing.T) {
	bus := NewBus()

	var typed, all []Event
	bus.Subscribe(func(e Event) error { typed = append(typed, e); return nil }, SessionExpired)
	bus.Subscribe(func(e Event) error { all = append(all, e); return nil })

	require.NoError(t, bus.Publish(Event{Type: SessionExpired, Subject: "a@b.c"}))
	require.NoError(t, bus.Publish(Event{Type: BookingCreated, Subject: "b1"}))

	require.Len(t, typed, 1)
	assert.Equal(t, "a@b.c", typed[0].Subject)
	assert.NotEmpty(t, typed[0].ID)
	assert.False(t, typed[0].CreatedAt.IsZero())
	assert.Len(t, all, 2)
}

func TestBusPublishJoinsErrors(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")
	bus.Subscribe(func(Event) error { return boom }, CourtCreated)

	err := bus.Publish(Event{Type: CourtCreated})
	assert.ErrorIs(t, err, boom)
}

func TestNilBus(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Subscribe(func(Event) error { return nil }, SessionExpired)
	})
	assert.NoError(t, bus.Publish(Event{Type: SessionLoggedOut}))
}
