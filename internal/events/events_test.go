package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"kasir/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (s *recordingSink) Send(routingKey string, body []byte) error {
	s.keys = append(s.keys, routingKey)
	s.bodies = append(s.bodies, body)
	return s.err
}

func TestBus_PublishFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	bus := events.NewBus(a, nil, b)

	err := bus.Publish(context.Background(), events.Event{Type: events.ProductDeleted, ID: "p-1"})
	require.NoError(t, err)

	for _, s := range []*recordingSink{a, b} {
		require.Len(t, s.bodies, 1)
		assert.Equal(t, events.ProductDeleted, s.keys[0])

		var got events.Event
		require.NoError(t, json.Unmarshal(s.bodies[0], &got))
		assert.Equal(t, "p-1", got.ID)
		assert.False(t, got.At.IsZero())
	}
}

func TestBus_PublishJoinsSinkErrors(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker down")}
	ok := &recordingSink{}
	bus := events.NewBus(failing, ok)

	err := bus.Publish(context.Background(), events.Event{Type: events.ProductCreated})
	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, ok.bodies, 1, "a failing sink must not starve the others")
}
