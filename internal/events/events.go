// Package events carries domain change notifications to the AMQP bus and live UI clients.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	ProductCreated     = "product.created"
	ProductUpdated     = "product.updated"
	ProductDeleted     = "product.deleted"
	CategoryCreated    = "category.created"
	TransactionCreated = "transaction.created"
)

// Event is the JSON envelope published for every change.
type Event struct {
	Type string    `json:"type"`
	ID   string    `json:"id"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Sink receives an already encoded event under its routing key.
type Sink interface {
	Send(routingKey string, body []byte) error
}

// Bus encodes each event once and hands it to every sink.
type Bus struct {
	sinks []Sink
}

// NewBus creates a Bus; nil sinks are skipped.
func NewBus(sinks ...Sink) *Bus {
	b := &Bus{}
	for _, s := range sinks {
		if s != nil {
			b.sinks = append(b.sinks, s)
		}
	}
	return b
}

// Publish sends the event to all sinks and joins their errors.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", e.Type, err)
	}

	var errs []error
	for _, s := range b.sinks {
		if err := s.Send(e.Type, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
