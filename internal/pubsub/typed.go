package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event binds a topic name to its payload type so publishers and
// subscribers cannot disagree about the encoding.
type Event[T any] struct {
	topic string
}

// NewEvent declares a typed event on the given topic.
func NewEvent[T any](topic string) Event[T] {
	return Event[T]{topic: topic}
}

// Topic returns the topic name.
func (e Event[T]) Topic() string {
	return e.topic
}

// Publish sends a typed event for the given owner.
func (e Event[T]) Publish(ctx context.Context, p Publisher, userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", e.topic, err)
	}
	return p.Publish(ctx, Message{
		Topic:   e.topic,
		UserID:  userID,
		Payload: data,
	})
}

// Decode reads the payload of a message published on this event's topic.
func (e Event[T]) Decode(msg Message) (T, error) {
	var out T
	if msg.Topic != "" && msg.Topic != e.topic {
		return out, fmt.Errorf("message on topic %q is not a %s event", msg.Topic, e.topic)
	}
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s payload: %w", e.topic, err)
	}
	return out, nil
}

// Subscribe registers fn for every decoded event on this topic.
func (e Event[T]) Subscribe(ctx context.Context, s Subscriber, fn func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, e.topic, func(ctx context.Context, msg Message) error {
		payload, err := e.Decode(msg)
		if err != nil {
			return err
		}
		return fn(ctx, payload)
	})
}
