package appkafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"example.com/golfbuddy/internal/models"
	"github.com/segmentio/kafka-go"
)

var ErrNoEventType = errors.New("event without type")

// EventPublisher writes activity events to the topic, keyed by event type.
type EventPublisher struct {
	Writer KafkaWriter
}

func NewEventPublisher(w KafkaWriter) *EventPublisher {
	if w == nil {
		w = NopWriter{}
	}
	return &EventPublisher{Writer: w}
}

func (p *EventPublisher) Publish(_ context.Context, ev models.Event) error {
	msg, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(msg)
}

func EncodeEvent(ev models.Event) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafka.Message{Key: []byte(ev.Type), Value: payload}, nil
}

// DecodeEvent parses a message produced by EncodeEvent.
func DecodeEvent(msg kafka.Message) (models.Event, error) {
	var ev models.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return ev, fmt.Errorf("failed to decode event: %w", err)
	}
	if ev.Type == "" {
		return ev, ErrNoEventType
	}
	return ev, nil
}
