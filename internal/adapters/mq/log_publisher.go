// Package mq delivers domain events: to RabbitMQ when a broker is configured,
// otherwise to the application log.
package mq

import (
	"context"
	"encoding/json"
	"log"

	"skillbook/internal/core/services"
)

// LogPublisher writes events to the log
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event services.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	p.logger.Printf("📣 event %s %s", event.Name, payload)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
