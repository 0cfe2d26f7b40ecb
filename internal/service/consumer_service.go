package service

import (
	"context"
	"encoding/json"

	"turkgpt/internal/pkg/logger"
	"turkgpt/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventForwarder receives every chat event after it has been audited.
// The websocket hub and the NATS publisher both satisfy it.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	auditLogger logger.ILogger
	logger      logger.ILogger
	forwarders  map[string]EventForwarder
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditLogger logger.ILogger,
	log logger.ILogger,
	forwarders map[string]EventForwarder,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		auditLogger: auditLogger,
		logger:      log,
		forwarders:  forwarders,
	}
}

// Consume subscribes to the topic and processes messages in the
// background until ctx is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal event", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		// ack invalid messages so they are not redelivered forever
		msg.Ack()
		return
	}

	cs.auditLogger.Info("ChatAudit", event.Type, map[string]interface{}{
		"occurred_at": event.OccurredAt,
		"data":        event.Data,
	})

	for name, forwarder := range cs.forwarders {
		if forwarder == nil {
			continue
		}
		if err := forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward event", map[string]interface{}{
				"error":     err.Error(),
				"forwarder": name,
				"type":      event.Type,
			})
		}
	}

	msg.Ack()
}
