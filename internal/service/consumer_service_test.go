package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"turkgpt/internal/pkg/logger"
	"turkgpt/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

var _ logger.ILogger = (*recordingLogger)(nil)

func (l *recordingLogger) record(level, module, msg string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, module: module, message: msg, details: details})
}

func (l *recordingLogger) Debug(module, msg string, details map[string]interface{}) {
	l.record("debug", module, msg, details)
}

func (l *recordingLogger) Info(module, msg string, details map[string]interface{}) {
	l.record("info", module, msg, details)
}

func (l *recordingLogger) Warn(module, msg string, details map[string]interface{}) {
	l.record("warn", module, msg, details)
}

func (l *recordingLogger) Error(module, msg string, details map[string]interface{}) {
	l.record("error", module, msg, details)
}

func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) snapshot() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

type forwarderFunc func(ctx context.Context, event events.Event) error

func (f forwarderFunc) Publish(ctx context.Context, event events.Event) error {
	return f(ctx, event)
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	return pubSub
}

func TestConsumerService_AuditsAndForwards(t *testing.T) {
	pubSub := newPubSub(t)
	audit := &recordingLogger{}
	appLog := &recordingLogger{}

	received := make(chan events.Event, 4)
	forwarders := map[string]EventForwarder{
		"hub": forwarderFunc(func(ctx context.Context, e events.Event) error {
			received <- e
			return nil
		}),
		"broken": forwarderFunc(func(ctx context.Context, e events.Event) error {
			return errors.New("nats unavailable")
		}),
		"unset": nil,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, ChatEventsTopic, audit, appLog, forwarders)
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(ChatEventsTopic, pubSub)
	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Publish(ctx, events.New(events.MessageCreated, map[string]interface{}{
		"session_id": "abc",
		"content":    "Merhaba",
	}, occurred)))

	select {
	case e := <-received:
		assert.Equal(t, events.MessageCreated, e.EventType())
		assert.Equal(t, "abc", events.SessionID(e))
		assert.True(t, occurred.Equal(e.Timestamp()))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not forwarded")
	}

	assert.Eventually(t, func() bool {
		for _, e := range appLog.snapshot() {
			if e.level == "warn" && e.details["forwarder"] == "broken" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	entries := audit.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "ChatAudit", entries[0].module)
	assert.Equal(t, events.MessageCreated, entries[0].message)
}

func TestConsumerService_AcksInvalidPayload(t *testing.T) {
	pubSub := newPubSub(t)
	audit := &recordingLogger{}
	appLog := &recordingLogger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, NewConsumerService(pubSub, ChatEventsTopic, audit, appLog, nil).Consume(ctx))

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	require.NoError(t, pubSub.Publish(ChatEventsTopic, msg))

	assert.Eventually(t, func() bool {
		for _, e := range appLog.snapshot() {
			if e.level == "error" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, audit.snapshot())
}

func TestPublisherService_SetsMetadata(t *testing.T) {
	pubSub := newPubSub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, ChatEventsTopic)
	require.NoError(t, err)

	publisher := NewPublisherService(ChatEventsTopic, pubSub)
	require.NoError(t, publisher.Publish(ctx, events.New(events.SessionDeleted, map[string]interface{}{"session_id": "s"}, time.Now())))

	select {
	case msg := <-messages:
		assert.Equal(t, events.SessionDeleted, msg.Metadata.Get("event_type"))
		assert.Contains(t, string(msg.Payload), `"type":"chat.session.deleted"`)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}
