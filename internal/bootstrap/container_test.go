package bootstrap

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"turkgpt/internal/pkg/logger"
	"turkgpt/internal/service"
	"turkgpt/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderRecorder struct {
	mu       sync.Mutex
	contents []string
}

func (r *orderRecorder) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contents = append(r.contents, event.Payload()["content"].(string))
	return nil
}

func (r *orderRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contents)
}

func TestEventBus_DeliversInPublishOrder(t *testing.T) {
	bus := NewEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := &orderRecorder{}
	consumer := service.NewConsumerService(bus, service.ChatEventsTopic, logger.NewNopLogger(), logger.NewNopLogger(),
		map[string]service.EventForwarder{"recorder": recorder})
	require.NoError(t, consumer.Consume(ctx))

	publisher := service.NewPublisherService(service.ChatEventsTopic, bus)
	const total = 200
	want := make([]string, 0, total)
	for i := 0; i < total; i++ {
		content := strconv.Itoa(i)
		want = append(want, content)
		require.NoError(t, publisher.Publish(ctx, events.New(events.MessageCreated, map[string]interface{}{
			"session_id": "s1",
			"content":    content,
		}, time.Now())))
	}

	require.Eventually(t, func() bool { return recorder.count() == total }, 2*time.Second, 10*time.Millisecond)
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Equal(t, want, recorder.contents)
}
