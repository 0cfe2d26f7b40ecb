package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"turkgpt/internal/pkg/logger"
	"turkgpt/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ClusterChannel = "chat_events"

// Hub fans chat events out to the websocket clients watching a session.
// With redis configured every delivery goes through the cluster channel,
// so all instances see it, including this one.
type Hub struct {
	// Registered clients: SessionID -> connections watching it
	clients map[uuid.UUID]map[*Client]struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

type clusterMessage struct {
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		rdb:     rdb,
		logger:  log,
	}
}

// Run relays cluster messages until ctx is cancelled. Without redis it
// only waits.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			sessionID, err := uuid.Parse(payload.SessionID)
			if err != nil {
				continue
			}
			h.deliver(sessionID, payload.Message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if h.clients[client.SessionID] == nil {
		h.clients[client.SessionID] = make(map[*Client]struct{})
	}
	h.clients[client.SessionID][client] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})
}

// Unregister removes client and closes its send channel. Calling it twice
// is harmless.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no watchers left", map[string]interface{}{"session_id": client.SessionID})
	}
}

// ClientCount reports how many connections watch sessionID.
func (h *Hub) ClientCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Publish delivers a chat event to the watchers of its session.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	sessionID, err := uuid.Parse(events.SessionID(event))
	if err != nil {
		// not session scoped
		return nil
	}

	data, err := json.Marshal(map[string]interface{}{
		"type": event.EventType(),
		"data": event.Payload(),
	})
	if err != nil {
		return err
	}

	if h.rdb == nil {
		h.deliver(sessionID, data)
		return nil
	}

	payload, err := json.Marshal(clusterMessage{SessionID: sessionID.String(), Message: data})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, ClusterChannel, payload).Err()
}

func (h *Hub) deliver(sessionID uuid.UUID, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
		h.Unregister(client)
	}
}
