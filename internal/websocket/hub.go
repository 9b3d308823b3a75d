package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/RakhimovY/AIChat/internal/model"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// notificationChannel is the Redis pub/sub channel shared by all API
// instances. Payloads carry a target user id, or "*" for a broadcast.
const notificationChannel = "notification_events"

// Hub fans notifications out to connected websocket clients. With Redis
// configured it also relays across instances, so a user connected to another
// node still receives pushes.
type Hub struct {
	// clients maps a user to every open connection they hold.
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// rdb is optional; without it delivery is instance-local.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Last client disconnected", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

func encodeNotification(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// deliverLocal pushes a payload to every given client, dropping any whose
// buffer is full rather than blocking the hub.
func (h *Hub) deliverLocal(clients []*Client, payload []byte) {
	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			// The unregister handler closes Send.
			h.logger.Warn("Hub", "Client buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
			h.unregister <- client
		}
	}
}

func (h *Hub) publishRemote(targetUserID string, payload []byte) {
	if h.rdb == nil {
		return
	}
	envelope, _ := json.Marshal(map[string]interface{}{
		"target_user_id": targetUserID,
		"message":        payload,
	})
	h.rdb.Publish(context.Background(), notificationChannel, envelope)
}

// Broadcast pushes a notification to every connected client, on this instance
// and through Redis on all others.
func (h *Hub) Broadcast(notification model.Notification) {
	payload := encodeNotification(notification)

	h.mu.RLock()
	all := make([]*Client, 0)
	for _, clients := range h.clients {
		all = append(all, clients...)
	}
	h.mu.RUnlock()

	h.deliverLocal(all, payload)
	h.publishRemote("*", payload)
}

// Send pushes a notification to one user on every device they have open.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	payload := encodeNotification(notification)

	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	h.deliverLocal(clients, payload)

	// Published even when delivered locally; the user may also be connected
	// to another instance.
	h.publishRemote(userID.String(), payload)
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, notificationChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Malformed relay payload", map[string]interface{}{"error": err.Error()})
			continue
		}

		if envelope.TargetUserID == "*" {
			h.mu.RLock()
			all := make([]*Client, 0)
			for _, clients := range h.clients {
				all = append(all, clients...)
			}
			h.mu.RUnlock()
			h.deliverLocal(all, envelope.Message)
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients := append([]*Client(nil), h.clients[uid]...)
		h.mu.RUnlock()
		h.deliverLocal(clients, envelope.Message)
	}
}
