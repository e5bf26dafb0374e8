// Package feed streams marketplace events to websocket clients.
package feed

import (
	"context"
	"encoding/json"
	"expvar"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// feedChannel is the Redis channel every instance publishes to and subscribes on.
const feedChannel = "marketplace:feed"

var (
	feedConnectionsGauge   = expvar.NewInt("feed_connections")
	feedEventsSentTotal    = expvar.NewInt("feed_events_sent_total")
	feedEventsDroppedTotal = expvar.NewInt("feed_events_dropped_total")
)

// Event is the envelope written to clients.
type Event struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	At       time.Time       `json:"at"`
	Instance string          `json:"instance"`
}

// Client is one websocket subscriber.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub fans marketplace events out to local clients, and across instances
// through Redis when it is configured.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	redis  *redis.Client
	pubsub *redis.PubSub

	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
	now        func() time.Time
}

// NewHub creates a hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		clients:    make(map[*Client]bool),
		redis:      redisClient,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		instanceID: uuid.NewString(),
		now:        time.Now,
	}
	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, feedChannel)
	}
	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			feedConnectionsGauge.Add(1)
			log.Debug().Str("user_id", c.UserID.String()).Msg("feed client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
				feedConnectionsGauge.Add(-1)
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", c.UserID.String()).Msg("feed client disconnected")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcastLocal([]byte(msg.Payload))
		}
	}
}

// Register adds a client
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.ctx.Done():
	}
}

// Unregister removes a client
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.ctx.Done():
	}
}

// Publish sends an event to every connected client on every instance.
func (h *Hub) Publish(ctx context.Context, eventType string, payload interface{}) {
	msg, err := encodeEvent(eventType, h.instanceID, h.now(), payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("feed: marshal payload")
		return
	}

	if h.redis != nil {
		err := h.redis.Publish(ctx, feedChannel, msg).Err()
		if err == nil {
			return
		}
		log.Error().Err(err).Str("channel", feedChannel).Msg("Redis publish failed")
	}
	h.broadcastLocal(msg)
}

func (h *Hub) broadcastLocal(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.Send <- msg:
			feedEventsSentTotal.Add(1)
		default:
			feedEventsDroppedTotal.Add(1)
			log.Warn().Str("user_id", c.UserID.String()).Msg("feed send buffer full")
		}
	}
}

// ClientCount returns number of local clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown stops the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
