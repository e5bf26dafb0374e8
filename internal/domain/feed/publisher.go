package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func encodeEvent(eventType, instance string, at time.Time, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{
		ID:       uuid.NewString(),
		Type:     eventType,
		Data:     data,
		At:       at.UTC(),
		Instance: instance,
	})
}

// RedisPublisher writes events to the feed channel without subscribing.
// Processes that raise events but hold no websocket clients use it.
type RedisPublisher struct {
	client   *redis.Client
	instance string
}

// NewRedisPublisher creates a publish-only feed sink.
func NewRedisPublisher(client *redis.Client, instance string) *RedisPublisher {
	return &RedisPublisher{client: client, instance: instance}
}

// Publish implements the marketplace publisher port.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload interface{}) {
	msg, err := encodeEvent(eventType, p.instance, time.Now(), payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("feed: marshal payload")
		return
	}
	if err := p.client.Publish(ctx, feedChannel, msg).Err(); err != nil {
		log.Warn().Err(err).Str("channel", feedChannel).Msg("Redis publish failed")
	}
}
