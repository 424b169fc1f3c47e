package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/you/marketsvc/domain"
)

// Deliverer hands a relayed event to the local subscribers of its room
type Deliverer interface {
	Deliver(event domain.OrderEvent) int
}

type relayMessage struct {
	Origin string            `json:"origin"`
	Event  domain.OrderEvent `json:"event"`
}

// RedisRelay fans order events out to every process subscribed to the same
// channel. Each process skips the messages it published itself.
type RedisRelay struct {
	client  *redis.Client
	channel string
	origin  string
	pubsub  *redis.PubSub
}

// NewRedisRelay creates a relay on channel
func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

// Forward publishes event for the other processes
func (r *RedisRelay) Forward(ctx context.Context, event *domain.OrderEvent) error {
	payload, err := json.Marshal(relayMessage{Origin: r.origin, Event: *event})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Start subscribes and confirms the subscription before returning, then
// delivers remote events until ctx ends or Close is called.
func (r *RedisRelay) Start(ctx context.Context, d Deliverer) error {
	ps := r.client.Subscribe(ctx, r.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.pubsub = ps

	go func() {
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = ps.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.handle(msg.Payload, d)
			}
		}
	}()
	return nil
}

func (r *RedisRelay) handle(payload string, d Deliverer) {
	var m relayMessage
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		log.Printf("[relay] dropping malformed message: %v", err)
		return
	}
	if m.Origin == r.origin {
		return
	}
	d.Deliver(m.Event)
}

// Close stops the subscription
func (r *RedisRelay) Close() error {
	if r.pubsub == nil {
		return nil
	}
	return r.pubsub.Close()
}
