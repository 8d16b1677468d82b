package messaging

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

const relayPrefix = "xoxo:channel:"

const (
	resubscribeMin = 500 * time.Millisecond
	resubscribeMax = 30 * time.Second
)

var (
	// ErrRelayDown is returned by Fanout while no subscription is active
	ErrRelayDown = errors.New("relay is not subscribed")
	// ErrNoSubscribers is returned when a publish reached nobody
	ErrNoSubscribers = errors.New("relay publish reached no subscribers")
)

// RedisRelay publishes gateway frames to Redis and fans every relayed frame,
// including its own, into the local hub. Each process running a relay sees
// the same stream, so sockets on different processes share channels.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub

	ready     chan struct{}
	readyOnce sync.Once
	running   atomic.Bool
}

// NewRedisRelay creates a relay bound to hub
func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{
		client: client,
		hub:    hub,
		ready:  make(chan struct{}),
	}
}

// Fanout publishes payload for channelID. Delivery happens when Run receives it.
// It fails whenever the frame would not come back through this relay, so the
// caller can deliver it locally instead.
func (r *RedisRelay) Fanout(ctx context.Context, channelID string, payload []byte) error {
	if !r.running.Load() {
		return ErrRelayDown
	}

	receivers, err := r.client.Publish(ctx, relayPrefix+channelID, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", channelID, err)
	}
	if receivers == 0 {
		return ErrNoSubscribers
	}
	relayedTotal.WithLabelValues("out").Inc()
	return nil
}

// Ready is closed once the first subscription is confirmed
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

// Running reports whether frames published now will be received
func (r *RedisRelay) Running() bool {
	return r.running.Load()
}

// Run subscribes to every relay channel and blocks until ctx is cancelled.
// A lost subscription is retried with backoff.
func (r *RedisRelay) Run(ctx context.Context) error {
	backoff := resubscribeMin
	for {
		err := r.subscribe(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("subscription closed")
			backoff = resubscribeMin
		}
		log.Printf("⚠️  Realtime relay lost its subscription (%v), retrying in %s", err, backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > resubscribeMax {
			backoff = resubscribeMax
		}
	}
}

func (r *RedisRelay) subscribe(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, relayPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to relay: %w", err)
	}

	r.running.Store(true)
	defer r.running.Store(false)
	r.readyOnce.Do(func() { close(r.ready) })
	log.Println("📡 Realtime relay subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			channelID := strings.TrimPrefix(msg.Channel, relayPrefix)
			relayedTotal.WithLabelValues("in").Inc()
			r.hub.Broadcast(channelID, []byte(msg.Payload))
		}
	}
}
