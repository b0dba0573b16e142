package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix    = "taskflow:events:"
	reconnectBackoff = 2 * time.Second
)

// envelope is the wire shape bridged over redis pub/sub between instances
type envelope struct {
	Origin  string          `json:"origin"`
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload"`
}

// Bridge fans published events out across server instances through redis
// pub/sub while keeping local delivery synchronous. Each instance tags its
// messages with an origin ID so the redis echo of its own publish is
// dropped instead of delivered twice.
type Bridge struct {
	hub    *Hub
	rdb    *redis.Client
	origin string
	logger *zap.Logger
}

// NewBridge creates a bridge between the local hub and redis
func NewBridge(hub *Hub, rdb *redis.Client, logger *zap.Logger) *Bridge {
	return &Bridge{
		hub:    hub,
		rdb:    rdb,
		origin: uuid.NewString(),
		logger: logger,
	}
}

// Publish delivers locally and broadcasts to peer instances. The redis
// broadcast is best-effort: local subscribers already got the delta, and a
// broadcast failure degrades remote views, not the mutation that caused it.
func (b *Bridge) Publish(ctx context.Context, key string, payload any) {
	b.hub.Publish(ctx, key, payload)

	raw, err := json.Marshal(payload)
	if err != nil {
		if b.logger != nil {
			b.logger.Error("failed to encode realtime payload", zap.String("key", key), zap.Error(err))
		}
		return
	}
	env, _ := json.Marshal(envelope{Origin: b.origin, Key: key, Payload: raw})

	if err := b.rdb.Publish(ctx, channelPrefix+key, env).Err(); err != nil {
		if b.logger != nil {
			b.logger.Warn("failed to broadcast realtime event", zap.String("key", key), zap.Error(err))
		}
	}
}

// Run consumes peer broadcasts until ctx is cancelled. When the redis
// connection drops, subscribers are told via an error event and the bridge
// reconnects with a fixed backoff.
func (b *Bridge) Run(ctx context.Context) {
	for {
		if err := b.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			b.hub.FailAll(err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

func (b *Bridge) consume(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return redis.ErrClosed
			}

			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				if b.logger != nil {
					b.logger.Warn("dropping malformed realtime envelope", zap.Error(err))
				}
				continue
			}
			if env.Origin == b.origin {
				continue
			}

			b.hub.Publish(ctx, env.Key, env.Payload)
		}
	}
}
