package realtime

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventKind distinguishes the three things a subscriber can receive
type EventKind string

const (
	// EventSnapshot carries the full current state, delivered once on subscribe
	EventSnapshot EventKind = "snapshot"
	// EventDelta carries one incremental change
	EventDelta EventKind = "delta"
	// EventError signals a degraded propagation path; delivery may be stale
	// until a new snapshot arrives
	EventError EventKind = "error"
)

// Event is what subscription callbacks receive. Seq is monotonically
// increasing per key so subscribers can detect ordering violations.
type Event struct {
	Kind    EventKind `json:"kind"`
	Key     string    `json:"key"`
	Seq     uint64    `json:"seq"`
	Payload any       `json:"payload,omitempty"`
	Err     string    `json:"error,omitempty"`
}

// Callback receives events for a subscribed key. Callbacks are invoked
// synchronously in commit order and must not block.
type Callback func(Event)

// SnapshotLoader produces the full current state for a key, used for the
// initial delivery on subscribe
type SnapshotLoader func(ctx context.Context, key string) (any, error)

// TasksKey is the subscription key for one user's task list
func TasksKey(userID uuid.UUID) string {
	return "tasks:" + userID.String()
}

// NotificationsKey is the subscription key for one user's notification inbox
func NotificationsKey(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

type subscriber struct {
	id uint64
	cb Callback
}

// keyState serializes delivery per key. Holding mu across the callback loop
// is what gives the per-key ordering guarantee; cross-key delivery is
// unordered by design.
type keyState struct {
	mu   sync.Mutex
	seq  uint64
	subs []subscriber
}

// Hub is the in-process fan-out for live views. Any number of views can
// observe the same logical key (a user's tasks, a user's inbox) and all of
// them see the same ordered sequence of events; this is fan-out, not a
// consumable queue.
type Hub struct {
	mu        sync.RWMutex
	keys      map[string]*keyState
	loaders   map[string]SnapshotLoader // by key prefix, e.g. "tasks:"
	nextSubID uint64
	logger    *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		keys:    make(map[string]*keyState),
		loaders: make(map[string]SnapshotLoader),
		logger:  logger,
	}
}

// RegisterSnapshot installs the loader used to build the initial snapshot
// for keys with the given prefix
func (h *Hub) RegisterSnapshot(prefix string, loader SnapshotLoader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaders[prefix] = loader
}

func (h *Hub) state(key string) *keyState {
	h.mu.Lock()
	defer h.mu.Unlock()
	ks, ok := h.keys[key]
	if !ok {
		ks = &keyState{}
		h.keys[key] = ks
	}
	return ks
}

func (h *Hub) loaderFor(key string) SnapshotLoader {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for prefix, loader := range h.loaders {
		if strings.HasPrefix(key, prefix) {
			return loader
		}
	}
	return nil
}

// Subscribe registers a callback for a key and immediately delivers the
// current snapshot. The returned unsubscribe function is idempotent and safe
// to call after the underlying connection has dropped.
func (h *Hub) Subscribe(ctx context.Context, key string, cb Callback) (func(), error) {
	if cb == nil {
		return nil, fmt.Errorf("subscription callback is required")
	}

	ks := h.state(key)

	h.mu.Lock()
	h.nextSubID++
	id := h.nextSubID
	h.mu.Unlock()

	// The delivery lock is held across the snapshot load and the first
	// callback, so no delta can reach the new subscriber before its snapshot.
	// A slow loader stalls delivery for this key only.
	ks.mu.Lock()
	snapshot := Event{Kind: EventSnapshot, Key: key, Seq: ks.seq}
	if loader := h.loaderFor(key); loader != nil {
		payload, err := loader(ctx, key)
		if err != nil {
			snapshot = Event{Kind: EventError, Key: key, Seq: ks.seq, Err: err.Error()}
		} else {
			snapshot.Payload = payload
		}
	}
	cb(snapshot)
	ks.subs = append(ks.subs, subscriber{id: id, cb: cb})
	ks.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			ks.mu.Lock()
			defer ks.mu.Unlock()
			for i, s := range ks.subs {
				if s.id == id {
					ks.subs = append(ks.subs[:i], ks.subs[i+1:]...)
					break
				}
			}
		})
	}

	return unsubscribe, nil
}

// Publish delivers a delta to every subscriber of the key, in commit order
func (h *Hub) Publish(_ context.Context, key string, payload any) {
	ks := h.state(key)

	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.seq++
	ev := Event{Kind: EventDelta, Key: key, Seq: ks.seq, Payload: payload}
	for _, s := range ks.subs {
		s.cb(ev)
	}
}

// Fail surfaces a degraded state to every subscriber of the key instead of
// silently stalling
func (h *Hub) Fail(key string, err error) {
	ks := h.state(key)

	ks.mu.Lock()
	defer ks.mu.Unlock()

	ev := Event{Kind: EventError, Key: key, Seq: ks.seq, Err: err.Error()}
	for _, s := range ks.subs {
		s.cb(ev)
	}
}

// FailAll surfaces a degraded state to every subscriber of every key,
// used when the cross-instance bridge drops
func (h *Hub) FailAll(err error) {
	h.mu.RLock()
	keys := make([]string, 0, len(h.keys))
	for k := range h.keys {
		keys = append(keys, k)
	}
	h.mu.RUnlock()

	for _, k := range keys {
		h.Fail(k, err)
	}

	if h.logger != nil {
		h.logger.Warn("realtime propagation degraded", zap.Error(err))
	}
}
