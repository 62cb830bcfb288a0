// Package notification broadcasts player and catalog updates to subscribers.
package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/app/player"
)

// DefaultSendTimeout bounds a single send to one subscriber.
const DefaultSendTimeout = 500 * time.Millisecond

// Type identifies what changed.
type Type int

const (
	TypePlayerChanged    Type = iota + 1 // Player view changed
	TypeCatalogRefreshed                 // Episode listing reloaded
)

// String returns the string representation of the type.
func (t Type) String() string {
	switch t {
	case TypePlayerChanged:
		return "player_changed"
	case TypeCatalogRefreshed:
		return "catalog_refreshed"
	default:
		return "unknown"
	}
}

// Notification is one update delivered to subscribers.
type Notification struct {
	SequenceNo    uint64
	Type          Type
	Player        player.View
	CatalogStatus string
	EpisodeCount  int
}

// Stream receives notifications for one subscriber.
type Stream interface {
	Send(*Notification) error
}

type subscription struct {
	id     string
	stream Stream
	failed atomic.Bool
}

// Manager manages subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    atomic.Uint64
	sendTimeout   time.Duration
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   DefaultSendTimeout,
	}
}

// SetSendTimeout overrides the per-subscriber send timeout.
func (m *Manager) SetSendTimeout(d time.Duration) {
	if d > 0 {
		m.sendTimeout = d
	}
}

// Subscribe adds a new subscription and returns its ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{id: id, stream: stream}
	zlog.Debug().Msgf("notification: subscribed: id=%s total=%d", id, len(m.subscriptions))
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// NextSequenceNo returns the next sequence number.
func (m *Manager) NextSequenceNo() uint64 {
	return m.sequenceNo.Add(1)
}

// Broadcast stamps n with the next sequence number and sends it to every
// subscriber in parallel. Subscribers whose send fails are removed; a send
// that times out is skipped for this notification only.
func (m *Manager) Broadcast(n *Notification) {
	n.SequenceNo = m.NextSequenceNo()

	m.mu.RLock()
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			m.deliver(s, n)
		}(sub)
	}
	wg.Wait()

	for _, sub := range subs {
		if sub.failed.Load() {
			m.Unsubscribe(sub.id)
		}
	}
}

func (m *Manager) deliver(s *subscription, n *Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), m.sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.stream.Send(n)
	}()

	select {
	case err := <-done:
		if err != nil {
			zlog.Debug().Err(err).Msgf("notification: dropping subscriber: id=%s", s.id)
			s.failed.Store(true)
		}
	case <-ctx.Done():
		zlog.Warn().Msgf("notification: send timed out: id=%s seq=%d", s.id, n.SequenceNo)
	}
}

// Send sends a notification to a single subscriber.
func (m *Manager) Send(subscriptionID string, n *Notification) error {
	m.mu.RLock()
	sub, ok := m.subscriptions[subscriptionID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return sub.stream.Send(n)
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}
