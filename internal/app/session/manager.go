// Package session provides the session manager that owns the player.
package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/app/catalog"
	"github.com/osa030/podbox/internal/app/notification"
	"github.com/osa030/podbox/internal/app/playback"
	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/domain/episode"
	"github.com/osa030/podbox/internal/domain/listing"
)

var (
	ErrSessionClosed   = errors.New("session is closed")
	ErrEpisodeNotFound = catalog.ErrEpisodeNotFound
)

// Config holds session configuration.
type Config struct {
	EndPolicy   player.EndPolicy
	Rand        *rand.Rand    // Shuffle source (nil uses the default source)
	SendTimeout time.Duration // Per-subscriber send timeout (0 uses the default)
}

// Status is a snapshot of the whole session.
type Status struct {
	SessionID       string
	StartedAt       time.Time
	Catalog         catalog.Info
	Player          player.View
	Queue           []episode.Episode
	SubscriberCount int
}

// EpisodeList is the result of ListEpisodes.
type EpisodeList struct {
	Listing listing.Listing
	Matches []catalog.Match // Set only for a non-empty query
	Catalog catalog.Info
}

// Manager serializes every player operation and media event behind one lock.
type Manager struct {
	mu sync.Mutex

	id        string
	startedAt time.Time

	// Components
	catalog      *catalog.Catalog
	store        *playback.Store
	surface      *player.Surface
	notification *notification.Manager

	// Latest view waiting to be broadcast
	updates chan player.View

	closed  bool
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a session manager.
func NewManager(cat *catalog.Catalog, factory player.MediaFactory, cfg Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	var storeOpts []playback.Option
	if cfg.Rand != nil {
		storeOpts = append(storeOpts, playback.WithRand(cfg.Rand))
	}

	m := &Manager{
		id:           uuid.New().String(),
		startedAt:    time.Now(),
		catalog:      cat,
		store:        playback.NewStore(storeOpts...),
		notification: notification.NewManager(),
		updates:      make(chan player.View, 1),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}

	if cfg.SendTimeout > 0 {
		m.notification.SetSendTimeout(cfg.SendTimeout)
	}

	policy := cfg.EndPolicy
	if policy == "" {
		policy = player.EndClear
	}

	m.surface = player.New(m.store, factory,
		player.WithEndPolicy(policy),
		player.WithEventSink(func(inner player.MediaEvents) player.MediaEvents {
			return &lockedEvents{m: m, inner: inner}
		}),
	)
	m.surface.OnChange(m.enqueueView)
	cat.OnRefresh(m.onCatalogRefresh)

	zlog.Info().Msgf("session: created: session_id=%s end_policy=%s", m.id, policy)
	return m
}

// Start starts catalog revalidation and the broadcast loop.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go m.broadcastLoop()
	go m.catalog.Run(m.ctx)
}

// Done returns a channel closed once the broadcast loop has stopped.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Close releases the media element and stops background work.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.surface.Close()
	started := m.started
	m.mu.Unlock()

	m.cancel()
	if started {
		<-m.done
	} else {
		close(m.done)
	}
	m.notification.Close()
	zlog.Info().Msgf("session: closed: session_id=%s", m.id)
}

// ListEpisodes returns the listing and, for a non-empty query, fuzzy matches.
func (m *Manager) ListEpisodes(query string) (*EpisodeList, error) {
	l, err := m.catalog.Listing()
	if err != nil {
		return nil, err
	}
	result := &EpisodeList{Listing: l, Catalog: m.catalog.Info()}
	if query != "" {
		// Match indexes must refer to the listing returned with them.
		result.Matches = m.catalog.SearchListing(l, query)
	}
	return result, nil
}

// PlayEpisode queues the whole listing and starts the episode at index
// within section.
func (m *Manager) PlayEpisode(section listing.Section, index int) (player.View, error) {
	l, err := m.catalog.Listing()
	if err != nil {
		return player.View{}, err
	}
	pos, err := l.IndexOf(section, index)
	if err != nil {
		return player.View{}, err
	}
	queue := l.Ordered()

	return m.control(func() error {
		if err := m.store.PlayList(queue, pos); err != nil {
			return err
		}
		zlog.Info().Msgf("session: play list: section=%s index=%d position=%d id=%s", section, index, pos, queue[pos].ID)
		return nil
	})
}

// GetEpisode returns the episode id, fetching it when it is not listed.
func (m *Manager) GetEpisode(ctx context.Context, id string) (episode.Episode, error) {
	return m.catalog.Episode(ctx, id)
}

// PlayEpisodeByID replaces the queue with the single episode id.
func (m *Manager) PlayEpisodeByID(ctx context.Context, id string) (player.View, error) {
	ep, err := m.catalog.Episode(ctx, id)
	if err != nil {
		return player.View{}, err
	}

	return m.control(func() error {
		m.store.Play(ep)
		zlog.Info().Msgf("session: play episode: id=%s title=%s", ep.ID, ep.Title)
		return nil
	})
}

// TogglePlay toggles between playing and paused.
func (m *Manager) TogglePlay() (player.View, error) {
	return m.control(func() error { return m.surface.TogglePlay() })
}

// Next advances to the next episode.
func (m *Manager) Next() (player.View, error) {
	return m.control(func() error { return m.surface.Next() })
}

// Previous goes back to the previous episode.
func (m *Manager) Previous() (player.View, error) {
	return m.control(func() error { return m.surface.Previous() })
}

// ToggleShuffle toggles shuffle mode.
func (m *Manager) ToggleShuffle() (player.View, error) {
	return m.control(func() error { return m.surface.ToggleShuffle() })
}

// ToggleLoop toggles loop mode.
func (m *Manager) ToggleLoop() (player.View, error) {
	return m.control(func() error { return m.surface.ToggleLoop() })
}

// Seek moves the active episode to seconds.
func (m *Manager) Seek(seconds int) (player.View, error) {
	return m.control(func() error { return m.surface.Seek(seconds) })
}

// Clear empties the queue.
func (m *Manager) Clear() (player.View, error) {
	return m.control(func() error {
		m.store.Clear()
		return nil
	})
}

// GetView returns the current player view.
func (m *Manager) GetView() player.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surface.View()
}

// Refresh reloads the catalog now.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.catalog.Refresh(ctx)
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() *Status {
	m.mu.Lock()
	view := m.surface.View()
	queue := m.store.Snapshot().Queue
	m.mu.Unlock()

	return &Status{
		SessionID:       m.id,
		StartedAt:       m.startedAt,
		Catalog:         m.catalog.Info(),
		Player:          view,
		Queue:           queue,
		SubscriberCount: m.notification.SubscriberCount(),
	}
}

// Subscribe registers stream for player updates and sends it the current view.
func (m *Manager) Subscribe(stream notification.Stream) (string, error) {
	id := m.notification.Subscribe(stream)
	err := m.notification.Send(id, &notification.Notification{
		SequenceNo: m.notification.NextSequenceNo(),
		Type:       notification.TypePlayerChanged,
		Player:     m.GetView(),
	})
	if err != nil {
		m.notification.Unsubscribe(id)
		return "", errors.Wrap(err, "failed to send initial state")
	}
	return id, nil
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(id string) {
	m.notification.Unsubscribe(id)
}

func (m *Manager) control(fn func() error) (player.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return player.View{}, ErrSessionClosed
	}
	if err := fn(); err != nil {
		return m.surface.View(), err
	}
	return m.surface.View(), nil
}

// enqueueView keeps only the newest pending view. Called with m.mu held.
func (m *Manager) enqueueView(v player.View) {
	select {
	case m.updates <- v:
	default:
		select {
		case <-m.updates:
		default:
		}
		m.updates <- v
	}
}

func (m *Manager) broadcastLoop() {
	defer close(m.done)
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("session: broadcast loop panicked: %v", r)
		}
	}()

	for {
		select {
		case <-m.ctx.Done():
			return
		case v := <-m.updates:
			m.notification.Broadcast(&notification.Notification{
				Type:   notification.TypePlayerChanged,
				Player: v,
			})
		}
	}
}

func (m *Manager) onCatalogRefresh(info catalog.Info) {
	m.notification.Broadcast(&notification.Notification{
		Type:          notification.TypeCatalogRefreshed,
		CatalogStatus: info.Status.String(),
		EpisodeCount:  info.EpisodeCount,
	})
}

// lockedEvents runs media callbacks under the session lock.
type lockedEvents struct {
	m     *Manager
	inner player.MediaEvents
}

func (e *lockedEvents) run(fn func()) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	if e.m.closed {
		return
	}
	fn()
}

func (e *lockedEvents) OnLoadedMetadata(el player.MediaElement) {
	e.run(func() { e.inner.OnLoadedMetadata(el) })
}

func (e *lockedEvents) OnTimeUpdate(el player.MediaElement) {
	e.run(func() { e.inner.OnTimeUpdate(el) })
}

func (e *lockedEvents) OnPlay(el player.MediaElement) {
	e.run(func() { e.inner.OnPlay(el) })
}

func (e *lockedEvents) OnPause(el player.MediaElement) {
	e.run(func() { e.inner.OnPause(el) })
}

func (e *lockedEvents) OnEnded(el player.MediaElement) {
	e.run(func() { e.inner.OnEnded(el) })
}
