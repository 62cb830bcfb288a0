package playback

import (
	"math/rand/v2"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/domain/episode"
)

// Listener is notified with the new state after every applied command.
// The state passed in must be treated as read-only.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store holds the player state and is the single entry point for mutating it.
//
// Commands run to completion: a command dispatched while another one is being
// applied (for example from inside a Listener) is queued and applied after all
// listeners of the current command have returned. The outermost Dispatch
// returns only after every queued command has been applied.
//
// Dispatch from a Listener is the only supported re-entry. Callers on other
// goroutines must serialize their calls: a Dispatch that arrives while
// another goroutine is draining returns before its command is applied.
type Store struct {
	mu sync.Mutex

	state    State
	pending  []Command
	draining bool

	subscriptions []subscription
	nextID        int

	intn func(n int) int
}

// Option configures a Store.
type Option func(*Store)

// WithRand sets the random source used to pick shuffled episodes.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		s.intn = r.IntN
	}
}

// NewStore creates a store with an empty queue.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state: State{Queue: []episode.Episode{}},
		intn:  rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subscriptions = append(s.subscriptions, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscriptions {
			if sub.id == id {
				s.subscriptions = append(s.subscriptions[:i:i], s.subscriptions[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies cmd and notifies listeners when the state changed.
// Argument errors are returned before anything is queued.
func (s *Store) Dispatch(cmd Command) error {
	if v, ok := cmd.(validatable); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.pending = append(s.pending, cmd)
	if s.draining {
		s.mu.Unlock()
		return nil
	}
	s.draining = true

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]

		newState, changed := Reduce(s.state, next, s.intn)
		if !changed {
			zlog.Debug().Msgf("playback: %s: no change", next)
			continue
		}
		s.state = newState
		snapshot := s.state.Clone()
		subs := make([]subscription, len(s.subscriptions))
		copy(subs, s.subscriptions)

		s.mu.Unlock()
		zlog.Debug().Msgf("playback: %s: status=%s index=%d queue=%d looping=%v shuffling=%v",
			next, snapshot.Status(), snapshot.ActiveIndex, len(snapshot.Queue), snapshot.IsLooping, snapshot.IsShuffling)
		for _, sub := range subs {
			sub.fn(snapshot)
		}
		s.mu.Lock()
	}

	s.draining = false
	s.mu.Unlock()
	return nil
}

// Play replaces the queue with a single episode and starts playing it.
func (s *Store) Play(ep episode.Episode) {
	_ = s.Dispatch(PlayCommand{Episode: ep})
}

// PlayList replaces the queue with list and starts playing list[index].
func (s *Store) PlayList(list []episode.Episode, index int) error {
	return s.Dispatch(PlayListCommand{List: list, Index: index})
}

// TogglePlay flips the playing flag.
func (s *Store) TogglePlay() {
	_ = s.Dispatch(TogglePlayCommand{})
}

// SetPlayingState sets the playing flag directly.
func (s *Store) SetPlayingState(playing bool) {
	_ = s.Dispatch(SetPlayingCommand{Playing: playing})
}

// ToggleLooping flips the looping flag.
func (s *Store) ToggleLooping() {
	_ = s.Dispatch(ToggleLoopingCommand{})
}

// ToggleShuffling flips the shuffling flag.
func (s *Store) ToggleShuffling() {
	_ = s.Dispatch(ToggleShufflingCommand{})
}

// PlayNext moves to the next episode, or to a random one while shuffling.
func (s *Store) PlayNext() {
	_ = s.Dispatch(NextCommand{})
}

// PlayPrevious moves to the previous episode.
func (s *Store) PlayPrevious() {
	_ = s.Dispatch(PreviousCommand{})
}

// Clear empties the queue and resets the active index.
func (s *Store) Clear() {
	_ = s.Dispatch(ClearCommand{})
}
