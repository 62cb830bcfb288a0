package player

import (
	"math"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/app/playback"
	"github.com/osa030/podbox/internal/domain/episode"
)

// Errors
var (
	ErrNoEpisode       = errors.New("no active episode")
	ErrControlDisabled = errors.New("control is disabled")
)

// EndPolicy decides what happens when the last episode ends naturally.
type EndPolicy string

const (
	EndClear EndPolicy = "clear" // Empty the queue
	EndStop  EndPolicy = "stop"  // Keep the queue and pause at the end
)

// ParseEndPolicy converts a string to an EndPolicy.
func ParseEndPolicy(s string) (EndPolicy, error) {
	switch EndPolicy(s) {
	case EndClear, EndStop:
		return EndPolicy(s), nil
	case "":
		return EndClear, nil
	default:
		return "", errors.Newf("unknown end policy: %q", s)
	}
}

// binding identifies the episode an element was opened for.
type binding struct {
	index   int
	episode episode.Episode
}

func (b binding) same(other binding) bool {
	return b.index == other.index && b.episode.Same(&other.episode)
}

// Surface keeps one media element in sync with the playback store and
// renders transport controls.
//
// Surface is not safe for concurrent use; the owner must serialize calls,
// including the MediaEvents callbacks.
type Surface struct {
	store   *playback.Store
	factory MediaFactory
	policy  EndPolicy
	events  MediaEvents

	state    playback.State
	element  MediaElement
	bound    binding
	progress int
	tracking bool

	viewListeners []viewListener
	nextID        int
	unsubscribe   func()
}

type viewListener struct {
	id int
	fn func(View)
}

// Option configures a Surface.
type Option func(*Surface)

// WithEndPolicy sets the end-of-queue policy.
func WithEndPolicy(p EndPolicy) Option {
	return func(s *Surface) {
		s.policy = p
	}
}

// WithEventSink wraps the events passed to opened media elements.
// Owners use it to serialize element callbacks with their own calls.
func WithEventSink(wrap func(MediaEvents) MediaEvents) Option {
	return func(s *Surface) {
		s.events = wrap(s)
	}
}

// New creates a surface observing store.
func New(store *playback.Store, factory MediaFactory, opts ...Option) *Surface {
	s := &Surface{
		store:   store,
		factory: factory,
		policy:  EndClear,
	}
	s.events = s
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = store.Subscribe(s.onState)
	s.onState(store.Snapshot())
	return s
}

// Close stops observing the store and releases the bound element.
func (s *Surface) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.unbind()
}

// View returns the current player view.
func (s *Surface) View() View {
	return BuildView(s.state, s.progress)
}

// OnChange registers fn to be called after every view change.
func (s *Surface) OnChange(fn func(View)) func() {
	s.nextID++
	id := s.nextID
	s.viewListeners = append(s.viewListeners, viewListener{id: id, fn: fn})
	return func() {
		for i, l := range s.viewListeners {
			if l.id == id {
				s.viewListeners = append(s.viewListeners[:i:i], s.viewListeners[i+1:]...)
				return
			}
		}
	}
}

// Bound reports whether a media element is currently bound.
func (s *Surface) Bound() bool {
	return s.element != nil
}

// onState reconciles the media element with a new store snapshot.
func (s *Surface) onState(st playback.State) {
	prev := s.state
	s.state = st

	ep, ok := st.Current()
	if !ok {
		s.unbind()
		s.notify()
		return
	}

	key := binding{index: st.ActiveIndex, episode: *ep}
	if s.element == nil || !key.same(s.bound) {
		s.bind(*ep, key)
		s.notify()
		return
	}

	if st.IsLooping != prev.IsLooping {
		s.element.SetLoop(st.IsLooping)
	}
	if st.IsPlaying != prev.IsPlaying {
		s.applyPlaying()
	}
	s.notify()
}

func (s *Surface) bind(ep episode.Episode, key binding) {
	s.unbind()

	el, err := s.factory.Open(ep, s.events)
	if err != nil {
		zlog.Error().Err(err).Msgf("player: failed to open media: id=%s url=%s", ep.ID, ep.URL)
		s.store.SetPlayingState(false)
		return
	}

	s.element = el
	s.bound = key
	s.progress = 0
	s.tracking = false
	el.SetLoop(s.state.IsLooping)
	zlog.Info().Msgf("player: bound episode: index=%d id=%s title=%s", key.index, ep.ID, ep.Title)

	s.applyPlaying()
}

func (s *Surface) unbind() {
	if s.element == nil {
		return
	}
	if err := s.element.Close(); err != nil {
		zlog.Warn().Err(err).Msg("player: failed to close media element")
	}
	zlog.Debug().Msgf("player: unbound episode: id=%s", s.bound.episode.ID)
	s.element = nil
	s.bound = binding{}
	s.progress = 0
	s.tracking = false
}

func (s *Surface) applyPlaying() {
	if s.element == nil {
		return
	}
	if s.state.IsPlaying {
		if err := s.element.Play(); err != nil {
			zlog.Warn().Err(err).Msg("player: play failed")
			s.store.SetPlayingState(false)
		}
		return
	}
	if err := s.element.Pause(); err != nil {
		zlog.Warn().Err(err).Msg("player: pause failed")
	}
}

func (s *Surface) notify() {
	if len(s.viewListeners) == 0 {
		return
	}
	v := s.View()
	listeners := make([]viewListener, len(s.viewListeners))
	copy(listeners, s.viewListeners)
	for _, l := range listeners {
		l.fn(v)
	}
}

func (s *Surface) stale(el MediaElement) bool {
	return el == nil || el != s.element
}

// OnLoadedMetadata resets progress and starts tracking position updates.
func (s *Surface) OnLoadedMetadata(el MediaElement) {
	if s.stale(el) {
		return
	}
	s.progress = 0
	s.tracking = true
	s.notify()
}

// OnTimeUpdate publishes the element position rounded down to whole seconds.
func (s *Surface) OnTimeUpdate(el MediaElement) {
	if s.stale(el) || !s.tracking {
		return
	}
	p := int(math.Floor(el.CurrentTime()))
	if p < 0 {
		p = 0
	}
	if p == s.progress {
		return
	}
	s.progress = p
	s.notify()
}

// OnPlay records that the element actually started producing audio.
func (s *Surface) OnPlay(el MediaElement) {
	if s.stale(el) {
		return
	}
	s.store.SetPlayingState(true)
}

// OnPause records that the element paused.
func (s *Surface) OnPause(el MediaElement) {
	if s.stale(el) {
		return
	}
	s.store.SetPlayingState(false)
}

// OnEnded advances the queue after a natural end of the active episode.
func (s *Surface) OnEnded(el MediaElement) {
	if s.stale(el) {
		return
	}

	if s.state.IsLooping {
		s.restart()
		return
	}

	if s.state.HasNext() {
		before := s.bound
		s.store.PlayNext()
		// Shuffle can pick the episode that just ended.
		if s.element == el && s.bound.same(before) {
			s.restart()
		}
		return
	}

	zlog.Info().Msgf("player: queue finished: policy=%s", s.policy)
	switch s.policy {
	case EndStop:
		s.store.SetPlayingState(false)
	default:
		s.store.Clear()
		s.store.SetPlayingState(false)
	}
}

func (s *Surface) restart() {
	if err := s.element.Seek(0); err != nil {
		zlog.Warn().Err(err).Msg("player: failed to rewind")
	}
	s.progress = 0
	if s.state.IsPlaying {
		if err := s.element.Play(); err != nil {
			zlog.Warn().Err(err).Msg("player: play failed")
		}
	}
	s.notify()
}

// Seek moves the playback position and updates progress immediately.
func (s *Surface) Seek(seconds int) error {
	if s.element == nil {
		return ErrNoEpisode
	}
	if seconds < 0 {
		seconds = 0
	}
	if ep, ok := s.state.Current(); ok && ep.Duration > 0 && seconds > ep.Duration {
		seconds = ep.Duration
	}
	if err := s.element.Seek(seconds); err != nil {
		return errors.Wrap(err, "failed to seek")
	}
	s.progress = seconds
	s.notify()
	return nil
}

// TogglePlay handles the play/pause button.
func (s *Surface) TogglePlay() error {
	if !s.View().Controls.PlayPause.Enabled {
		return errors.Wrap(ErrControlDisabled, "play/pause")
	}
	s.store.TogglePlay()
	return nil
}

// Next handles the next button.
func (s *Surface) Next() error {
	if !s.View().Controls.Next.Enabled {
		return errors.Wrap(ErrControlDisabled, "next")
	}
	s.store.PlayNext()
	return nil
}

// Previous handles the previous button.
func (s *Surface) Previous() error {
	if !s.View().Controls.Previous.Enabled {
		return errors.Wrap(ErrControlDisabled, "previous")
	}
	s.store.PlayPrevious()
	return nil
}

// ToggleShuffle handles the shuffle button.
func (s *Surface) ToggleShuffle() error {
	if !s.View().Controls.Shuffle.Enabled {
		return errors.Wrap(ErrControlDisabled, "shuffle")
	}
	s.store.ToggleShuffling()
	return nil
}

// ToggleLoop handles the loop button.
func (s *Surface) ToggleLoop() error {
	if !s.View().Controls.Loop.Enabled {
		return errors.Wrap(ErrControlDisabled, "loop")
	}
	s.store.ToggleLooping()
	return nil
}
