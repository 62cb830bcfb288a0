// Package media provides media element backends for the player.
package media

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/domain/episode"
)

// ErrClosed is returned when a closed element is used.
var ErrClosed = errors.New("media element is closed")

// ClockConfig represents the settings of the clock backend.
type ClockConfig struct {
	TickMs int     `yaml:"tick_ms" mapstructure:"tick_ms" default:"1000" validate:"gte=10,lte=10000"`
	Speed  float64 `yaml:"speed" mapstructure:"speed" default:"1" validate:"gte=0.1,lte=16"`
}

// ClockFactory opens simulated media elements that advance in wall-clock time.
type ClockFactory struct {
	config ClockConfig
}

// NewClockFactory creates a clock factory from raw settings.
func NewClockFactory(settings map[string]any) (*ClockFactory, error) {
	var config ClockConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	zlog.Debug().Msgf("clock media config: %+v", config)
	return &ClockFactory{config: config}, nil
}

// Open creates an element for ep. OnLoadedMetadata is delivered asynchronously.
func (f *ClockFactory) Open(ep episode.Episode, events player.MediaEvents) (player.MediaElement, error) {
	if ep.URL == "" {
		return nil, errors.Newf("episode %s has no media url", ep.ID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &ClockElement{
		url:      ep.URL,
		duration: time.Duration(ep.Duration) * time.Second,
		tick:     time.Duration(f.config.TickMs) * time.Millisecond,
		speed:    f.config.Speed,
		events:   events,
		eventCh:  make(chan eventKind, 16),
		ctx:      ctx,
		cancel:   cancel,
	}
	go c.deliverLoop()
	c.emit(eventLoadedMetadata)
	return c, nil
}

type eventKind int

const (
	eventLoadedMetadata eventKind = iota
	eventTimeUpdate
	eventPlay
	eventPause
	eventEnded
)

// ClockElement simulates an audio element. Position advances while playing and
// the element ends at the episode duration. A zero duration never ends.
type ClockElement struct {
	mu sync.Mutex

	url      string
	duration time.Duration
	tick     time.Duration
	speed    float64

	playing  bool
	loop     bool
	closed   bool
	position time.Duration // Position at anchor
	anchor   time.Time     // Wall time when playback (re)started

	timerCancel func()

	events  player.MediaEvents
	eventCh chan eventKind

	ctx    context.Context
	cancel context.CancelFunc
}

// Play starts advancing the position.
func (c *ClockElement) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.playing {
		return nil
	}
	if c.duration > 0 && c.position >= c.duration {
		c.position = 0
	}
	c.playing = true
	c.anchor = toWallTime(time.Now())
	c.startTicker()
	c.emit(eventPlay)
	return nil
}

// Pause freezes the position.
func (c *ClockElement) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if !c.playing {
		return nil
	}
	c.position = c.positionLocked()
	c.playing = false
	c.stopTicker()
	c.emit(eventPause)
	return nil
}

// Seek moves the position to seconds, clamped to the duration.
func (c *ClockElement) Seek(seconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	pos := time.Duration(seconds) * time.Second
	if pos < 0 {
		pos = 0
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	c.position = pos
	c.anchor = toWallTime(time.Now())
	c.emit(eventTimeUpdate)
	return nil
}

// CurrentTime returns the position in seconds.
func (c *ClockElement) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked().Seconds()
}

// SetLoop sets whether the element restarts itself at the end.
func (c *ClockElement) SetLoop(loop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop = loop
}

// Close stops the element. Pending events are dropped.
// Close does not wait for the event goroutine, so it is safe to call from
// code that also serializes the element's callbacks.
func (c *ClockElement) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.playing = false
	c.stopTicker()
	c.cancel()
	zlog.Debug().Msgf("media: closed clock element: url=%s", c.url)
	return nil
}

func (c *ClockElement) positionLocked() time.Duration {
	pos := c.position
	if c.playing {
		elapsed := toWallTime(time.Now()).Sub(c.anchor)
		pos += time.Duration(float64(elapsed) * c.speed)
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	return pos
}

// startTicker starts the position ticker. Must be called with lock held.
func (c *ClockElement) startTicker() {
	c.stopTicker()

	ctx, cancel := context.WithCancel(c.ctx)
	c.timerCancel = cancel

	go func() {
		ticker := time.NewTicker(c.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !c.onTick(ctx) {
					return
				}
			}
		}
	}()
}

// stopTicker cancels the position ticker. Must be called with lock held.
func (c *ClockElement) stopTicker() {
	if c.timerCancel != nil {
		c.timerCancel()
		c.timerCancel = nil
	}
}

// onTick publishes the position and handles the end of the media.
// Returns false when the ticker should stop.
func (c *ClockElement) onTick(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil || !c.playing {
		return false
	}

	pos := c.positionLocked()
	if c.duration <= 0 || pos < c.duration {
		c.emit(eventTimeUpdate)
		return true
	}

	if c.loop {
		c.position = 0
		c.anchor = toWallTime(time.Now())
		c.emit(eventTimeUpdate)
		return true
	}

	c.position = c.duration
	c.playing = false
	c.stopTicker()
	c.emit(eventTimeUpdate)
	c.emit(eventEnded)
	return false
}

// emit queues an event without blocking.
func (c *ClockElement) emit(kind eventKind) {
	select {
	case c.eventCh <- kind:
	case <-c.ctx.Done():
	default:
		// Channel full, drop event
	}
}

// deliverLoop hands events to the sink one at a time, in order.
func (c *ClockElement) deliverLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case kind := <-c.eventCh:
			c.deliver(kind)
		}
	}
}

func (c *ClockElement) deliver(kind eventKind) {
	switch kind {
	case eventLoadedMetadata:
		c.events.OnLoadedMetadata(c)
	case eventTimeUpdate:
		c.events.OnTimeUpdate(c)
	case eventPlay:
		c.events.OnPlay(c)
	case eventPause:
		c.events.OnPause(c)
	case eventEnded:
		c.events.OnEnded(c)
	}
}

// toWallTime returns the time with monotonic clock stripped.
func toWallTime(t time.Time) time.Time {
	return time.Unix(t.Unix(), int64(t.Nanosecond()))
}
