// Package playback provides the shared player state container.
package playback

import "github.com/osa030/podbox/internal/domain/episode"

// Status summarizes the playback state for logs and clients.
type Status int

const (
	StatusIdle    Status = iota // Queue is empty
	StatusPlaying               // Active episode is playing
	StatusPaused                // Active episode is paused
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is a snapshot of the player state.
// ActiveIndex is always within Queue when Queue is non-empty, and 0 otherwise.
type State struct {
	Queue       []episode.Episode
	ActiveIndex int
	IsPlaying   bool
	IsLooping   bool
	IsShuffling bool
}

// HasNext reports whether PlayNext would move to another episode.
func (s State) HasNext() bool {
	return s.IsShuffling || s.ActiveIndex+1 < len(s.Queue)
}

// HasPrevious reports whether PlayPrevious would move back.
func (s State) HasPrevious() bool {
	return s.ActiveIndex > 0
}

// Current returns the active episode.
func (s State) Current() (*episode.Episode, bool) {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Queue) {
		return nil, false
	}
	ep := s.Queue[s.ActiveIndex]
	return &ep, true
}

// Status returns the summarized playback status.
func (s State) Status() Status {
	if len(s.Queue) == 0 {
		return StatusIdle
	}
	if s.IsPlaying {
		return StatusPlaying
	}
	return StatusPaused
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	if s.Queue != nil {
		c.Queue = make([]episode.Episode, len(s.Queue))
		copy(c.Queue, s.Queue)
	}
	return c
}
