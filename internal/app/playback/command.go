package playback

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/podbox/internal/domain/episode"
)

// ErrIndexOutOfRange is returned when PlayList is given an index outside the list.
var ErrIndexOutOfRange = errors.New("playlist index out of range")

// Command is a state mutation understood by Reduce.
type Command interface {
	String() string
}

// PlayCommand replaces the queue with a single episode and starts playing.
type PlayCommand struct {
	Episode episode.Episode
}

// PlayListCommand replaces the queue with List and starts playing at Index.
type PlayListCommand struct {
	List  []episode.Episode
	Index int
}

// TogglePlayCommand flips the playing flag.
type TogglePlayCommand struct{}

// SetPlayingCommand sets the playing flag to match the media element.
type SetPlayingCommand struct {
	Playing bool
}

// ToggleLoopingCommand flips the looping flag.
type ToggleLoopingCommand struct{}

// ToggleShufflingCommand flips the shuffling flag.
type ToggleShufflingCommand struct{}

// NextCommand moves to the next (or a random) episode.
type NextCommand struct{}

// PreviousCommand moves to the previous episode.
type PreviousCommand struct{}

// ClearCommand empties the queue. The playing flag is left untouched.
type ClearCommand struct{}

func (PlayCommand) String() string            { return "play" }
func (PlayListCommand) String() string        { return "play_list" }
func (TogglePlayCommand) String() string      { return "toggle_play" }
func (SetPlayingCommand) String() string      { return "set_playing" }
func (ToggleLoopingCommand) String() string   { return "toggle_looping" }
func (ToggleShufflingCommand) String() string { return "toggle_shuffling" }
func (NextCommand) String() string            { return "next" }
func (PreviousCommand) String() string        { return "previous" }
func (ClearCommand) String() string           { return "clear" }

// Validate checks that Index addresses an element of List.
func (c PlayListCommand) Validate() error {
	if c.Index < 0 || c.Index >= len(c.List) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, list length %d", c.Index, len(c.List))
	}
	return nil
}

// validatable is implemented by commands with argument checks.
type validatable interface {
	Validate() error
}

// Reduce applies cmd to s and reports whether the state changed.
// intn returns a uniformly random integer in [0, n) and is only used while shuffling.
func Reduce(s State, cmd Command, intn func(n int) int) (State, bool) {
	switch c := cmd.(type) {
	case PlayCommand:
		s.Queue = []episode.Episode{c.Episode}
		s.ActiveIndex = 0
		s.IsPlaying = true
		return s, true

	case PlayListCommand:
		s.Queue = make([]episode.Episode, len(c.List))
		copy(s.Queue, c.List)
		s.ActiveIndex = c.Index
		s.IsPlaying = true
		return s, true

	case TogglePlayCommand:
		s.IsPlaying = !s.IsPlaying
		return s, true

	case SetPlayingCommand:
		if s.IsPlaying == c.Playing {
			return s, false
		}
		s.IsPlaying = c.Playing
		return s, true

	case ToggleLoopingCommand:
		s.IsLooping = !s.IsLooping
		return s, true

	case ToggleShufflingCommand:
		s.IsShuffling = !s.IsShuffling
		return s, true

	case NextCommand:
		if s.IsShuffling {
			// The current episode may be picked again.
			if len(s.Queue) == 0 {
				return s, false
			}
			next := intn(len(s.Queue))
			if next == s.ActiveIndex {
				return s, false
			}
			s.ActiveIndex = next
			return s, true
		}
		if !s.HasNext() {
			return s, false
		}
		s.ActiveIndex++
		return s, true

	case PreviousCommand:
		if !s.HasPrevious() {
			return s, false
		}
		s.ActiveIndex--
		return s, true

	case ClearCommand:
		if len(s.Queue) == 0 && s.ActiveIndex == 0 {
			return s, false
		}
		s.Queue = []episode.Episode{}
		s.ActiveIndex = 0
		return s, true

	default:
		return s, false
	}
}
