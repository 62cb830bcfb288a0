package player

import (
	"github.com/osa030/podbox/internal/app/playback"
	"github.com/osa030/podbox/internal/domain/episode"
)

// EmptyDurationLabel is shown as total duration when no episode is active.
const EmptyDurationLabel = "00:00"

// Button is the rendered state of a transport button.
type Button struct {
	Enabled bool
	Active  bool
}

// Controls holds the transport buttons in display order.
type Controls struct {
	Shuffle   Button
	Previous  Button
	PlayPause Button
	Next      Button
	Loop      Button
}

// View is everything needed to render the player.
type View struct {
	Idle          bool
	Episode       *episode.Episode
	Status        playback.Status
	QueueLength   int
	ActiveIndex   int
	Progress      int // Elapsed whole seconds
	Duration      int // Total seconds of the active episode
	ElapsedLabel  string
	DurationLabel string
	Controls      Controls
}

// BuildView derives the player view from a state snapshot and the displayed progress.
func BuildView(st playback.State, progress int) View {
	v := View{
		Status:        st.Status(),
		QueueLength:   len(st.Queue),
		ActiveIndex:   st.ActiveIndex,
		Progress:      progress,
		ElapsedLabel:  episode.FormatDuration(progress),
		DurationLabel: EmptyDurationLabel,
	}

	ep, ok := st.Current()
	if !ok {
		v.Idle = true
		v.Progress = 0
		v.ElapsedLabel = episode.FormatDuration(0)
		v.Controls = Controls{
			Shuffle:   Button{Active: st.IsShuffling},
			Loop:      Button{Active: st.IsLooping},
			PlayPause: Button{Active: st.IsPlaying},
		}
		return v
	}

	v.Episode = ep
	v.Duration = ep.Duration
	if ep.DurationAsString != "" {
		v.DurationLabel = ep.DurationAsString
	}
	v.Controls = Controls{
		Shuffle:   Button{Enabled: len(st.Queue) > 1, Active: st.IsShuffling},
		Previous:  Button{Enabled: st.HasPrevious()},
		PlayPause: Button{Enabled: true, Active: st.IsPlaying},
		Next:      Button{Enabled: st.HasNext()},
		Loop:      Button{Enabled: true, Active: st.IsLooping},
	}
	return v
}
