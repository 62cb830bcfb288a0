// Package player binds the shared playback state to a single media element.
package player

import "github.com/osa030/podbox/internal/domain/episode"

// MediaElement is a playback handle bound to one media source.
// A new element is opened for every episode change; elements are never re-pointed.
type MediaElement interface {
	Play() error
	Pause() error
	Seek(seconds int) error
	CurrentTime() float64
	SetLoop(loop bool)
	Close() error
}

// MediaEvents receives lifecycle events from media elements.
// The element that produced the event is passed so stale events can be ignored.
type MediaEvents interface {
	OnLoadedMetadata(el MediaElement)
	OnTimeUpdate(el MediaElement)
	OnPlay(el MediaElement)
	OnPause(el MediaElement)
	OnEnded(el MediaElement)
}

// MediaFactory opens media elements.
type MediaFactory interface {
	Open(ep episode.Episode, events MediaEvents) (MediaElement, error)
}

// MediaFactoryFunc adapts a function to MediaFactory.
type MediaFactoryFunc func(ep episode.Episode, events MediaEvents) (MediaElement, error)

// Open calls f.
func (f MediaFactoryFunc) Open(ep episode.Episode, events MediaEvents) (MediaElement, error) {
	return f(ep, events)
}
