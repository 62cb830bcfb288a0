// Package listing provides the episode Listing shown on the home page.
package listing

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/podbox/internal/domain/episode"
)

// DefaultLatestCount is the number of episodes highlighted as latest releases.
const DefaultLatestCount = 2

// ErrIndexOutOfRange is returned when a section-relative index does not exist.
var ErrIndexOutOfRange = errors.New("episode index out of range")

// Section identifies a part of the listing.
type Section string

const (
	SectionLatest Section = "latest"
	SectionAll    Section = "all"
)

// ParseSection converts a string to a Section.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionLatest, SectionAll:
		return Section(s), nil
	default:
		return "", errors.Newf("unknown listing section: %q", s)
	}
}

// Listing splits episodes into the latest releases and the rest.
// The playback order is always Latest followed by All.
type Listing struct {
	Latest []episode.Episode
	All    []episode.Episode
}

// Split builds a Listing from episodes sorted newest first.
func Split(episodes []episode.Episode, latestCount int) Listing {
	if latestCount < 0 {
		latestCount = 0
	}
	if latestCount > len(episodes) {
		latestCount = len(episodes)
	}

	l := Listing{
		Latest: make([]episode.Episode, latestCount),
		All:    make([]episode.Episode, len(episodes)-latestCount),
	}
	copy(l.Latest, episodes[:latestCount])
	copy(l.All, episodes[latestCount:])
	return l
}

// Ordered returns Latest followed by All as a new slice.
func (l *Listing) Ordered() []episode.Episode {
	result := make([]episode.Episode, 0, l.Len())
	result = append(result, l.Latest...)
	result = append(result, l.All...)
	return result
}

// Len returns the total number of episodes.
func (l *Listing) Len() int {
	return len(l.Latest) + len(l.All)
}

// IndexOf maps an index inside a section to its index in Ordered.
func (l *Listing) IndexOf(section Section, index int) (int, error) {
	switch section {
	case SectionLatest:
		if index < 0 || index >= len(l.Latest) {
			return 0, errors.Wrapf(ErrIndexOutOfRange, "latest[%d]", index)
		}
		return index, nil
	case SectionAll:
		if index < 0 || index >= len(l.All) {
			return 0, errors.Wrapf(ErrIndexOutOfRange, "all[%d]", index)
		}
		return index + len(l.Latest), nil
	default:
		return 0, errors.Newf("unknown listing section: %q", section)
	}
}

// Find returns the ordered index of the episode with the given ID.
func (l *Listing) Find(id string) (int, bool) {
	for i, ep := range l.Latest {
		if ep.ID == id {
			return i, true
		}
	}
	for i, ep := range l.All {
		if ep.ID == id {
			return i + len(l.Latest), true
		}
	}
	return 0, false
}

// TotalDuration returns the total duration of all episodes in seconds.
func (l *Listing) TotalDuration() int64 {
	var total int64
	for _, ep := range l.Latest {
		total += int64(ep.Duration)
	}
	for _, ep := range l.All {
		total += int64(ep.Duration)
	}
	return total
}
