// Package filter provides the episode filter chain applied to fetched listings.
package filter

import (
	"context"

	"github.com/osa030/podbox/internal/domain/episode"
)

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "missing_url", "duplicate_episode"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Batch holds the episodes accepted so far while a chain runs.
type Batch struct {
	accepted []episode.Episode
	ids      map[string]struct{}
}

func newBatch(capacity int) *Batch {
	return &Batch{
		accepted: make([]episode.Episode, 0, capacity),
		ids:      make(map[string]struct{}, capacity),
	}
}

// HasID reports whether an episode with id was already accepted.
func (b *Batch) HasID(id string) bool {
	_, ok := b.ids[id]
	return ok
}

// Accepted returns the episodes accepted so far.
func (b *Batch) Accepted() []episode.Episode {
	return b.accepted
}

func (b *Batch) add(ep episode.Episode) {
	b.accepted = append(b.accepted, ep)
	b.ids[ep.ID] = struct{}{}
}

// Filter is the interface for episode filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// Check decides whether ep enters the listing.
	Check(ctx context.Context, ep episode.Episode, batch *Batch) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}
