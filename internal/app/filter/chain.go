package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/domain/episode"
)

// Settings configures one filter.
type Settings struct {
	Enabled  bool
	Settings map[string]any
}

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// NewChainFromConfig builds a chain from the enabled filters in cfg.
// The playable filter is always first.
func NewChainFromConfig(cfg map[string]Settings) (*Chain, error) {
	chain := NewChain(&PlayableFilter{})

	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := cfg[name]
		if !s.Enabled || name == (&PlayableFilter{}).Name() {
			continue
		}
		factory, ok := registry[name]
		if !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
		f := factory()
		if err := f.ValidateConfig(s.Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
	}
	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// Check runs all filters on one episode.
// Returns immediately if any filter rejects it.
func (c *Chain) Check(ctx context.Context, ep episode.Episode, batch *Batch) Result {
	for _, f := range c.filters {
		if result := f.Check(ctx, ep, batch); !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply returns the episodes accepted by every filter, keeping their order.
func (c *Chain) Apply(ctx context.Context, episodes []episode.Episode) []episode.Episode {
	batch := newBatch(len(episodes))
	for _, ep := range episodes {
		result := c.Check(ctx, ep, batch)
		if !result.Accepted {
			zlog.Debug().Msgf("filter: rejected episode: id=%s code=%s title=%s", ep.ID, result.Code, ep.Title)
			continue
		}
		batch.add(ep)
	}
	if dropped := len(episodes) - len(batch.accepted); dropped > 0 {
		zlog.Info().Msgf("filter: dropped %d of %d episodes", dropped, len(episodes))
	}
	return batch.accepted
}
