package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/domain/episode"
	"github.com/osa030/podbox/internal/domain/listing"
)

// Errors
var (
	ErrNotReady        = errors.New("catalog is not ready")
	ErrEpisodeNotFound = errors.New("episode not found")
)

// Source fetches episodes, newest first.
type Source interface {
	FetchEpisodes(ctx context.Context) ([]episode.Episode, error)
}

// EpisodeFetcher is implemented by sources that can fetch a single episode.
type EpisodeFetcher interface {
	FetchEpisode(ctx context.Context, id string) (*episode.Episode, error)
}

// Filter narrows fetched episodes before they are listed.
type Filter interface {
	Apply(ctx context.Context, episodes []episode.Episode) []episode.Episode
}

// Config holds catalog configuration.
type Config struct {
	LatestCount int           // Episodes shown as latest releases
	Revalidate  time.Duration // Interval between refreshes (0 disables)
	MinScore    int           // Minimum fuzzy search score
	Filter      Filter        // Optional
}

// Info describes the catalog state.
type Info struct {
	Status        Status
	Err           error
	UpdatedAt     time.Time
	EpisodeCount  int
	TotalDuration int // Seconds of audio in the listing
}

// Catalog holds the current listing with thread-safe access.
// A failed refresh keeps the last good listing.
type Catalog struct {
	mu sync.RWMutex

	source Source
	config Config

	listing   listing.Listing
	loaded    bool
	status    Status
	lastErr   error
	updatedAt time.Time

	onRefresh func(Info)
	now       func() time.Time
}

// New creates a catalog in the loading state.
func New(source Source, config Config) *Catalog {
	if config.LatestCount <= 0 {
		config.LatestCount = listing.DefaultLatestCount
	}
	return &Catalog{
		source: source,
		config: config,
		status: StatusLoading,
		now:    time.Now,
	}
}

// OnRefresh registers fn to be called after every refresh attempt.
// It must be set before Run is started.
func (c *Catalog) OnRefresh(fn func(Info)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefresh = fn
}

// Refresh fetches the episodes now.
func (c *Catalog) Refresh(ctx context.Context) error {
	err := c.refresh(ctx)

	c.mu.RLock()
	fn := c.onRefresh
	c.mu.RUnlock()
	if fn != nil {
		fn(c.Info())
	}
	return err
}

func (c *Catalog) refresh(ctx context.Context) error {
	episodes, err := c.source.FetchEpisodes(ctx)
	if err == nil && c.config.Filter != nil {
		episodes = c.config.Filter.Apply(ctx, episodes)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = StatusFailed
		c.lastErr = err
		zlog.Error().Err(err).Msgf("catalog: refresh failed (keeping %d episodes)", c.listing.Len())
		return errors.Wrap(err, "failed to fetch episodes")
	}

	c.listing = listing.Split(episodes, c.config.LatestCount)
	c.loaded = true
	c.status = StatusReady
	c.lastErr = nil
	c.updatedAt = c.now()
	zlog.Info().Msgf("catalog: refreshed: latest=%d all=%d", len(c.listing.Latest), len(c.listing.All))
	return nil
}

// Run refreshes immediately and then every Revalidate interval until ctx is done.
func (c *Catalog) Run(ctx context.Context) {
	_ = c.Refresh(ctx)

	if c.config.Revalidate <= 0 {
		return
	}

	ticker := time.NewTicker(c.config.Revalidate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

// Listing returns the current listing.
func (c *Catalog) Listing() (listing.Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		if c.lastErr != nil {
			return listing.Listing{}, errors.WithSecondaryError(ErrNotReady, c.lastErr)
		}
		return listing.Listing{}, ErrNotReady
	}
	return listing.Split(c.listing.Ordered(), len(c.listing.Latest)), nil
}

// Info returns the catalog status.
func (c *Catalog) Info() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Info{
		Status:        c.status,
		Err:           c.lastErr,
		UpdatedAt:     c.updatedAt,
		EpisodeCount:  c.listing.Len(),
		TotalDuration: int(c.listing.TotalDuration()),
	}
}

// Episode returns the listed episode with id. Episodes that are not listed
// are fetched from the source when it supports it and must pass the filter.
func (c *Catalog) Episode(ctx context.Context, id string) (episode.Episode, error) {
	c.mu.RLock()
	if pos, ok := c.listing.Find(id); ok {
		ep := c.listing.Ordered()[pos]
		c.mu.RUnlock()
		return ep, nil
	}
	c.mu.RUnlock()

	fetcher, ok := c.source.(EpisodeFetcher)
	if !ok {
		return episode.Episode{}, errors.Wrapf(ErrEpisodeNotFound, "id=%s", id)
	}
	ep, err := fetcher.FetchEpisode(ctx, id)
	if err != nil {
		return episode.Episode{}, errors.Wrapf(err, "failed to fetch episode %s", id)
	}
	if c.config.Filter != nil && len(c.config.Filter.Apply(ctx, []episode.Episode{*ep})) == 0 {
		return episode.Episode{}, errors.Wrapf(ErrEpisodeNotFound, "id=%s rejected by filters", id)
	}
	zlog.Debug().Msgf("catalog: fetched unlisted episode: id=%s", id)
	return *ep, nil
}
