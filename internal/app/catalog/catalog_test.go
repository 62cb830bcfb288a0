package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/podbox/internal/domain/episode"
)

type fakeSource struct {
	mu       sync.Mutex
	episodes []episode.Episode
	err      error
	calls    int
}

func (f *fakeSource) FetchEpisodes(ctx context.Context) ([]episode.Episode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]episode.Episode(nil), f.episodes...), nil
}

func (f *fakeSource) set(episodes []episode.Episode, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.episodes = episodes
	f.err = err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleEpisodes() []episode.Episode {
	return []episode.Episode{
		{ID: "e5", Title: "Carreira em Tecnologia", Members: "Diego, Ana", URL: "https://cdn/e5.mp3", Duration: 3600},
		{ID: "e4", Title: "Go no Backend", Members: "Rafael", URL: "https://cdn/e4.mp3", Duration: 1800},
		{ID: "e3", Title: "Estratégias de Testes", Members: "Diego", URL: "https://cdn/e3.mp3", Duration: 2400},
		{ID: "e2", Title: "Design de APIs", Members: "Mayk", URL: "https://cdn/e2.mp3", Duration: 2000},
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusLoading, "loading"},
		{StatusReady, "ready"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}

func TestCatalog_Refresh(t *testing.T) {
	src := &fakeSource{episodes: sampleEpisodes()}
	c := New(src, Config{LatestCount: 2})

	assert.Equal(t, StatusLoading, c.Info().Status)
	_, err := c.Listing()
	assert.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, c.Refresh(context.Background()))

	l, err := c.Listing()
	require.NoError(t, err)
	require.Len(t, l.Latest, 2)
	require.Len(t, l.All, 2)
	assert.Equal(t, "e5", l.Latest[0].ID)
	assert.Equal(t, "e3", l.All[0].ID)

	info := c.Info()
	assert.Equal(t, StatusReady, info.Status)
	assert.Equal(t, 4, info.EpisodeCount)
	assert.NoError(t, info.Err)
	assert.False(t, info.UpdatedAt.IsZero())
}

func TestCatalog_DefaultLatestCount(t *testing.T) {
	c := New(&fakeSource{episodes: sampleEpisodes()}, Config{})
	require.NoError(t, c.Refresh(context.Background()))

	l, err := c.Listing()
	require.NoError(t, err)
	assert.Len(t, l.Latest, 2)
}

func TestCatalog_RefreshFailureKeepsListing(t *testing.T) {
	src := &fakeSource{episodes: sampleEpisodes()}
	c := New(src, Config{LatestCount: 2})
	require.NoError(t, c.Refresh(context.Background()))

	boom := errors.New("boom")
	src.set(nil, boom)
	err := c.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	info := c.Info()
	assert.Equal(t, StatusFailed, info.Status)
	assert.ErrorIs(t, info.Err, boom)
	assert.Equal(t, 4, info.EpisodeCount)

	l, err := c.Listing()
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len())
}

func TestCatalog_FirstRefreshFails(t *testing.T) {
	c := New(&fakeSource{err: errors.New("offline")}, Config{})
	require.Error(t, c.Refresh(context.Background()))

	assert.Equal(t, StatusFailed, c.Info().Status)
	_, err := c.Listing()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestCatalog_ListingIsACopy(t *testing.T) {
	c := New(&fakeSource{episodes: sampleEpisodes()}, Config{LatestCount: 2})
	require.NoError(t, c.Refresh(context.Background()))

	l, err := c.Listing()
	require.NoError(t, err)
	l.Latest[0].Title = "changed"

	again, err := c.Listing()
	require.NoError(t, err)
	assert.Equal(t, "Carreira em Tecnologia", again.Latest[0].Title)
}

func TestCatalog_Run(t *testing.T) {
	src := &fakeSource{episodes: sampleEpisodes()}
	c := New(src, Config{LatestCount: 2, Revalidate: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusReady, c.Info().Status)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCatalog_RunWithoutRevalidate(t *testing.T) {
	src := &fakeSource{episodes: sampleEpisodes()}
	c := New(src, Config{})

	c.Run(context.Background())
	assert.Equal(t, 1, src.callCount())
	assert.Equal(t, StatusReady, c.Info().Status)
}

func TestCatalog_OnRefresh(t *testing.T) {
	src := &fakeSource{episodes: sampleEpisodes()}
	c := New(src, Config{})

	var got []Info
	c.OnRefresh(func(info Info) { got = append(got, info) })

	require.NoError(t, c.Refresh(context.Background()))
	src.set(nil, errors.New("down"))
	require.Error(t, c.Refresh(context.Background()))

	require.Len(t, got, 2)
	assert.Equal(t, StatusReady, got[0].Status)
	assert.Equal(t, StatusFailed, got[1].Status)
	assert.Equal(t, 4, got[1].EpisodeCount)
}

type dropFilter struct {
	id string
}

func (f dropFilter) Apply(ctx context.Context, episodes []episode.Episode) []episode.Episode {
	kept := episodes[:0]
	for _, ep := range episodes {
		if ep.ID != f.id {
			kept = append(kept, ep)
		}
	}
	return kept
}

func TestCatalog_RefreshAppliesFilter(t *testing.T) {
	c := New(&fakeSource{episodes: sampleEpisodes()}, Config{LatestCount: 2, Filter: dropFilter{id: "e4"}})
	require.NoError(t, c.Refresh(context.Background()))

	l, err := c.Listing()
	require.NoError(t, err)
	assert.Equal(t, "e5", l.Latest[0].ID)
	assert.Equal(t, "e3", l.Latest[1].ID)
	require.Len(t, l.All, 1)
	assert.Equal(t, "e2", l.All[0].ID)
	assert.Equal(t, 3, c.Info().EpisodeCount)
}

type fetchingSource struct {
	fakeSource
	byID map[string]episode.Episode
}

func (f *fetchingSource) FetchEpisode(ctx context.Context, id string) (*episode.Episode, error) {
	ep, ok := f.byID[id]
	if !ok {
		return nil, errors.Newf("no episode %s", id)
	}
	return &ep, nil
}

func TestCatalog_Episode(t *testing.T) {
	src := &fetchingSource{
		fakeSource: fakeSource{episodes: sampleEpisodes()},
		byID: map[string]episode.Episode{
			"e1": {ID: "e1", Title: "Primeiro", URL: "https://cdn/e1.mp3"},
			"e0": {ID: "e0", Title: "Rascunho"},
		},
	}
	c := New(src, Config{LatestCount: 2, Filter: dropFilter{id: "e0"}})
	require.NoError(t, c.Refresh(context.Background()))

	ep, err := c.Episode(context.Background(), "e3")
	require.NoError(t, err)
	assert.Equal(t, "Estratégias de Testes", ep.Title)

	ep, err = c.Episode(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Primeiro", ep.Title)

	_, err = c.Episode(context.Background(), "e0")
	assert.ErrorIs(t, err, ErrEpisodeNotFound)

	_, err = c.Episode(context.Background(), "e9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no episode e9")
}

func TestCatalog_EpisodeWithoutFetcher(t *testing.T) {
	c := New(&fakeSource{episodes: sampleEpisodes()}, Config{})
	require.NoError(t, c.Refresh(context.Background()))

	_, err := c.Episode(context.Background(), "e1")
	assert.ErrorIs(t, err, ErrEpisodeNotFound)
}

func TestCatalog_InfoTotalDuration(t *testing.T) {
	c := New(&fakeSource{episodes: sampleEpisodes()}, Config{})
	assert.Zero(t, c.Info().TotalDuration)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 3600+1800+2400+2000, c.Info().TotalDuration)
}
