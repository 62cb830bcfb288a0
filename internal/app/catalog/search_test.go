package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/podbox/internal/domain/episode"
)

func readyCatalog(t *testing.T, minScore int) *Catalog {
	t.Helper()
	c := New(&fakeSource{episodes: sampleEpisodes()}, Config{LatestCount: 2, MinScore: minScore})
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestCatalog_SearchEmptyQuery(t *testing.T) {
	c := readyCatalog(t, ScoreThresholdNone)

	matches, err := c.Search("  ")
	require.NoError(t, err)
	require.Len(t, matches, 4)
	for i, m := range matches {
		assert.Equal(t, i, m.Index)
	}
	assert.Equal(t, "e5", matches[0].Episode.ID)
}

func TestCatalog_SearchTitle(t *testing.T) {
	c := readyCatalog(t, ScoreThresholdNone)

	matches, err := c.Search("backend")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "e4", matches[0].Episode.ID)
	assert.Equal(t, 1, matches[0].Index)
	assert.Positive(t, matches[0].Score)
}

func TestCatalog_SearchMembers(t *testing.T) {
	c := readyCatalog(t, ScoreThresholdNone)

	matches, err := c.Search("diego")
	require.NoError(t, err)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Episode.ID)
	}
	assert.ElementsMatch(t, []string{"e5", "e3"}, ids)
}

func TestCatalog_SearchCaseInsensitive(t *testing.T) {
	c := readyCatalog(t, ScoreThresholdNone)

	matches, err := c.Search("APIS")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "e2", matches[0].Episode.ID)
}

func TestCatalog_SearchNoMatch(t *testing.T) {
	c := readyCatalog(t, ScoreThresholdNone)

	matches, err := c.Search("zzzzqqq")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCatalog_SearchMinScore(t *testing.T) {
	c := readyCatalog(t, 100000)

	matches, err := c.Search("go")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCatalog_SearchNotReady(t *testing.T) {
	c := New(&fakeSource{}, Config{})

	_, err := c.Search("go")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestCatalog_SearchListingUsesGivenSnapshot(t *testing.T) {
	src := &fakeSource{episodes: sampleEpisodes()}
	c := New(src, Config{LatestCount: 2})
	require.NoError(t, c.Refresh(context.Background()))

	snapshot, err := c.Listing()
	require.NoError(t, err)

	// A revalidation publishes a newer episode and shifts every index.
	newer := append([]episode.Episode{{ID: "e6", Title: "Go no Frontend", URL: "https://cdn/e6.mp3"}}, sampleEpisodes()...)
	src.set(newer, nil)
	require.NoError(t, c.Refresh(context.Background()))

	matches := c.SearchListing(snapshot, "backend")
	require.NotEmpty(t, matches)
	assert.Equal(t, "e4", matches[0].Episode.ID)
	assert.Equal(t, "e4", snapshot.Ordered()[matches[0].Index].ID)

	current, err := c.Search("backend")
	require.NoError(t, err)
	require.NotEmpty(t, current)
	assert.Equal(t, "e4", current[0].Episode.ID)
	assert.Equal(t, 2, current[0].Index)
}
