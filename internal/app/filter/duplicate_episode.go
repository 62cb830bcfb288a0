package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/osa030/podbox/internal/domain/episode"
)

// DuplicateEpisodeFilter drops repeated episodes.
// Detects:
// - Exact episode ID matches
// - Re-uploads (normalized title + same audio URL)
type DuplicateEpisodeFilter struct{}

func (f *DuplicateEpisodeFilter) Name() string {
	return "duplicate_episode_filter"
}

func (f *DuplicateEpisodeFilter) Description() string {
	return "Drops episodes already in the listing (same ID, or same title and audio URL)"
}

func (f *DuplicateEpisodeFilter) ReturnCodes() []string {
	return []string{"duplicate_episode"}
}

func (f *DuplicateEpisodeFilter) ValidateConfig(settings map[string]any) error {
	// No configuration needed
	return nil
}

func (f *DuplicateEpisodeFilter) Check(ctx context.Context, ep episode.Episode, batch *Batch) Result {
	if batch.HasID(ep.ID) {
		return Reject("duplicate_episode")
	}
	title := normalizeTitle(ep.Title)
	for _, accepted := range batch.Accepted() {
		if accepted.URL == ep.URL && normalizeTitle(accepted.Title) == title {
			return Reject("duplicate_episode")
		}
	}
	return Accept()
}

var (
	reuploadSuffix = regexp.MustCompile(`(?i)\s*[\(\[](reupload|re-upload|reprise|repost)[\)\]]\s*$`)
	spaces         = regexp.MustCompile(`\s+`)
)

// normalizeTitle lowercases the title, drops re-upload markers and collapses spaces.
func normalizeTitle(title string) string {
	t := reuploadSuffix.ReplaceAllString(title, "")
	t = spaces.ReplaceAllString(strings.TrimSpace(t), " ")
	return strings.ToLower(t)
}

func init() {
	Register("duplicate_episode_filter", func() Filter {
		return &DuplicateEpisodeFilter{}
	})
}
