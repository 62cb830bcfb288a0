package filter

import (
	"context"
	"net/url"
	"strings"

	"github.com/osa030/podbox/internal/domain/episode"
)

// PlayableFilter rejects episodes without an ID or a usable audio URL.
type PlayableFilter struct{}

func (f *PlayableFilter) Name() string {
	return "playable_filter"
}

func (f *PlayableFilter) Description() string {
	return "Drops episodes without an ID or an http(s) audio URL (always enabled)"
}

func (f *PlayableFilter) ReturnCodes() []string {
	return []string{"missing_id", "missing_url"}
}

func (f *PlayableFilter) ValidateConfig(settings map[string]any) error {
	// No configuration needed
	return nil
}

func (f *PlayableFilter) Check(ctx context.Context, ep episode.Episode, batch *Batch) Result {
	if strings.TrimSpace(ep.ID) == "" {
		return Reject("missing_id")
	}
	u, err := url.Parse(ep.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Reject("missing_url")
	}
	return Accept()
}

func init() {
	Register("playable_filter", func() Filter {
		return &PlayableFilter{}
	})
}
