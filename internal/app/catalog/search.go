package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/osa030/podbox/internal/domain/episode"
	"github.com/osa030/podbox/internal/domain/listing"
)

// Score thresholds (raw fzf scores)
const (
	ScoreThresholdStrict     = 70
	ScoreThresholdNormal     = 50
	ScoreThresholdPermissive = 30
	ScoreThresholdNone       = 0
)

var initAlgo sync.Once

// Match is a search result.
type Match struct {
	Episode episode.Episode
	Index   int // Index in the ordered listing
	Score   int
}

// Search fuzzy matches query against episode titles and members of the
// current listing. An empty query returns every episode in listing order.
func (c *Catalog) Search(query string) ([]Match, error) {
	l, err := c.Listing()
	if err != nil {
		return nil, err
	}
	return c.SearchListing(l, query), nil
}

// SearchListing is Search over l. Match indexes refer to l.Ordered().
func (c *Catalog) SearchListing(l listing.Listing, query string) []Match {
	ordered := l.Ordered()

	query = strings.TrimSpace(query)
	if query == "" {
		matches := make([]Match, len(ordered))
		for i, ep := range ordered {
			matches[i] = Match{Episode: ep, Index: i}
		}
		return matches
	}

	initAlgo.Do(func() { algo.Init("default") })

	pattern := []rune(strings.ToLower(query))
	slab := util.MakeSlab(16384, 1024)

	matches := make([]Match, 0)
	for i, ep := range ordered {
		score := bestScore(pattern, slab, ep.Title, ep.Members)
		if score <= 0 || score < c.config.MinScore {
			continue
		}
		matches = append(matches, Match{Episode: ep, Index: i, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func bestScore(pattern []rune, slab *util.Slab, fields ...string) int {
	best := 0
	for _, field := range fields {
		if field == "" {
			continue
		}
		chars := util.ToChars([]byte(field))
		result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
		if int(result.Score) > best {
			best = int(result.Score)
		}
	}
	return best
}
