// Package episode provides the Episode domain entity.
package episode

// Episode represents a podcast episode as shown in the listing and played by the player.
// Values are supplied by the catalog and never mutated by the player.
type Episode struct {
	ID               string // Episode ID from the episodes API
	Title            string // Episode title
	Members          string // Comma separated member names
	Thumbnail        string // Thumbnail image URL
	Description      string // HTML description
	Duration         int    // Duration in seconds
	DurationAsString string // Duration formatted as HH:MM:SS
	URL              string // Playable media URL
	PublishedAt      string // Publication date, preformatted for display
}

// Same reports whether both episodes refer to the same playable media.
func (e *Episode) Same(other *Episode) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.ID == other.ID && e.URL == other.URL
}
