package podboxv1

// Episode is one podcast episode.
type Episode struct {
	Id               string `json:"id"`
	Title            string `json:"title"`
	Members          string `json:"members,omitempty"`
	Thumbnail        string `json:"thumbnail,omitempty"`
	Description      string `json:"description,omitempty"`
	Duration         int32  `json:"duration"`
	DurationAsString string `json:"durationAsString"`
	Url              string `json:"url"`
	PublishedAt      string `json:"publishedAt,omitempty"`
}

// Button is the rendered state of a transport button.
type Button struct {
	Enabled bool `json:"enabled"`
	Active  bool `json:"active"`
}

// Controls holds the transport buttons.
type Controls struct {
	Shuffle   *Button `json:"shuffle"`
	Previous  *Button `json:"previous"`
	PlayPause *Button `json:"playPause"`
	Next      *Button `json:"next"`
	Loop      *Button `json:"loop"`
}

// PlayerState is the player as shown to clients.
type PlayerState struct {
	Idle          bool      `json:"idle"`
	Episode       *Episode  `json:"episode,omitempty"`
	Status        string    `json:"status"`
	QueueLength   int32     `json:"queueLength"`
	ActiveIndex   int32     `json:"activeIndex"`
	Progress      int32     `json:"progress"`
	Duration      int32     `json:"duration"`
	ElapsedLabel  string    `json:"elapsedLabel"`
	DurationLabel string    `json:"durationLabel"`
	Controls      *Controls `json:"controls"`
}

// Empty is used by procedures without arguments.
type Empty struct{}

type ListEpisodesRequest struct {
	Query string `json:"query,omitempty"`
}

type EpisodeMatch struct {
	Episode *Episode `json:"episode"`
	Index   int32    `json:"index"` // Position in latest followed by all
	Score   int32    `json:"score"`
}

type ListEpisodesResponse struct {
	Latest        []*Episode      `json:"latest"`
	All           []*Episode      `json:"all"`
	Matches       []*EpisodeMatch `json:"matches,omitempty"`
	CatalogStatus string          `json:"catalogStatus"`
}

// PlayEpisodeRequest selects an episode either by section and index or by id.
type PlayEpisodeRequest struct {
	Section   string `json:"section,omitempty"`
	Index     int32  `json:"index"`
	EpisodeId string `json:"episodeId,omitempty"`
}

type SeekRequest struct {
	Seconds int32 `json:"seconds"`
}

// PlayerResponse is returned by every player control.
type PlayerResponse struct {
	Player *PlayerState `json:"player"`
}

// Notification types
const (
	NotificationTypePlayerChanged    = "PLAYER_CHANGED"
	NotificationTypeCatalogRefreshed = "CATALOG_REFRESHED"
)

// Notification is streamed by SubscribePlayer.
type Notification struct {
	SequenceNo    uint64       `json:"sequenceNo"`
	Type          string       `json:"type"`
	Player        *PlayerState `json:"player,omitempty"`
	CatalogStatus string       `json:"catalogStatus,omitempty"`
	EpisodeCount  int32        `json:"episodeCount,omitempty"`
}
