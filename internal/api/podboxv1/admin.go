package podboxv1

type GetStatusResponse struct {
	SessionId        string       `json:"sessionId"`
	StartedAt        string       `json:"startedAt"`
	CatalogStatus    string       `json:"catalogStatus"`
	CatalogError     string       `json:"catalogError,omitempty"`
	CatalogUpdatedAt string       `json:"catalogUpdatedAt,omitempty"`
	EpisodeCount     int32        `json:"episodeCount"`
	TotalDuration    int32        `json:"totalDuration"`
	TotalDurationStr string       `json:"totalDurationAsString"`
	SubscriberCount  int32        `json:"subscriberCount"`
	Player           *PlayerState `json:"player"`
	Queue            []*Episode   `json:"queue"`
}

type RefreshResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EpisodeCount int32  `json:"episodeCount"`
}
