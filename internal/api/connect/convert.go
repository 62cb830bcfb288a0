package connect

import (
	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
	"github.com/osa030/podbox/internal/app/catalog"
	"github.com/osa030/podbox/internal/app/notification"
	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/domain/episode"
)

func toEpisode(ep *episode.Episode) *podboxv1.Episode {
	if ep == nil {
		return nil
	}
	return &podboxv1.Episode{
		Id:               ep.ID,
		Title:            ep.Title,
		Members:          ep.Members,
		Thumbnail:        ep.Thumbnail,
		Description:      ep.Description,
		Duration:         int32(ep.Duration),
		DurationAsString: ep.DurationAsString,
		Url:              ep.URL,
		PublishedAt:      ep.PublishedAt,
	}
}

func toEpisodes(eps []episode.Episode) []*podboxv1.Episode {
	out := make([]*podboxv1.Episode, len(eps))
	for i := range eps {
		out[i] = toEpisode(&eps[i])
	}
	return out
}

func toMatches(matches []catalog.Match) []*podboxv1.EpisodeMatch {
	if matches == nil {
		return nil
	}
	out := make([]*podboxv1.EpisodeMatch, len(matches))
	for i := range matches {
		out[i] = &podboxv1.EpisodeMatch{
			Episode: toEpisode(&matches[i].Episode),
			Index:   int32(matches[i].Index),
			Score:   int32(matches[i].Score),
		}
	}
	return out
}

func toButton(b player.Button) *podboxv1.Button {
	return &podboxv1.Button{Enabled: b.Enabled, Active: b.Active}
}

func toPlayerState(v player.View) *podboxv1.PlayerState {
	return &podboxv1.PlayerState{
		Idle:          v.Idle,
		Episode:       toEpisode(v.Episode),
		Status:        v.Status.String(),
		QueueLength:   int32(v.QueueLength),
		ActiveIndex:   int32(v.ActiveIndex),
		Progress:      int32(v.Progress),
		Duration:      int32(v.Duration),
		ElapsedLabel:  v.ElapsedLabel,
		DurationLabel: v.DurationLabel,
		Controls: &podboxv1.Controls{
			Shuffle:   toButton(v.Controls.Shuffle),
			Previous:  toButton(v.Controls.Previous),
			PlayPause: toButton(v.Controls.PlayPause),
			Next:      toButton(v.Controls.Next),
			Loop:      toButton(v.Controls.Loop),
		},
	}
}

func toNotification(n *notification.Notification) *podboxv1.Notification {
	out := &podboxv1.Notification{SequenceNo: n.SequenceNo}
	switch n.Type {
	case notification.TypeCatalogRefreshed:
		out.Type = podboxv1.NotificationTypeCatalogRefreshed
		out.CatalogStatus = n.CatalogStatus
		out.EpisodeCount = int32(n.EpisodeCount)
	default:
		out.Type = podboxv1.NotificationTypePlayerChanged
		out.Player = toPlayerState(n.Player)
	}
	return out
}
