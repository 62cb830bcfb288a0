package connect

import (
	"context"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
	"github.com/osa030/podbox/internal/api/podboxv1/podboxv1connect"
	"github.com/osa030/podbox/internal/app/notification"
	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/app/session"
	"github.com/osa030/podbox/internal/domain/listing"
)

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	session *session.Manager
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(session *session.Manager) *PlayerService {
	return &PlayerService{session: session}
}

// Ensure PlayerService implements the interface.
var _ podboxv1connect.PlayerServiceHandler = (*PlayerService)(nil)

// ListEpisodes returns the latest and all sections, plus matches for a query.
func (s *PlayerService) ListEpisodes(
	ctx context.Context,
	req *connect.Request[podboxv1.ListEpisodesRequest],
) (*connect.Response[podboxv1.ListEpisodesResponse], error) {
	list, err := s.session.ListEpisodes(req.Msg.Query)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&podboxv1.ListEpisodesResponse{
		Latest:        toEpisodes(list.Listing.Latest),
		All:           toEpisodes(list.Listing.All),
		Matches:       toMatches(list.Matches),
		CatalogStatus: list.Catalog.Status.String(),
	}), nil
}

// PlayEpisode starts an episode chosen by id or by section and index.
func (s *PlayerService) PlayEpisode(
	ctx context.Context,
	req *connect.Request[podboxv1.PlayEpisodeRequest],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	if req.Msg.EpisodeId != "" {
		return playerResponse(s.session.PlayEpisodeByID(ctx, req.Msg.EpisodeId))
	}

	section, err := listing.ParseSection(req.Msg.Section)
	if err != nil {
		return nil, toConnectError(errors.Mark(err, errInvalidArgument))
	}
	return playerResponse(s.session.PlayEpisode(section, int(req.Msg.Index)))
}

// TogglePlay toggles play/pause.
func (s *PlayerService) TogglePlay(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.TogglePlay())
}

// Next advances to the next episode.
func (s *PlayerService) Next(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.Next())
}

// Previous goes back one episode.
func (s *PlayerService) Previous(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.Previous())
}

// ToggleShuffle toggles shuffle mode.
func (s *PlayerService) ToggleShuffle(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.ToggleShuffle())
}

// ToggleLoop toggles loop mode.
func (s *PlayerService) ToggleLoop(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.ToggleLoop())
}

// Seek moves the playback position.
func (s *PlayerService) Seek(
	ctx context.Context,
	req *connect.Request[podboxv1.SeekRequest],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.Seek(int(req.Msg.Seconds)))
}

// Clear empties the queue.
func (s *PlayerService) Clear(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.Clear())
}

// GetPlayer returns the current player state.
func (s *PlayerService) GetPlayer(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.PlayerResponse], error) {
	return playerResponse(s.session.GetView(), nil)
}

// SubscribePlayer streams the current state followed by every change.
func (s *PlayerService) SubscribePlayer(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
	stream *connect.ServerStream[podboxv1.Notification],
) error {
	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID, err := s.session.Subscribe(adapter)
	if err != nil {
		return toConnectError(err)
	}
	defer s.session.Unsubscribe(subscriptionID)
	// The stream must not be written after the handler returns.
	defer adapter.close()

	select {
	case <-ctx.Done():
	case <-s.session.Done():
	}
	return nil
}

func playerResponse(view player.View, err error) (*connect.Response[podboxv1.PlayerResponse], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&podboxv1.PlayerResponse{Player: toPlayerState(view)}), nil
}

// errStreamClosed is returned by sends after the subscription handler returned.
var errStreamClosed = errors.New("stream closed")

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
// ServerStream is not safe for concurrent sends.
type notificationStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[podboxv1.Notification]
	closed bool
}

func (a *notificationStreamAdapter) Send(n *notification.Notification) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errStreamClosed
	}
	return a.stream.Send(toNotification(n))
}

// close waits for an in-flight send and rejects later ones.
func (a *notificationStreamAdapter) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}
