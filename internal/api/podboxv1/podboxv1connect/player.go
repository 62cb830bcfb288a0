// Package podboxv1connect wires the podbox.v1 services to connect handlers and clients.
package podboxv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
)

// PlayerServiceName is the fully-qualified name of the PlayerService service.
const PlayerServiceName = "podbox.v1.PlayerService"

// Procedure paths of PlayerService.
const (
	PlayerServiceListEpisodesProcedure    = "/podbox.v1.PlayerService/ListEpisodes"
	PlayerServicePlayEpisodeProcedure     = "/podbox.v1.PlayerService/PlayEpisode"
	PlayerServiceTogglePlayProcedure      = "/podbox.v1.PlayerService/TogglePlay"
	PlayerServiceNextProcedure            = "/podbox.v1.PlayerService/Next"
	PlayerServicePreviousProcedure        = "/podbox.v1.PlayerService/Previous"
	PlayerServiceToggleShuffleProcedure   = "/podbox.v1.PlayerService/ToggleShuffle"
	PlayerServiceToggleLoopProcedure      = "/podbox.v1.PlayerService/ToggleLoop"
	PlayerServiceSeekProcedure            = "/podbox.v1.PlayerService/Seek"
	PlayerServiceClearProcedure           = "/podbox.v1.PlayerService/Clear"
	PlayerServiceGetPlayerProcedure       = "/podbox.v1.PlayerService/GetPlayer"
	PlayerServiceSubscribePlayerProcedure = "/podbox.v1.PlayerService/SubscribePlayer"
)

type (
	listEpisodesRequest  = connect.Request[podboxv1.ListEpisodesRequest]
	listEpisodesResponse = connect.Response[podboxv1.ListEpisodesResponse]
	playEpisodeRequest   = connect.Request[podboxv1.PlayEpisodeRequest]
	seekRequest          = connect.Request[podboxv1.SeekRequest]
	emptyRequest         = connect.Request[podboxv1.Empty]
	playerResponse       = connect.Response[podboxv1.PlayerResponse]
)

// PlayerServiceHandler is implemented by the player service.
type PlayerServiceHandler interface {
	ListEpisodes(context.Context, *listEpisodesRequest) (*listEpisodesResponse, error)
	PlayEpisode(context.Context, *playEpisodeRequest) (*playerResponse, error)
	TogglePlay(context.Context, *emptyRequest) (*playerResponse, error)
	Next(context.Context, *emptyRequest) (*playerResponse, error)
	Previous(context.Context, *emptyRequest) (*playerResponse, error)
	ToggleShuffle(context.Context, *emptyRequest) (*playerResponse, error)
	ToggleLoop(context.Context, *emptyRequest) (*playerResponse, error)
	Seek(context.Context, *seekRequest) (*playerResponse, error)
	Clear(context.Context, *emptyRequest) (*playerResponse, error)
	GetPlayer(context.Context, *emptyRequest) (*playerResponse, error)
	SubscribePlayer(context.Context, *emptyRequest, *connect.ServerStream[podboxv1.Notification]) error
}

// NewPlayerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewPlayerServiceHandler(svc PlayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{podboxv1.WithCodec()}, opts...)

	handlers := map[string]http.Handler{
		PlayerServiceListEpisodesProcedure:    connect.NewUnaryHandler(PlayerServiceListEpisodesProcedure, svc.ListEpisodes, opts...),
		PlayerServicePlayEpisodeProcedure:     connect.NewUnaryHandler(PlayerServicePlayEpisodeProcedure, svc.PlayEpisode, opts...),
		PlayerServiceTogglePlayProcedure:      connect.NewUnaryHandler(PlayerServiceTogglePlayProcedure, svc.TogglePlay, opts...),
		PlayerServiceNextProcedure:            connect.NewUnaryHandler(PlayerServiceNextProcedure, svc.Next, opts...),
		PlayerServicePreviousProcedure:        connect.NewUnaryHandler(PlayerServicePreviousProcedure, svc.Previous, opts...),
		PlayerServiceToggleShuffleProcedure:   connect.NewUnaryHandler(PlayerServiceToggleShuffleProcedure, svc.ToggleShuffle, opts...),
		PlayerServiceToggleLoopProcedure:      connect.NewUnaryHandler(PlayerServiceToggleLoopProcedure, svc.ToggleLoop, opts...),
		PlayerServiceSeekProcedure:            connect.NewUnaryHandler(PlayerServiceSeekProcedure, svc.Seek, opts...),
		PlayerServiceClearProcedure:           connect.NewUnaryHandler(PlayerServiceClearProcedure, svc.Clear, opts...),
		PlayerServiceGetPlayerProcedure:       connect.NewUnaryHandler(PlayerServiceGetPlayerProcedure, svc.GetPlayer, opts...),
		PlayerServiceSubscribePlayerProcedure: connect.NewServerStreamHandler(PlayerServiceSubscribePlayerProcedure, svc.SubscribePlayer, opts...),
	}
	return "/" + PlayerServiceName + "/", routeByPath(handlers)
}

// PlayerServiceClient is a client for the podbox.v1.PlayerService service.
type PlayerServiceClient interface {
	ListEpisodes(context.Context, *listEpisodesRequest) (*listEpisodesResponse, error)
	PlayEpisode(context.Context, *playEpisodeRequest) (*playerResponse, error)
	TogglePlay(context.Context, *emptyRequest) (*playerResponse, error)
	Next(context.Context, *emptyRequest) (*playerResponse, error)
	Previous(context.Context, *emptyRequest) (*playerResponse, error)
	ToggleShuffle(context.Context, *emptyRequest) (*playerResponse, error)
	ToggleLoop(context.Context, *emptyRequest) (*playerResponse, error)
	Seek(context.Context, *seekRequest) (*playerResponse, error)
	Clear(context.Context, *emptyRequest) (*playerResponse, error)
	GetPlayer(context.Context, *emptyRequest) (*playerResponse, error)
	SubscribePlayer(context.Context, *emptyRequest) (*connect.ServerStreamForClient[podboxv1.Notification], error)
}

type playerServiceClient struct {
	listEpisodes    *connect.Client[podboxv1.ListEpisodesRequest, podboxv1.ListEpisodesResponse]
	playEpisode     *connect.Client[podboxv1.PlayEpisodeRequest, podboxv1.PlayerResponse]
	togglePlay      *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse]
	next            *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse]
	previous        *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse]
	toggleShuffle   *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse]
	toggleLoop      *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse]
	seek            *connect.Client[podboxv1.SeekRequest, podboxv1.PlayerResponse]
	clear           *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse]
	getPlayer       *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse]
	subscribePlayer *connect.Client[podboxv1.Empty, podboxv1.Notification]
}

// NewPlayerServiceClient constructs a client for the podbox.v1.PlayerService service.
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PlayerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{podboxv1.WithCodec()}, opts...)

	control := func(procedure string) *connect.Client[podboxv1.Empty, podboxv1.PlayerResponse] {
		return connect.NewClient[podboxv1.Empty, podboxv1.PlayerResponse](httpClient, baseURL+procedure, opts...)
	}

	return &playerServiceClient{
		listEpisodes:    connect.NewClient[podboxv1.ListEpisodesRequest, podboxv1.ListEpisodesResponse](httpClient, baseURL+PlayerServiceListEpisodesProcedure, opts...),
		playEpisode:     connect.NewClient[podboxv1.PlayEpisodeRequest, podboxv1.PlayerResponse](httpClient, baseURL+PlayerServicePlayEpisodeProcedure, opts...),
		togglePlay:      control(PlayerServiceTogglePlayProcedure),
		next:            control(PlayerServiceNextProcedure),
		previous:        control(PlayerServicePreviousProcedure),
		toggleShuffle:   control(PlayerServiceToggleShuffleProcedure),
		toggleLoop:      control(PlayerServiceToggleLoopProcedure),
		seek:            connect.NewClient[podboxv1.SeekRequest, podboxv1.PlayerResponse](httpClient, baseURL+PlayerServiceSeekProcedure, opts...),
		clear:           control(PlayerServiceClearProcedure),
		getPlayer:       control(PlayerServiceGetPlayerProcedure),
		subscribePlayer: connect.NewClient[podboxv1.Empty, podboxv1.Notification](httpClient, baseURL+PlayerServiceSubscribePlayerProcedure, opts...),
	}
}

func (c *playerServiceClient) ListEpisodes(ctx context.Context, req *listEpisodesRequest) (*listEpisodesResponse, error) {
	return c.listEpisodes.CallUnary(ctx, req)
}

func (c *playerServiceClient) PlayEpisode(ctx context.Context, req *playEpisodeRequest) (*playerResponse, error) {
	return c.playEpisode.CallUnary(ctx, req)
}

func (c *playerServiceClient) TogglePlay(ctx context.Context, req *emptyRequest) (*playerResponse, error) {
	return c.togglePlay.CallUnary(ctx, req)
}

func (c *playerServiceClient) Next(ctx context.Context, req *emptyRequest) (*playerResponse, error) {
	return c.next.CallUnary(ctx, req)
}

func (c *playerServiceClient) Previous(ctx context.Context, req *emptyRequest) (*playerResponse, error) {
	return c.previous.CallUnary(ctx, req)
}

func (c *playerServiceClient) ToggleShuffle(ctx context.Context, req *emptyRequest) (*playerResponse, error) {
	return c.toggleShuffle.CallUnary(ctx, req)
}

func (c *playerServiceClient) ToggleLoop(ctx context.Context, req *emptyRequest) (*playerResponse, error) {
	return c.toggleLoop.CallUnary(ctx, req)
}

func (c *playerServiceClient) Seek(ctx context.Context, req *seekRequest) (*playerResponse, error) {
	return c.seek.CallUnary(ctx, req)
}

func (c *playerServiceClient) Clear(ctx context.Context, req *emptyRequest) (*playerResponse, error) {
	return c.clear.CallUnary(ctx, req)
}

func (c *playerServiceClient) GetPlayer(ctx context.Context, req *emptyRequest) (*playerResponse, error) {
	return c.getPlayer.CallUnary(ctx, req)
}

func (c *playerServiceClient) SubscribePlayer(ctx context.Context, req *emptyRequest) (*connect.ServerStreamForClient[podboxv1.Notification], error) {
	return c.subscribePlayer.CallServerStream(ctx, req)
}

func routeByPath(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
