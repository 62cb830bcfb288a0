package connect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
	"github.com/osa030/podbox/internal/api/podboxv1/podboxv1connect"
	"github.com/osa030/podbox/internal/app/catalog"
	"github.com/osa030/podbox/internal/app/notification"
	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/app/session"
	"github.com/osa030/podbox/internal/domain/episode"
	"github.com/osa030/podbox/internal/infra/episodeapi"
)

const testToken = "secret"

type staticSource struct {
	episodes []episode.Episode
	err      error
}

func (s *staticSource) FetchEpisodes(ctx context.Context) ([]episode.Episode, error) {
	return s.episodes, s.err
}

type nopElement struct{}

func (nopElement) Play() error          { return nil }
func (nopElement) Pause() error         { return nil }
func (nopElement) Seek(int) error       { return nil }
func (nopElement) CurrentTime() float64 { return 0 }
func (nopElement) SetLoop(bool)         {}
func (nopElement) Close() error         { return nil }

var nopFactory = player.MediaFactoryFunc(func(ep episode.Episode, events player.MediaEvents) (player.MediaElement, error) {
	return &nopElement{}, nil
})

func testEpisodes() []episode.Episode {
	return []episode.Episode{
		{ID: "e5", Title: "Carreira", URL: "https://cdn/e5.mp3", Duration: 300, DurationAsString: "00:05:00"},
		{ID: "e4", Title: "Go no Backend", URL: "https://cdn/e4.mp3", Duration: 200, DurationAsString: "00:03:20"},
		{ID: "e3", Title: "Testes", URL: "https://cdn/e3.mp3", Duration: 100, DurationAsString: "00:01:40"},
		{ID: "e2", Title: "APIs", URL: "https://cdn/e2.mp3", Duration: 50, DurationAsString: "00:00:50"},
	}
}

type testServer struct {
	player  podboxv1connect.PlayerServiceClient
	admin   podboxv1connect.AdminServiceClient
	session *session.Manager
	url     string
}

func newTestServer(t *testing.T, src *staticSource, refresh bool) *testServer {
	t.Helper()

	cat := catalog.New(src, catalog.Config{LatestCount: 2})
	if refresh {
		require.NoError(t, cat.Refresh(context.Background()))
	}
	sess := session.NewManager(cat, nopFactory, session.Config{})

	mux := http.NewServeMux()
	mux.Handle(podboxv1connect.NewPlayerServiceHandler(NewPlayerService(sess)))
	mux.Handle(podboxv1connect.NewAdminServiceHandler(
		NewAdminService(sess),
		connect.WithInterceptors(NewAdminAuthInterceptor(testToken)),
	))

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		sess.Close()
		srv.Close()
	})

	return &testServer{
		player:  podboxv1connect.NewPlayerServiceClient(srv.Client(), srv.URL),
		admin:   podboxv1connect.NewAdminServiceClient(srv.Client(), srv.URL),
		session: sess,
		url:     srv.URL,
	}
}

func empty() *connect.Request[podboxv1.Empty] {
	return connect.NewRequest(&podboxv1.Empty{})
}

func TestPlayerService_ListEpisodes(t *testing.T) {
	ts := newTestServer(t, &staticSource{episodes: testEpisodes()}, true)

	resp, err := ts.player.ListEpisodes(context.Background(), connect.NewRequest(&podboxv1.ListEpisodesRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Latest, 2)
	require.Len(t, resp.Msg.All, 2)
	assert.Equal(t, "e5", resp.Msg.Latest[0].Id)
	assert.Equal(t, "00:01:40", resp.Msg.All[0].DurationAsString)
	assert.Equal(t, "ready", resp.Msg.CatalogStatus)
	assert.Empty(t, resp.Msg.Matches)

	resp, err = ts.player.ListEpisodes(context.Background(), connect.NewRequest(&podboxv1.ListEpisodesRequest{Query: "backend"}))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Msg.Matches)
	assert.Equal(t, "e4", resp.Msg.Matches[0].Episode.Id)
	assert.Equal(t, int32(1), resp.Msg.Matches[0].Index)
}

func TestPlayerService_PlayEpisode(t *testing.T) {
	ts := newTestServer(t, &staticSource{episodes: testEpisodes()}, true)
	ctx := context.Background()

	resp, err := ts.player.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{Section: "all", Index: 1}))
	require.NoError(t, err)
	st := resp.Msg.Player
	assert.Equal(t, int32(3), st.ActiveIndex)
	assert.Equal(t, int32(4), st.QueueLength)
	assert.Equal(t, "playing", st.Status)
	assert.Equal(t, "e2", st.Episode.Id)
	assert.True(t, st.Controls.Previous.Enabled)
	assert.False(t, st.Controls.Next.Enabled)

	resp, err = ts.player.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{EpisodeId: "e4"}))
	require.NoError(t, err)
	assert.Equal(t, int32(1), resp.Msg.Player.QueueLength)
	assert.Equal(t, "e4", resp.Msg.Player.Episode.Id)
}

func TestPlayerService_Controls(t *testing.T) {
	ts := newTestServer(t, &staticSource{episodes: testEpisodes()}, true)
	ctx := context.Background()

	_, err := ts.player.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{Section: "latest", Index: 0}))
	require.NoError(t, err)

	resp, err := ts.player.Next(ctx, empty())
	require.NoError(t, err)
	assert.Equal(t, int32(1), resp.Msg.Player.ActiveIndex)

	resp, err = ts.player.Previous(ctx, empty())
	require.NoError(t, err)
	assert.Equal(t, int32(0), resp.Msg.Player.ActiveIndex)

	resp, err = ts.player.TogglePlay(ctx, empty())
	require.NoError(t, err)
	assert.Equal(t, "paused", resp.Msg.Player.Status)

	resp, err = ts.player.ToggleShuffle(ctx, empty())
	require.NoError(t, err)
	assert.True(t, resp.Msg.Player.Controls.Shuffle.Active)

	resp, err = ts.player.ToggleLoop(ctx, empty())
	require.NoError(t, err)
	assert.True(t, resp.Msg.Player.Controls.Loop.Active)

	resp, err = ts.player.Seek(ctx, connect.NewRequest(&podboxv1.SeekRequest{Seconds: 3725}))
	require.NoError(t, err)
	assert.Equal(t, int32(300), resp.Msg.Player.Progress)
	assert.Equal(t, "00:05:00", resp.Msg.Player.ElapsedLabel)

	resp, err = ts.player.GetPlayer(ctx, empty())
	require.NoError(t, err)
	assert.Equal(t, "e5", resp.Msg.Player.Episode.Id)

	resp, err = ts.player.Clear(ctx, empty())
	require.NoError(t, err)
	assert.True(t, resp.Msg.Player.Idle)
	assert.Equal(t, "00:00", resp.Msg.Player.DurationLabel)
}

func TestPlayerService_ErrorCodes(t *testing.T) {
	ts := newTestServer(t, &staticSource{episodes: testEpisodes()}, true)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{
			name: "unknown section",
			call: func() error {
				_, err := ts.player.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{Section: "middle"}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "index out of range",
			call: func() error {
				_, err := ts.player.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{Section: "latest", Index: 7}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown episode",
			call: func() error {
				_, err := ts.player.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{EpisodeId: "nope"}))
				return err
			},
			want: connect.CodeNotFound,
		},
		{
			name: "previous while idle",
			call: func() error {
				_, err := ts.player.Previous(ctx, empty())
				return err
			},
			want: connect.CodeFailedPrecondition,
		},
		{
			name: "seek while idle",
			call: func() error {
				_, err := ts.player.Seek(ctx, connect.NewRequest(&podboxv1.SeekRequest{Seconds: 5}))
				return err
			},
			want: connect.CodeFailedPrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.want, connect.CodeOf(err))
		})
	}
}

func TestPlayerService_CatalogUnavailable(t *testing.T) {
	ts := newTestServer(t, &staticSource{err: errors.New("offline")}, false)

	_, err := ts.player.ListEpisodes(context.Background(), connect.NewRequest(&podboxv1.ListEpisodesRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
}

func TestPlayerService_SubscribePlayer(t *testing.T) {
	ts := newTestServer(t, &staticSource{episodes: testEpisodes()}, true)
	ts.session.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := ts.player.SubscribePlayer(ctx, empty())
	require.NoError(t, err)
	defer stream.Close()

	require.True(t, stream.Receive(), "initial state: %v", stream.Err())
	initial := stream.Msg()
	assert.Equal(t, podboxv1.NotificationTypePlayerChanged, initial.Type)
	assert.True(t, initial.Player.Idle)

	_, err = ts.player.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{Section: "latest", Index: 1}))
	require.NoError(t, err)

	updated := false
	for !updated && stream.Receive() {
		n := stream.Msg()
		if n.Player != nil && n.Player.Episode != nil && n.Player.Episode.Id == "e4" {
			assert.Greater(t, n.SequenceNo, initial.SequenceNo)
			updated = true
		}
	}
	require.True(t, updated, "stream ended without update: %v", stream.Err())

	// Cancelling the call ends the handler and drops the subscription.
	cancel()
	assert.Eventually(t, func() bool {
		return ts.session.GetStatus().SubscriberCount == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationStreamAdapter_SendAfterClose(t *testing.T) {
	adapter := &notificationStreamAdapter{}
	adapter.close()

	err := adapter.Send(&notification.Notification{Type: notification.TypePlayerChanged})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStreamClosed))
}

func TestAdminService_Auth(t *testing.T) {
	ts := newTestServer(t, &staticSource{episodes: testEpisodes()}, true)
	ctx := context.Background()

	_, err := ts.admin.GetStatus(ctx, empty())
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	req := empty()
	req.Header().Set(AdminTokenHeader, "wrong")
	_, err = ts.admin.GetStatus(ctx, req)
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestAdminService_GetStatusAndRefresh(t *testing.T) {
	ts := newTestServer(t, &staticSource{episodes: testEpisodes()}, true)
	ctx := context.Background()

	req := empty()
	req.Header().Set(AdminTokenHeader, testToken)
	resp, err := ts.admin.GetStatus(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.SessionId)
	assert.Equal(t, "ready", resp.Msg.CatalogStatus)
	assert.Equal(t, int32(4), resp.Msg.EpisodeCount)
	assert.Equal(t, int32(650), resp.Msg.TotalDuration)
	assert.Equal(t, "00:10:50", resp.Msg.TotalDurationStr)
	assert.True(t, resp.Msg.Player.Idle)
	assert.NotEmpty(t, resp.Msg.CatalogUpdatedAt)

	req = empty()
	req.Header().Set(AdminTokenHeader, testToken)
	refresh, err := ts.admin.Refresh(ctx, req)
	require.NoError(t, err)
	assert.True(t, refresh.Msg.Success)
	assert.Equal(t, int32(4), refresh.Msg.EpisodeCount)
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{errors.Wrap(catalog.ErrNotReady, "listing"), connect.CodeUnavailable},
		{session.ErrSessionClosed, connect.CodeUnavailable},
		{errors.Wrap(player.ErrControlDisabled, "next"), connect.CodeFailedPrecondition},
		{player.ErrNoEpisode, connect.CodeFailedPrecondition},
		{errors.Wrapf(session.ErrEpisodeNotFound, "id=%s", "x"), connect.CodeNotFound},
		{errors.Wrap(episodeapi.ErrNotFound, "GET /episodes/x"), connect.CodeNotFound},
		{errors.Mark(errors.New("bad"), errInvalidArgument), connect.CodeInvalidArgument},
		{errors.New("boom"), connect.CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, connect.CodeOf(toConnectError(tt.err)), tt.err.Error())
	}
	assert.NoError(t, toConnectError(nil))
}
