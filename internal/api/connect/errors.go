package connect

import (
	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/podbox/internal/app/catalog"
	"github.com/osa030/podbox/internal/app/playback"
	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/app/session"
	"github.com/osa030/podbox/internal/domain/listing"
	"github.com/osa030/podbox/internal/infra/episodeapi"
)

// errInvalidArgument marks request validation failures.
var errInvalidArgument = errors.New("invalid argument")

// toConnectError maps application errors to connect error codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	var code connect.Code
	switch {
	case errors.Is(err, errInvalidArgument),
		errors.Is(err, listing.ErrIndexOutOfRange),
		errors.Is(err, playback.ErrIndexOutOfRange):
		code = connect.CodeInvalidArgument
	case errors.Is(err, session.ErrEpisodeNotFound),
		errors.Is(err, episodeapi.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, player.ErrNoEpisode),
		errors.Is(err, player.ErrControlDisabled):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, catalog.ErrNotReady),
		errors.Is(err, session.ErrSessionClosed):
		code = connect.CodeUnavailable
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
