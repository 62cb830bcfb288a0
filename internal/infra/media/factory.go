package media

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/app/player"
)

// Config selects a media backend.
type Config struct {
	Type     string
	Settings map[string]any
}

// NewFactory creates the media factory for the configured backend.
func NewFactory(cfg Config) (player.MediaFactory, error) {
	switch cfg.Type {
	case "clock", "":
		f, err := NewClockFactory(cfg.Settings)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create clock media backend")
		}
		zlog.Info().Msgf("media backend: type=clock tick=%dms speed=%.2f", f.config.TickMs, f.config.Speed)
		return f, nil
	default:
		return nil, errors.Newf("unsupported media backend: %s", cfg.Type)
	}
}
