package connect

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"

	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
	"github.com/osa030/podbox/internal/api/podboxv1/podboxv1connect"
	"github.com/osa030/podbox/internal/app/session"
	"github.com/osa030/podbox/internal/domain/episode"
)

// AdminService implements the AdminService RPC.
type AdminService struct {
	session *session.Manager
}

// NewAdminService creates a new AdminService.
func NewAdminService(session *session.Manager) *AdminService {
	return &AdminService{session: session}
}

// Ensure AdminService implements the interface.
var _ podboxv1connect.AdminServiceHandler = (*AdminService)(nil)

// GetStatus returns the current session status.
func (s *AdminService) GetStatus(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.GetStatusResponse], error) {
	status := s.session.GetStatus()

	resp := &podboxv1.GetStatusResponse{
		SessionId:        status.SessionID,
		StartedAt:        status.StartedAt.Format(time.RFC3339),
		CatalogStatus:    status.Catalog.Status.String(),
		EpisodeCount:     int32(status.Catalog.EpisodeCount),
		TotalDuration:    int32(status.Catalog.TotalDuration),
		TotalDurationStr: episode.FormatDuration(status.Catalog.TotalDuration),
		SubscriberCount:  int32(status.SubscriberCount),
		Player:           toPlayerState(status.Player),
		Queue:            toEpisodes(status.Queue),
	}
	if status.Catalog.Err != nil {
		resp.CatalogError = status.Catalog.Err.Error()
	}
	if !status.Catalog.UpdatedAt.IsZero() {
		resp.CatalogUpdatedAt = status.Catalog.UpdatedAt.Format(time.RFC3339)
	}

	return connect.NewResponse(resp), nil
}

// Refresh reloads the episode catalog.
func (s *AdminService) Refresh(
	ctx context.Context,
	req *connect.Request[podboxv1.Empty],
) (*connect.Response[podboxv1.RefreshResponse], error) {
	if err := s.session.Refresh(ctx); err != nil {
		zlog.Warn().Err(err).Msg("admin: refresh failed")
		return connect.NewResponse(&podboxv1.RefreshResponse{
			Success: false,
			Message: err.Error(),
		}), nil
	}

	count := s.session.GetStatus().Catalog.EpisodeCount
	return connect.NewResponse(&podboxv1.RefreshResponse{
		Success:      true,
		Message:      fmt.Sprintf("Catalog refreshed (%d episodes)", count),
		EpisodeCount: int32(count),
	}), nil
}
