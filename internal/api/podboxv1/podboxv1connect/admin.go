package podboxv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
)

// AdminServiceName is the fully-qualified name of the AdminService service.
const AdminServiceName = "podbox.v1.AdminService"

// Procedure paths of AdminService.
const (
	AdminServiceGetStatusProcedure = "/podbox.v1.AdminService/GetStatus"
	AdminServiceRefreshProcedure   = "/podbox.v1.AdminService/Refresh"
)

// AdminServiceHandler is implemented by the admin service.
type AdminServiceHandler interface {
	GetStatus(context.Context, *connect.Request[podboxv1.Empty]) (*connect.Response[podboxv1.GetStatusResponse], error)
	Refresh(context.Context, *connect.Request[podboxv1.Empty]) (*connect.Response[podboxv1.RefreshResponse], error)
}

// NewAdminServiceHandler builds an HTTP handler from the service implementation.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{podboxv1.WithCodec()}, opts...)

	handlers := map[string]http.Handler{
		AdminServiceGetStatusProcedure: connect.NewUnaryHandler(AdminServiceGetStatusProcedure, svc.GetStatus, opts...),
		AdminServiceRefreshProcedure:   connect.NewUnaryHandler(AdminServiceRefreshProcedure, svc.Refresh, opts...),
	}
	return "/" + AdminServiceName + "/", routeByPath(handlers)
}

// AdminServiceClient is a client for the podbox.v1.AdminService service.
type AdminServiceClient interface {
	GetStatus(context.Context, *connect.Request[podboxv1.Empty]) (*connect.Response[podboxv1.GetStatusResponse], error)
	Refresh(context.Context, *connect.Request[podboxv1.Empty]) (*connect.Response[podboxv1.RefreshResponse], error)
}

type adminServiceClient struct {
	getStatus *connect.Client[podboxv1.Empty, podboxv1.GetStatusResponse]
	refresh   *connect.Client[podboxv1.Empty, podboxv1.RefreshResponse]
}

// NewAdminServiceClient constructs a client for the podbox.v1.AdminService service.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AdminServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{podboxv1.WithCodec()}, opts...)
	return &adminServiceClient{
		getStatus: connect.NewClient[podboxv1.Empty, podboxv1.GetStatusResponse](httpClient, baseURL+AdminServiceGetStatusProcedure, opts...),
		refresh:   connect.NewClient[podboxv1.Empty, podboxv1.RefreshResponse](httpClient, baseURL+AdminServiceRefreshProcedure, opts...),
	}
}

func (c *adminServiceClient) GetStatus(ctx context.Context, req *connect.Request[podboxv1.Empty]) (*connect.Response[podboxv1.GetStatusResponse], error) {
	return c.getStatus.CallUnary(ctx, req)
}

func (c *adminServiceClient) Refresh(ctx context.Context, req *connect.Request[podboxv1.Empty]) (*connect.Response[podboxv1.RefreshResponse], error) {
	return c.refresh.CallUnary(ctx, req)
}
