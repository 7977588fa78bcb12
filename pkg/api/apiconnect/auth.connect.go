package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/payrecord/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "payrecord.v1.AuthService"

const (
	AuthServiceLoginProcedure  = "/payrecord.v1.AuthService/Login"
	AuthServiceWhoAmIProcedure = "/payrecord.v1.AuthService/WhoAmI"
)

// AuthServiceClient is a client for the payrecord.v1.AuthService service.
type AuthServiceClient interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error)
}

// NewAuthServiceClient constructs a client for the payrecord.v1.AuthService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		login:  connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		whoAmI: connect.NewClient[api.WhoAmIRequest, api.WhoAmIResponse](httpClient, baseURL+AuthServiceWhoAmIProcedure, opts...),
	}
}

type authServiceClient struct {
	login  *connect.Client[api.LoginRequest, api.LoginResponse]
	whoAmI *connect.Client[api.WhoAmIRequest, api.WhoAmIResponse]
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) WhoAmI(ctx context.Context, req *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	return c.whoAmI.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of payrecord.v1.AuthService.
type AuthServiceHandler interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	whoAmI := connect.NewUnaryHandler(AuthServiceWhoAmIProcedure, svc.WhoAmI, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceWhoAmIProcedure:
			whoAmI.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("payrecord.v1.AuthService.Login is not implemented"))
}

func (UnimplementedAuthServiceHandler) WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("payrecord.v1.AuthService.WhoAmI is not implemented"))
}
