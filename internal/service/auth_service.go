package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/payrecord/internal/auth"
	"github.com/mmynk/payrecord/internal/middleware"
	"github.com/mmynk/payrecord/pkg/api"
	"github.com/mmynk/payrecord/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login signs a user in by name and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	user, err := s.authenticator.Authenticate(ctx, req.Msg.Name)
	if err != nil {
		s.logger.Warn("Login failed", "error", err)
		if errors.Is(err, auth.ErrInvalidName) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user", user.Name, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in", "user", user.Name)
	return connect.NewResponse(&api.LoginResponse{
		User:  &api.User{Name: user.Name},
		Token: token,
	}), nil
}

// WhoAmI returns the user named by the session token.
func (s *AuthService) WhoAmI(ctx context.Context, req *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	name := middleware.GetUserName(ctx)
	if name == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return connect.NewResponse(&api.WhoAmIResponse{User: &api.User{Name: name}}), nil
}
