package server

import (
	"context"
	"net/http"

	"github.com/bufbuild/connect-go"
	"go.uber.org/zap"

	"droscher.com/WineCellar/pkg/auth"
)

type AccountServer struct {
	authManager *auth.Manager
	logger      *zap.Logger
}

func NewAccountServer(authManager *auth.Manager, logger *zap.Logger) *AccountServer {
	return &AccountServer{authManager: authManager, logger: logger}
}

// NewAccountServiceHandler mounts the account procedures. Neither needs a session token.
func NewAccountServiceHandler(svc *AccountServer, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(AccountServiceRegisterProcedure, connect.NewUnaryHandler(AccountServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AccountServiceLoginProcedure, connect.NewUnaryHandler(AccountServiceLoginProcedure, svc.Login, opts...))

	return "/" + AccountServiceName + "/", mux
}

func (a *AccountServer) Register(ctx context.Context, request *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	account, err := a.authManager.Register(ctx, request.Msg.Name, request.Msg.FirstName, request.Msg.Secret)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&RegisterResponse{Account: AccountFromModel(account)}), nil
}

func (a *AccountServer) Login(ctx context.Context, request *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	token, account, err := a.authManager.Login(ctx, request.Msg.Name, request.Msg.FirstName, request.Msg.Secret)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&LoginResponse{Token: token, Account: AccountFromModel(account)}), nil
}
