package server

import (
	"net/http"

	"github.com/bufbuild/connect-go"
	grpchealth "github.com/bufbuild/connect-grpchealth-go"
	"go.uber.org/zap"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/auth"
	"droscher.com/WineCellar/pkg/cellar"
)

var ServiceNames = []string{AccountServiceName, CellarServiceName, ReviewServiceName}

// NewMux mounts every service behind the auth interceptor together with the gRPC health check.
func NewMux(authManager *auth.Manager, service *cellar.Service, conf *configs.Config, logger *zap.Logger) *http.ServeMux {
	options := []connect.HandlerOption{
		WithJSON(),
		connect.WithInterceptors(authManager.GrpcAuthInterceptor()),
	}

	mux := http.NewServeMux()

	mux.Handle(NewAccountServiceHandler(NewAccountServer(authManager, logger), options...))
	mux.Handle(NewCellarServiceHandler(NewCellarServer(service, conf, logger), options...))
	mux.Handle(NewReviewServiceHandler(NewReviewServer(service, logger), options...))

	checker := grpchealth.NewStaticChecker(ServiceNames...)
	mux.Handle(grpchealth.NewHandler(checker))

	return mux
}
