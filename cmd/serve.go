package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/auth"
	"droscher.com/WineCellar/pkg/cellar"
	"droscher.com/WineCellar/pkg/repository"
	"droscher.com/WineCellar/pkg/server"
	"droscher.com/WineCellar/pkg/storage"
)

const (
	timeout    = 5 * time.Second
	corsMaxAge = 86400
)

type ServeCmd struct{}

func (s *ServeCmd) Run(ctx *Context) error {
	logConfig := zap.NewProductionConfig()
	if ctx.Debug {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(ctx.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	labels, err := storage.NewStore(context.Background(), conf.Storage, logger)
	if err != nil {
		logger.Error("error opening label storage", zap.Error(err))

		return err
	}

	authManager := auth.NewAuthManager(conf.Auth, repo, logger)
	service := cellar.NewService(repo, repo, repo, labels, logger)

	mux := server.NewMux(authManager, service, conf, logger)

	address := fmt.Sprintf(":%d", conf.Server.Port)

	// CORS sits inside h2c so preflight requests work over both protocols
	serverHandler := h2c.NewHandler(configureCORS(mux, conf.Server.AllowedOrigins), &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           serverHandler,
	}

	logger.Info("serving", zap.String("address", address), zap.Strings("services", server.ServiceNames))

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

func configureCORS(mux *http.ServeMux, origins []string) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"authorization",
			"connect-accept-encoding",
			"connect-content-encoding",
			"connect-protocol-version",
			"connect-timeout-ms",
			"content-encoding",
			"content-type",
			"grpc-accept-encoding",
			"grpc-encoding",
			"grpc-timeout",
			"user-agent",
			"x-grpc-web",
			"x-user-agent",
		},
		ExposedHeaders: []string{
			"connect-protocol-version",
			"grpc-message",
			"grpc-status",
			"grpc-status-details-bin",
			"winecellar-archived",
		},
		MaxAge: corsMaxAge,
	})

	return corsOpts.Handler(mux)
}
