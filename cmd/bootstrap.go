package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/auth"
	"droscher.com/WineCellar/pkg/cellar"
	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/repository"
	"droscher.com/WineCellar/pkg/storage"
)

const tokenFilePerm = 0o600

type app struct {
	conf    *configs.Config
	logger  *zap.Logger
	repo    *repository.Repository
	auth    *auth.Manager
	service *cellar.Service
}

// newCLILogger builds the development logger used by commands. Only warnings are shown unless
// debug is set.
func newCLILogger(debug bool) *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	if !debug {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger, err := logConfig.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

// newApp loads the configuration and opens the store. Label storage is only set up for the
// commands that upload labels.
func newApp(ctx *Context, withLabels bool) (*app, error) {
	logger := newCLILogger(ctx.Debug)

	conf, err := configs.GetConfig(ctx.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return nil, err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	var labels storage.Store

	if withLabels {
		labels, err = storage.NewStore(context.Background(), conf.Storage, logger)
		if err != nil {
			repo.Close()

			return nil, err
		}
	}

	return &app{
		conf:    conf,
		logger:  logger,
		repo:    repo,
		auth:    auth.NewAuthManager(conf.Auth, repo, logger),
		service: cellar.NewService(repo, repo, repo, labels, logger),
	}, nil
}

func (a *app) Close() {
	a.repo.Close()
	_ = a.logger.Sync()
}

// Session resolves the account of owner-scoped commands from a token flag, the environment or
// the token file written by login.
type Session struct {
	Token     string `env:"WINECELLAR_TOKEN"         help:"Session token, defaults to the one saved by login"`
	TokenFile string `default:"~/.WineCellar.token" help:"File the login token is saved to" type:"path"`
}

var ErrNotLoggedIn = fmt.Errorf("%w: not logged in, run login first", model.ErrAuthenticationFailed)

func (s *Session) account(ctx context.Context, a *app) (*model.Account, error) {
	token := strings.TrimSpace(s.Token)

	if token == "" {
		data, err := os.ReadFile(s.TokenFile)
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}

		if err != nil {
			return nil, fmt.Errorf("reading token file: %w", err)
		}

		token = strings.TrimSpace(string(data))
	}

	if token == "" {
		return nil, ErrNotLoggedIn
	}

	return a.auth.Authenticate(ctx, token)
}

func (s *Session) save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.TokenFile), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	if err := os.WriteFile(s.TokenFile, []byte(token+"\n"), tokenFilePerm); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	return nil
}
