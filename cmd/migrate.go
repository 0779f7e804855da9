package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/repository"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

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

	if err := repository.Migrate(repo.DB); err != nil {
		logger.Error("error migrating database", zap.Error(err))

		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	logger.Info("database migrated", zap.String("driver", conf.DB.Driver))

	return nil
}
