package configs

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/kkyr/fig"
	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type DB struct {
	Driver             string `default:"sqlite"`
	Path               string `default:"winecellar.db"`
	Host               string
	Port               int    `default:"5432"`
	User               string `default:"postgres"`
	Password           string
	Database           string `default:"postgres"`
	MaxIdleConnections int    `default:"10"`
	MaxOpenConnections int    `default:"10"`
}

type Server struct {
	Port           int      `default:"8080"`
	AllowedOrigins []string `default:"*"`
}

type Integrations struct {
	Wine []string `default:"jsonld_web"`
}

type Auth struct {
	SecretKey string        `validate:"required"`
	Issuer    string        `default:"winecellar"`
	TokenTTL  time.Duration `default:"24h"`
}

type S3 struct {
	Bucket    string
	Region    string `default:"us-east-1"`
	Endpoint  string
	AccessKey string
	SecretKey string
}

type Storage struct {
	Backend        string `default:"local"`
	Directory      string `default:"labels"`
	MaxUploadBytes int64  `default:"16777216"`
	S3             S3
}

type Config struct {
	DB           DB
	Server       Server
	Integrations Integrations
	Auth         Auth
	Storage      Storage
}

const envPrefix = "WINECELLAR" // env prefix for env vars

var ErrConfiguration = errors.New("configuration error")

func GetConfig(configFileName string, logger *zap.Logger) (*Config, error) {
	config := Config{}
	homeDir, _ := os.UserHomeDir()

	logger.Info("Loading config", zap.String("file", configFileName))

	err := fig.Load(&config, fig.File(configFileName), fig.Dirs(".", homeDir), fig.UseEnv(envPrefix))
	if err != nil {
		if strings.Contains(err.Error(), "file not found") {
			logger.Warn("Could not find config file", zap.String("file", configFileName))

			err = fig.Load(&config, fig.IgnoreFile(), fig.UseEnv(envPrefix))
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	return &config, nil
}
