package repository_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/repository"
)

type RepositorySuite struct {
	suite.Suite
	DB           *gorm.DB
	mock         sqlmock.Sqlmock
	observedLogs *observer.ObservedLogs
	repository   repository.Repository
}

func (suite *RepositorySuite) SetupTest() {
	var (
		db              *sql.DB
		err             error
		observedZapCore zapcore.Core
	)

	observedZapCore, suite.observedLogs = observer.New(zap.InfoLevel)
	observedLogger := zap.New(observedZapCore)

	db, suite.mock, err = sqlmock.New()
	suite.Require().NoError(err)

	gormLogger := zapgorm2.New(observedLogger)
	gormLogger.SetAsDefault()

	suite.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{Logger: gormLogger})
	suite.NoError(err)

	suite.repository = repository.Repository{DB: suite.DB, Logger: observedLogger}
}

// openSQLite returns a migrated repository backed by a database file in a temporary directory.
func openSQLite(t *testing.T) *repository.Repository {
	t.Helper()

	conf := &configs.Config{DB: configs.DB{Driver: configs.DriverSQLite, Path: filepath.Join(t.TempDir(), "cellar.db")}}

	repo, err := repository.Open(conf, zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(repo.DB))

	t.Cleanup(repo.Close)

	return repo
}

func TestOpen_UnknownDriver(t *testing.T) {
	conf := &configs.Config{DB: configs.DB{Driver: "oracle"}}

	_, err := repository.Open(conf, zaptest.NewLogger(t))
	require.ErrorIs(t, err, configs.ErrConfiguration)
}

func TestOpen_PostgresRequiresHost(t *testing.T) {
	conf := &configs.Config{DB: configs.DB{Driver: configs.DriverPostgres, Password: "secret"}}

	_, err := repository.Open(conf, zaptest.NewLogger(t))
	require.ErrorIs(t, err, configs.ErrConfiguration)
}

func TestMigrate_CreatesTables(t *testing.T) {
	repo := openSQLite(t)

	for _, table := range []string{"accounts", "cellars", "shelves", "wine_descriptors", "inventory_entries", "archive_entries"} {
		require.True(t, repo.DB.Migrator().HasTable(table), table)
	}
}
