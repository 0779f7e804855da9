package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"go.openly.dev/pointy"
	"gorm.io/gorm"

	"droscher.com/WineCellar/pkg/model"
)

type CellarTestSuite struct {
	RepositorySuite
}

func TestCellarTestSuite(t *testing.T) {
	suite.Run(t, new(CellarTestSuite))
}

func (suite *CellarTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *CellarTestSuite) expectOwner(cellarID uint, ownerID uint) {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","owner_id" FROM "cellars" WHERE "cellars"."id" = $1 AND "cellars"."deleted_at" IS NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).AddRow(cellarID, ownerID))
}

// expectLockedShelf answers the FOR UPDATE shelf lookup. capacity is an int64 or nil.
func (suite *CellarTestSuite) expectLockedShelf(shelfID uint, cellarID uint, capacity any) {
	suite.mock.ExpectQuery(`SELECT \* FROM "shelves" WHERE "shelves"\."id" = \$1 AND "shelves"\."deleted_at" IS NULL (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "cellar_id"}).AddRow(shelfID, "Rack A", capacity, cellarID))
}

func (suite *CellarTestSuite) expectOccupancy(occupancy int64) {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "inventory_entries" WHERE shelf_id = $1 AND "inventory_entries"."deleted_at" IS NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(occupancy))
}

func (suite *CellarTestSuite) TestAddCellar_AddsCellar() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "cellars" ("created_at","updated_at","deleted_at","name","owner_id") VALUES ($1,$2,$3,$4,$5) RETURNING "id"`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, "Home", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("10"))
	suite.mock.ExpectCommit()

	result, err := suite.repository.AddCellar(context.Background(), 100, "Home")
	suite.Require().NoError(err)
	suite.Equal(uint(10), result.ID)
	suite.Equal("Home", result.Name)
	suite.Equal(uint(100), result.OwnerID)
}

func (suite *CellarTestSuite) TestAddCellar_StoreFailureIsStorageError() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("^INSERT INTO (.+)").WillReturnError(gorm.ErrInvalidData)
	suite.mock.ExpectRollback()

	result, err := suite.repository.AddCellar(context.Background(), 100, "Home")
	suite.Nil(result)
	suite.Require().ErrorIs(err, model.ErrStorage)
	suite.Require().ErrorIs(err, gorm.ErrInvalidData)
}

func (suite *CellarTestSuite) TestGetCellarByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM "cellars" LEFT JOIN "accounts" "Owner" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	result, err := suite.repository.GetCellarByID(context.Background(), 7)
	suite.Nil(result)
	suite.Require().ErrorIs(err, model.ErrNotFound)
}

func (suite *CellarTestSuite) TestGetCellarsForAccount_LogsFailure() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM "cellars"`).WillReturnError(errors.New("connection reset"))

	result, err := suite.repository.GetCellarsForAccount(context.Background(), 100)
	suite.Nil(result)
	suite.Require().ErrorIs(err, model.ErrStorage)
	suite.Equal(1, suite.observedLogs.FilterMessage("error getting cellars for account").Len())
}

func (suite *CellarTestSuite) TestAddShelf_RejectsOtherOwner() {
	suite.mock.ExpectBegin()
	suite.expectOwner(10, 100)
	suite.mock.ExpectRollback()

	result, err := suite.repository.AddShelf(context.Background(), 200, 10, "Rack A", pointy.Int64(6))
	suite.Nil(result)
	suite.Require().ErrorIs(err, model.ErrUnauthorized)
}

func (suite *CellarTestSuite) TestRemoveShelf_NotEmpty() {
	suite.mock.ExpectBegin()
	suite.expectOwner(10, 100)
	suite.expectLockedShelf(5, 10, int64(6))
	suite.expectOccupancy(2)
	suite.mock.ExpectRollback()

	err := suite.repository.RemoveShelf(context.Background(), 100, 10, 5)
	suite.Require().ErrorIs(err, model.ErrNotEmpty)
}

func (suite *CellarTestSuite) TestRemoveShelf_SoftDeletesEmptyShelf() {
	suite.mock.ExpectBegin()
	suite.expectOwner(10, 100)
	suite.expectLockedShelf(5, 10, nil)
	suite.expectOccupancy(0)
	suite.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "shelves" SET "deleted_at"=$1 WHERE "shelves"."id" = $2 AND "shelves"."deleted_at" IS NULL`)).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	suite.Require().NoError(suite.repository.RemoveShelf(context.Background(), 100, 10, 5))
}

func (suite *CellarTestSuite) TestAddBottles_CapacityExceeded() {
	suite.mock.ExpectBegin()
	suite.expectOwner(10, 100)
	suite.expectLockedShelf(5, 10, int64(2))
	suite.expectOccupancy(2)
	suite.mock.ExpectRollback()

	descriptor := model.WineDescriptor{Producer: "Château Talbot", Name: "Saint-Julien", Type: model.Red, Year: 2015}

	entries, err := suite.repository.AddBottles(context.Background(), 100, 10, 5, descriptor, 1, today())
	suite.Nil(entries)
	suite.Require().ErrorIs(err, model.ErrCapacityExceeded)
	suite.Equal(1, suite.observedLogs.FilterMessage("error adding bottles").Len())
}

func (suite *CellarTestSuite) TestAddBottles_ShelfOfAnotherCellar() {
	suite.mock.ExpectBegin()
	suite.expectOwner(10, 100)
	suite.expectLockedShelf(5, 11, nil)
	suite.mock.ExpectRollback()

	descriptor := model.WineDescriptor{Producer: "Château Talbot", Name: "Saint-Julien", Type: model.Red, Year: 2015}

	_, err := suite.repository.AddBottles(context.Background(), 100, 10, 5, descriptor, 1, today())
	suite.Require().ErrorIs(err, model.ErrValidation)
}

func (suite *CellarTestSuite) expectLockedEntry(entryID uint, descriptorID uint) {
	suite.mock.ExpectQuery(`SELECT \* FROM "inventory_entries" WHERE id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "descriptor_id", "shelf_id", "entry_date"}).AddRow(entryID, descriptorID, 5, today()))
}

func (suite *CellarTestSuite) TestArchiveBottles_KeepsBottlesArchivedBeforeFailure() {
	suite.expectOwner(10, 100)
	suite.mock.ExpectQuery(`SELECT inventory_entries\.\* FROM "inventory_entries" INNER JOIN wine_descriptors wd (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "descriptor_id", "shelf_id", "entry_date"}).
			AddRow(21, 7, 5, today()).
			AddRow(22, 7, 5, today()))

	suite.mock.ExpectBegin()
	suite.expectOwner(10, 100)
	suite.expectLockedEntry(21, 7)
	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "archive_entries"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	suite.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inventory_entries" SET "deleted_at"=$1 WHERE "inventory_entries"."id" = $2`)).
		WithArgs(sqlmock.AnyArg(), 21).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	suite.mock.ExpectBegin()
	suite.expectOwner(10, 100)
	suite.mock.ExpectQuery(`SELECT \* FROM "inventory_entries" WHERE id = (.+) FOR UPDATE`).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	review := model.Review{Rating: pointy.Float64(4), ArchivedOn: today()}
	selector := model.Selector{DescriptorID: pointy.Uint(7)}

	archived, err := suite.repository.ArchiveBottles(context.Background(), 100, 10, selector, 2, review)
	suite.Equal(1, archived)
	suite.Require().ErrorIs(err, model.ErrStorage)
	suite.Equal(1, suite.observedLogs.FilterMessage("error archiving bottle").Len())
}
