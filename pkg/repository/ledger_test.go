package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"

	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/repository"
)

func today() time.Time {
	now := time.Now().UTC()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type ledgerFixture struct {
	repo   *repository.Repository
	owner  *model.Account
	cellar *model.Cellar
	shelf  *model.Shelf
}

func newLedgerFixture(t *testing.T, capacity *int64) ledgerFixture {
	t.Helper()

	ctx := context.Background()
	repo := openSQLite(t)

	owner, err := repo.AddAccount(ctx, "Doe", "Jane", "hash")
	require.NoError(t, err)

	cellar, err := repo.AddCellar(ctx, owner.ID, "Home")
	require.NoError(t, err)

	shelf, err := repo.AddShelf(ctx, owner.ID, cellar.ID, "Rack A", capacity)
	require.NoError(t, err)

	return ledgerFixture{repo: repo, owner: owner, cellar: cellar, shelf: shelf}
}

func (f ledgerFixture) add(t *testing.T, descriptor model.WineDescriptor, quantity int) {
	t.Helper()

	_, err := f.repo.AddBottles(context.Background(), f.owner.ID, f.cellar.ID, f.shelf.ID, descriptor, quantity, today())
	require.NoError(t, err)
}

func riesling() model.WineDescriptor {
	return model.WineDescriptor{Producer: "Dönnhoff", Name: "Hermannshöhle", Type: model.White, Year: 2019, Region: pointy.String("Nahe")}
}

func TestAddBottles_ConcurrentAdmissionsNeverExceedCapacity(t *testing.T) {
	const attempts = 8

	f := newLedgerFixture(t, pointy.Int64(3))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.repo.AddBottles(context.Background(), f.owner.ID, f.cellar.ID, f.shelf.ID, riesling(), 1, today())

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				admitted++
			case errors.Is(err, model.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 3, admitted)
	assert.Equal(t, attempts-3, rejected)

	occupancy, err := f.repo.GetShelfOccupancy(context.Background(), f.shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), occupancy)
}

func TestAddBottles_OneDescriptorPerBottle(t *testing.T) {
	f := newLedgerFixture(t, nil)

	entries, err := f.repo.AddBottles(context.Background(), f.owner.ID, f.cellar.ID, f.shelf.ID, riesling(), 3, today())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	seen := map[uint]bool{}
	for _, entry := range entries {
		assert.False(t, seen[entry.DescriptorID])
		seen[entry.DescriptorID] = true
	}

	var descriptors int64
	require.NoError(t, f.repo.DB.Model(&model.WineDescriptor{}).Count(&descriptors).Error)
	assert.Equal(t, int64(3), descriptors)
}

func TestGroupInventory_CountsLiveEntriesPerShelf(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, nil)

	second, err := f.repo.AddShelf(ctx, f.owner.ID, f.cellar.ID, "Rack B", nil)
	require.NoError(t, err)

	f.add(t, riesling(), 3)

	_, err = f.repo.AddBottles(ctx, f.owner.ID, f.cellar.ID, second.ID, riesling(), 2, today())
	require.NoError(t, err)

	other := riesling()
	other.Region = nil
	f.add(t, other, 1)

	removed, err := f.repo.RemoveBottles(ctx, f.owner.ID, f.cellar.ID, model.Selector{Characteristics: &model.Characteristics{
		Producer: "Dönnhoff", Name: "Hermannshöhle", Type: model.White, Year: 2019, Region: pointy.String("Nahe"),
	}}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	groups, err := f.repo.GroupInventory(ctx, f.cellar.ID)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	total := int64(0)
	for _, group := range groups {
		total += group.Quantity
	}

	assert.Equal(t, int64(5), total)
	assert.Equal(t, "Rack A", groups[0].ShelfName)
}

func TestArchiveBottles_MovesBottleToReviews(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, nil)
	f.add(t, riesling(), 1)

	characteristics := riesling().Characteristics()
	review := model.Review{Rating: pointy.Float64(4), Comment: pointy.String("Slate and peach"), ArchivedOn: today()}

	archived, err := f.repo.ArchiveBottles(ctx, f.owner.ID, f.cellar.ID, model.Selector{Characteristics: &characteristics}, 1, review)
	require.NoError(t, err)
	assert.Equal(t, 1, archived)

	groups, err := f.repo.GroupInventory(ctx, f.cellar.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	reviews, err := f.repo.ReviewDetail(ctx, characteristics)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Slate and peach", *reviews[0].Comment)
}

func TestArchiveBottles_OtherAccountIsUnauthorized(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, nil)
	f.add(t, riesling(), 1)

	stranger, err := f.repo.AddAccount(ctx, "Roe", "Richard", "hash")
	require.NoError(t, err)

	characteristics := riesling().Characteristics()

	archived, err := f.repo.ArchiveBottles(ctx, stranger.ID, f.cellar.ID, model.Selector{Characteristics: &characteristics}, 1, model.Review{ArchivedOn: today()})
	require.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Equal(t, 0, archived)
}

func TestReviewSummary_AveragesOnlyRatedReviews(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, nil)
	f.add(t, riesling(), 3)

	characteristics := riesling().Characteristics()
	selector := model.Selector{Characteristics: &characteristics}

	for _, rating := range []*float64{pointy.Float64(3), pointy.Float64(4), nil} {
		_, err := f.repo.ArchiveBottles(ctx, f.owner.ID, f.cellar.ID, selector, 1, model.Review{Rating: rating, ArchivedOn: today()})
		require.NoError(t, err)
	}

	summary, err := f.repo.ReviewSummary(ctx, characteristics)
	require.NoError(t, err)
	require.NotNil(t, summary.AverageRating)
	assert.InDelta(t, 3.5, *summary.AverageRating, 0.0001)
	assert.Equal(t, int64(3), summary.ReviewCount)
}

func TestReviewDetail_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, nil)
	f.add(t, riesling(), 3)

	characteristics := riesling().Characteristics()
	selector := model.Selector{Characteristics: &characteristics}
	earlier := today().AddDate(0, 0, -3)

	for _, review := range []model.Review{
		{Comment: pointy.String("old"), ArchivedOn: earlier},
		{Comment: pointy.String("first today"), ArchivedOn: today()},
		{Comment: pointy.String("second today"), ArchivedOn: today()},
	} {
		_, err := f.repo.ArchiveBottles(ctx, f.owner.ID, f.cellar.ID, selector, 1, review)
		require.NoError(t, err)
	}

	reviews, err := f.repo.ReviewDetail(ctx, characteristics)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "second today", *reviews[0].Comment)
	assert.Equal(t, "first today", *reviews[1].Comment)
	assert.Equal(t, "old", *reviews[2].Comment)
}

func TestRemoveShelf_KeepsOccupiedShelf(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, pointy.Int64(4))
	f.add(t, riesling(), 1)

	require.ErrorIs(t, f.repo.RemoveShelf(ctx, f.owner.ID, f.cellar.ID, f.shelf.ID), model.ErrNotEmpty)

	shelves, err := f.repo.GetShelvesWithOccupancy(ctx, f.cellar.ID)
	require.NoError(t, err)
	require.Len(t, shelves, 1)
	assert.Equal(t, int64(1), shelves[0].Occupancy)
	assert.Equal(t, int64(4), *shelves[0].Capacity)
}

func TestFindAccountsByIdentity_ReturnsAllHomonyms(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	for i := 0; i < 2; i++ {
		_, err := repo.AddAccount(ctx, "Doe", "Jane", "hash")
		require.NoError(t, err)
	}

	accounts, err := repo.FindAccountsByIdentity(ctx, "Doe", "Jane")
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	_, err = repo.GetAccountByID(ctx, 42)
	require.ErrorIs(t, err, model.ErrNotFound)
}
