package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/WineCellar/pkg/model"
)

type CellarRepository interface {
	AddCellar(ctx context.Context, ownerID uint, name string) (*model.Cellar, error)
	AddShelf(ctx context.Context, accountID uint, cellarID uint, name string, capacity *int64) (*model.Shelf, error)
	CanAdmit(ctx context.Context, shelfID uint, quantity int) (bool, error)
	GetAllCellars(ctx context.Context) ([]*model.Cellar, error)
	GetCellarByID(ctx context.Context, cellarID uint) (*model.Cellar, error)
	GetCellarsForAccount(ctx context.Context, accountID uint) ([]*model.Cellar, error)
	GetShelfOccupancy(ctx context.Context, shelfID uint) (int64, error)
	GetShelvesWithOccupancy(ctx context.Context, cellarID uint) ([]*model.ShelfOccupancy, error)
	RemoveShelf(ctx context.Context, accountID uint, cellarID uint, shelfID uint) error
}

func (r *Repository) AddCellar(ctx context.Context, ownerID uint, name string) (*model.Cellar, error) {
	cellar := model.Cellar{
		Name:    name,
		OwnerID: ownerID,
	}

	if result := r.DB.WithContext(ctx).Omit(clause.Associations).Create(&cellar); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &cellar, nil
}

func (r *Repository) GetCellarsForAccount(ctx context.Context, accountID uint) ([]*model.Cellar, error) {
	var cellars []*model.Cellar

	result := r.DB.WithContext(ctx).Where("cellars.owner_id = ?", accountID).
		Joins("Owner").
		Preload("Shelves").
		Order("cellars.id").
		Find(&cellars)
	if result.Error != nil {
		r.Logger.Error("error getting cellars for account", zap.Uint("account_id", accountID), zap.Error(result.Error))

		return nil, translate(result.Error)
	}

	return cellars, nil
}

func (r *Repository) GetAllCellars(ctx context.Context) ([]*model.Cellar, error) {
	var cellars []*model.Cellar

	result := r.DB.WithContext(ctx).
		Joins("Owner").
		Order("cellars.id").
		Find(&cellars)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return cellars, nil
}

func (r *Repository) GetCellarByID(ctx context.Context, cellarID uint) (*model.Cellar, error) {
	var cellar model.Cellar

	result := r.DB.WithContext(ctx).
		Joins("Owner").
		Preload("Shelves").
		First(&cellar, cellarID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return &cellar, nil
}

func (r *Repository) AddShelf(ctx context.Context, accountID uint, cellarID uint, name string, capacity *int64) (*model.Shelf, error) {
	shelf := model.Shelf{
		Name:     name,
		Capacity: capacity,
		CellarID: cellarID,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyOwner(tx, cellarID, accountID); err != nil {
			return err
		}

		return tx.Create(&shelf).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return &shelf, nil
}

func (r *Repository) RemoveShelf(ctx context.Context, accountID uint, cellarID uint, shelfID uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyOwner(tx, cellarID, accountID); err != nil {
			return err
		}

		shelf, err := lockShelf(tx, cellarID, shelfID)
		if err != nil {
			return err
		}

		occupancy, err := countOccupancy(tx, shelf.ID)
		if err != nil {
			return err
		}

		if occupancy > 0 {
			return fmt.Errorf("%w: shelf %d holds %d bottles", model.ErrNotEmpty, shelf.ID, occupancy)
		}

		return tx.Delete(shelf).Error
	})

	return translate(err)
}

func (r *Repository) GetShelfOccupancy(ctx context.Context, shelfID uint) (int64, error) {
	occupancy, err := countOccupancy(r.DB.WithContext(ctx), shelfID)

	return occupancy, translate(err)
}

// CanAdmit is an advisory check. AddBottles repeats it under the shelf lock.
func (r *Repository) CanAdmit(ctx context.Context, shelfID uint, quantity int) (bool, error) {
	var shelf model.Shelf

	db := r.DB.WithContext(ctx)

	if result := db.First(&shelf, shelfID); result.Error != nil {
		return false, translate(result.Error)
	}

	occupancy, err := countOccupancy(db, shelfID)
	if err != nil {
		return false, translate(err)
	}

	return shelf.CanAdmit(occupancy, quantity), nil
}

func (r *Repository) GetShelvesWithOccupancy(ctx context.Context, cellarID uint) ([]*model.ShelfOccupancy, error) {
	var shelves []*model.ShelfOccupancy

	result := r.DB.WithContext(ctx).Table("shelves s").
		Select("s.id as shelf_id, s.name, s.capacity, count(ie.id) as occupancy").
		Joins("LEFT JOIN inventory_entries ie on ie.shelf_id = s.id and ie.deleted_at is null").
		Where("s.cellar_id = ?", cellarID).
		Where("s.deleted_at is null").
		Group("s.id, s.name, s.capacity").
		Order("s.id").
		Scan(&shelves)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return shelves, nil
}

func verifyOwner(tx *gorm.DB, cellarID uint, accountID uint) error {
	var cellar model.Cellar

	if result := tx.Select("id", "owner_id").First(&cellar, cellarID); result.Error != nil {
		return translate(result.Error)
	}

	if cellar.OwnerID != accountID {
		return fmt.Errorf("%w: cellar %d is not owned by account %d", model.ErrUnauthorized, cellarID, accountID)
	}

	return nil
}

func lockShelf(tx *gorm.DB, cellarID uint, shelfID uint) (*model.Shelf, error) {
	var shelf model.Shelf

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&shelf, shelfID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	if shelf.CellarID != cellarID {
		return nil, fmt.Errorf("%w: shelf %d does not belong to cellar %d", model.ErrValidation, shelfID, cellarID)
	}

	return &shelf, nil
}

func countOccupancy(db *gorm.DB, shelfID uint) (int64, error) {
	var occupancy int64

	result := db.Model(&model.InventoryEntry{}).Where("shelf_id = ?", shelfID).Count(&occupancy)

	return occupancy, result.Error
}
