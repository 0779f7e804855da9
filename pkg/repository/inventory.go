package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/WineCellar/pkg/model"
)

const insertBatchSize = 100

type InventoryRepository interface {
	AddBottles(ctx context.Context, accountID uint, cellarID uint, shelfID uint, descriptor model.WineDescriptor, quantity int, entryDate time.Time) ([]*model.InventoryEntry, error)
	GroupInventory(ctx context.Context, cellarID uint) ([]*model.InventoryGroup, error)
	RemoveBottles(ctx context.Context, accountID uint, cellarID uint, selector model.Selector, quantity int) (int, error)
}

// AddBottles checks ownership and capacity with the shelf row locked, in the same transaction as the inserts.
func (r *Repository) AddBottles(ctx context.Context, accountID uint, cellarID uint, shelfID uint, descriptor model.WineDescriptor, quantity int, entryDate time.Time) ([]*model.InventoryEntry, error) {
	var entries []*model.InventoryEntry

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

		if !shelf.CanAdmit(occupancy, quantity) {
			return fmt.Errorf("%w: shelf %d holds %d of %d bottles, %d requested",
				model.ErrCapacityExceeded, shelf.ID, occupancy, *shelf.Capacity, quantity)
		}

		descriptors := make([]*model.WineDescriptor, quantity)
		for i := range descriptors {
			copied := descriptor
			copied.Model = gorm.Model{}
			descriptors[i] = &copied
		}

		if err := tx.CreateInBatches(&descriptors, insertBatchSize).Error; err != nil {
			return err
		}

		entries = make([]*model.InventoryEntry, quantity)
		for i, created := range descriptors {
			entries[i] = &model.InventoryEntry{
				DescriptorID: created.ID,
				ShelfID:      shelf.ID,
				EntryDate:    entryDate,
			}
		}

		return tx.Omit(clause.Associations).CreateInBatches(&entries, insertBatchSize).Error
	})
	if err != nil {
		r.Logger.Error("error adding bottles", zap.Uint("cellar_id", cellarID), zap.Uint("shelf_id", shelfID), zap.Error(err))

		return nil, translate(err)
	}

	return entries, nil
}

func (r *Repository) RemoveBottles(ctx context.Context, accountID uint, cellarID uint, selector model.Selector, quantity int) (int, error) {
	removed := 0

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := verifyOwner(tx, cellarID, accountID); err != nil {
			return err
		}

		entries, err := selectEntries(tx, cellarID, selector, quantity)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		ids := make([]uint, len(entries))
		for i, entry := range entries {
			ids[i] = entry.ID
		}

		result := tx.Delete(&model.InventoryEntry{}, ids)
		removed = int(result.RowsAffected)

		return result.Error
	})
	if err != nil {
		return 0, translate(err)
	}

	return removed, nil
}

func (r *Repository) GroupInventory(ctx context.Context, cellarID uint) ([]*model.InventoryGroup, error) {
	var groups []*model.InventoryGroup

	result := r.DB.WithContext(ctx).Table("inventory_entries ie").
		Select("wd.producer, wd.name, wd.type, wd.year, wd.region, wd.label_image, s.name as shelf_name, count(*) as quantity").
		Joins("INNER JOIN wine_descriptors wd on wd.id = ie.descriptor_id").
		Joins("INNER JOIN shelves s on s.id = ie.shelf_id").
		Where("s.cellar_id = ?", cellarID).
		Where("ie.deleted_at is null").
		Group("wd.producer, wd.name, wd.type, wd.year, wd.region, wd.label_image, s.name").
		Order("wd.name, wd.year, s.name").
		Scan(&groups)
	if result.Error != nil {
		r.Logger.Error("error grouping inventory", zap.Uint("cellar_id", cellarID), zap.Error(result.Error))

		return nil, translate(result.Error)
	}

	return groups, nil
}

func selectEntries(db *gorm.DB, cellarID uint, selector model.Selector, limit int) ([]*model.InventoryEntry, error) {
	var entries []*model.InventoryEntry

	query := db.Model(&model.InventoryEntry{}).
		Select("inventory_entries.*").
		Joins("INNER JOIN wine_descriptors wd on wd.id = inventory_entries.descriptor_id").
		Joins("INNER JOIN shelves s on s.id = inventory_entries.shelf_id").
		Where("s.cellar_id = ?", cellarID)

	if selector.DescriptorID != nil {
		query = query.Where("wd.id = ?", *selector.DescriptorID)
	} else {
		query = matchCharacteristics(query, *selector.Characteristics)
	}

	result := query.Order("inventory_entries.id").Limit(limit).Find(&entries)

	return entries, result.Error
}

// A nil region only matches NULL.
func matchCharacteristics(db *gorm.DB, characteristics model.Characteristics) *gorm.DB {
	db = db.Where("wd.producer = ? AND wd.name = ? AND wd.type = ? AND wd.year = ?",
		characteristics.Producer, characteristics.Name, characteristics.Type, characteristics.Year)

	if characteristics.Region == nil {
		return db.Where("wd.region IS NULL")
	}

	return db.Where("wd.region = ?", *characteristics.Region)
}
