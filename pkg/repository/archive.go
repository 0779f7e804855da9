package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"droscher.com/WineCellar/pkg/model"
)

type ArchiveRepository interface {
	ArchiveBottles(ctx context.Context, accountID uint, cellarID uint, selector model.Selector, quantity int, review model.Review) (int, error)
	CommunityOverview(ctx context.Context) ([]*model.CommunityWine, error)
	ReviewDetail(ctx context.Context, characteristics model.Characteristics) ([]*model.Review, error)
	ReviewSummary(ctx context.Context, characteristics model.Characteristics) (*model.ReviewSummary, error)
}

// ArchiveBottles uses one transaction per bottle and returns the count archived before a failure.
func (r *Repository) ArchiveBottles(ctx context.Context, accountID uint, cellarID uint, selector model.Selector, quantity int, review model.Review) (int, error) {
	db := r.DB.WithContext(ctx)

	if err := verifyOwner(db, cellarID, accountID); err != nil {
		return 0, err
	}

	candidates, err := selectEntries(db, cellarID, selector, quantity)
	if err != nil {
		return 0, translate(err)
	}

	archived := 0

	for _, candidate := range candidates {
		moved := false

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := verifyOwner(tx, cellarID, accountID); err != nil {
				return err
			}

			var entry model.InventoryEntry

			result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", candidate.ID).
				Limit(1).
				Find(&entry)
			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				return nil
			}

			archiveEntry := model.ArchiveEntry{
				DescriptorID: entry.DescriptorID,
				AccountID:    accountID,
				ArchivedOn:   review.ArchivedOn,
				Rating:       review.Rating,
				Comment:      review.Comment,
			}

			if err := tx.Omit(clause.Associations).Create(&archiveEntry).Error; err != nil {
				return err
			}

			if err := tx.Delete(&entry).Error; err != nil {
				return err
			}

			moved = true

			return nil
		})
		if err != nil {
			r.Logger.Error("error archiving bottle", zap.Uint("entry_id", candidate.ID), zap.Int("archived", archived), zap.Error(err))

			return archived, translate(err)
		}

		if moved {
			archived++
		}
	}

	return archived, nil
}

func (r *Repository) ReviewSummary(ctx context.Context, characteristics model.Characteristics) (*model.ReviewSummary, error) {
	var summary model.ReviewSummary

	query := r.DB.WithContext(ctx).Table("archive_entries ae").
		Select("avg(ae.rating) as average_rating, count(*) as review_count").
		Joins("INNER JOIN wine_descriptors wd on wd.id = ae.descriptor_id").
		Where("ae.deleted_at is null")

	if result := matchCharacteristics(query, characteristics).Scan(&summary); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &summary, nil
}

func (r *Repository) ReviewDetail(ctx context.Context, characteristics model.Characteristics) ([]*model.Review, error) {
	var reviews []*model.Review

	query := r.DB.WithContext(ctx).Table("archive_entries ae").
		Select("ae.rating, ae.comment, ae.archived_on").
		Joins("INNER JOIN wine_descriptors wd on wd.id = ae.descriptor_id").
		Where("ae.deleted_at is null")

	result := matchCharacteristics(query, characteristics).
		Order("ae.archived_on desc, ae.id desc").
		Scan(&reviews)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return reviews, nil
}

func (r *Repository) CommunityOverview(ctx context.Context) ([]*model.CommunityWine, error) {
	var wines []*model.CommunityWine

	result := r.DB.WithContext(ctx).Table("archive_entries ae").
		Select("wd.producer, wd.name, wd.type, wd.year, wd.region, wd.label_image, avg(ae.rating) as average_rating, count(*) as review_count").
		Joins("INNER JOIN wine_descriptors wd on wd.id = ae.descriptor_id").
		Where("ae.deleted_at is null").
		Group("wd.producer, wd.name, wd.type, wd.year, wd.region, wd.label_image").
		Order("wd.name, wd.year").
		Scan(&wines)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return wines, nil
}
