package model

import (
	"time"

	"gorm.io/gorm"
)

// ArchiveEntry records a bottle retired from a cellar together with its review.
type ArchiveEntry struct {
	gorm.Model
	DescriptorID uint      `gorm:"index"`
	AccountID    uint      `gorm:"index"`
	ArchivedOn   time.Time `gorm:"type:date"`
	Rating       *float64
	Comment      *string

	Descriptor WineDescriptor `gorm:"foreignKey:DescriptorID"`
}

type ReviewSummary struct {
	AverageRating *float64
	ReviewCount   int64
}

type Review struct {
	Rating     *float64
	Comment    *string
	ArchivedOn time.Time
}

type CommunityWine struct {
	Producer      string
	Name          string
	Type          WineType
	Year          int
	Region        *string
	LabelImage    *string
	AverageRating *float64
	ReviewCount   int64
}
