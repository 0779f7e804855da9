package model

import (
	"time"

	"gorm.io/gorm"
)

type Cellar struct {
	gorm.Model
	Name    string
	OwnerID uint `gorm:"index"`
	Shelves []Shelf

	Owner Account `gorm:"foreignKey:OwnerID"`
}

// Shelf is a storage unit of a cellar. A nil Capacity means the shelf is unlimited.
type Shelf struct {
	gorm.Model
	Name     string
	Capacity *int64
	CellarID uint `gorm:"index"`
}

func (Shelf) TableName() string {
	return "shelves"
}

// CanAdmit reports whether quantity more bottles fit next to occupancy live ones.
func (s Shelf) CanAdmit(occupancy int64, quantity int) bool {
	if s.Capacity == nil {
		return true
	}

	return *s.Capacity-occupancy >= int64(quantity)
}

// InventoryEntry is one physical bottle currently stored on a shelf.
type InventoryEntry struct {
	gorm.Model
	DescriptorID uint      `gorm:"index"`
	ShelfID      uint      `gorm:"index"`
	EntryDate    time.Time `gorm:"type:date"`

	Descriptor WineDescriptor `gorm:"foreignKey:DescriptorID"`
	Shelf      Shelf          `gorm:"foreignKey:ShelfID"`
}

type ShelfOccupancy struct {
	ShelfID   uint
	Name      string
	Capacity  *int64
	Occupancy int64
}

// InventoryGroup is a counted set of interchangeable bottles on one shelf.
type InventoryGroup struct {
	Producer   string
	Name       string
	Type       WineType
	Year       int
	Region     *string
	LabelImage *string
	ShelfName  string
	Quantity   int64
}
