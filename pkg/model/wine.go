package model

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type WineType string

const (
	Red       WineType = "Red"
	White     WineType = "White"
	Rose      WineType = "Rosé"
	Sparkling WineType = "Sparkling"
)

var WineTypes = []WineType{Red, White, Rose, Sparkling}

// ParseWineType accepts the canonical names case-insensitively, plus "Rose" without the accent.
func ParseWineType(value string) (WineType, error) {
	trimmed := strings.TrimSpace(value)

	for _, wineType := range WineTypes {
		if strings.EqualFold(trimmed, string(wineType)) {
			return wineType, nil
		}
	}

	if strings.EqualFold(trimmed, "rose") {
		return Rose, nil
	}

	return "", fmt.Errorf("%w: unknown wine type %q", ErrValidation, value)
}

// WineDescriptor is the immutable catalog record of one physical bottle.
type WineDescriptor struct {
	gorm.Model
	Producer   string
	Name       string
	Type       WineType
	Year       int
	Region     *string
	LabelImage *string
	Price      *float64
}

func (d WineDescriptor) Characteristics() Characteristics {
	return Characteristics{
		Producer: d.Producer,
		Name:     d.Name,
		Type:     d.Type,
		Year:     d.Year,
		Region:   d.Region,
	}
}

// Characteristics is the tuple bottles are matched and grouped by. A nil Region only matches
// descriptors without a region.
type Characteristics struct {
	Producer string
	Name     string
	Type     WineType
	Year     int
	Region   *string
}

func (c Characteristics) Validate() error {
	if strings.TrimSpace(c.Producer) == "" {
		return fmt.Errorf("%w: producer is required", ErrValidation)
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	if _, err := ParseWineType(string(c.Type)); err != nil {
		return err
	}

	if c.Year <= 0 {
		return fmt.Errorf("%w: invalid year %d", ErrValidation, c.Year)
	}

	return nil
}

// Selector picks inventory entries either by descriptor id or by characteristics.
type Selector struct {
	DescriptorID    *uint
	Characteristics *Characteristics
}

func (s Selector) Validate() error {
	switch {
	case s.DescriptorID != nil && s.Characteristics != nil:
		return fmt.Errorf("%w: selector must use either a descriptor id or characteristics", ErrValidation)
	case s.DescriptorID != nil:
		if *s.DescriptorID == 0 {
			return fmt.Errorf("%w: invalid descriptor id", ErrValidation)
		}

		return nil
	case s.Characteristics != nil:
		return s.Characteristics.Validate()
	default:
		return fmt.Errorf("%w: empty selector", ErrValidation)
	}
}
