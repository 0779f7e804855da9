package cellar

import (
	"fmt"
	"sort"
	"strings"

	"droscher.com/WineCellar/pkg/model"
)

type SortField string

const (
	SortByName     SortField = "name"
	SortByProducer SortField = "producer"
	SortByType     SortField = "type"
	SortByYear     SortField = "year"
	SortByRegion   SortField = "region"
	SortByQuantity SortField = "quantity"
	SortByShelf    SortField = "shelf"
)

var SortFields = []SortField{SortByName, SortByProducer, SortByType, SortByYear, SortByRegion, SortByQuantity, SortByShelf}

// Sort orders inventory groups. The zero value keeps the order the ledger returns.
type Sort struct {
	Field      SortField
	Descending bool
}

// ParseSort reads a field name and an order of "asc" or "desc". An empty field sorts by name.
func ParseSort(field string, order string) (Sort, error) {
	var result Sort

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		result.Descending = true
	default:
		return Sort{}, fmt.Errorf("%w: unknown sort order %q", model.ErrValidation, order)
	}

	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		result.Field = SortByName

		return result, nil
	}

	for _, known := range SortFields {
		if field == string(known) {
			result.Field = known

			return result, nil
		}
	}

	return Sort{}, fmt.Errorf("%w: unknown sort field %q", model.ErrValidation, field)
}

// Apply sorts groups in place. Ties keep their relative order in both directions.
func (s Sort) Apply(groups []*model.InventoryGroup) {
	less := s.less()
	if less == nil {
		return
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if s.Descending {
			return less(groups[j], groups[i])
		}

		return less(groups[i], groups[j])
	})
}

func (s Sort) less() func(a, b *model.InventoryGroup) bool {
	switch s.Field {
	case SortByName:
		return func(a, b *model.InventoryGroup) bool { return a.Name < b.Name }
	case SortByProducer:
		return func(a, b *model.InventoryGroup) bool { return a.Producer < b.Producer }
	case SortByType:
		return func(a, b *model.InventoryGroup) bool { return a.Type < b.Type }
	case SortByYear:
		return func(a, b *model.InventoryGroup) bool { return a.Year < b.Year }
	case SortByRegion:
		return func(a, b *model.InventoryGroup) bool { return region(a) < region(b) }
	case SortByQuantity:
		return func(a, b *model.InventoryGroup) bool { return a.Quantity < b.Quantity }
	case SortByShelf:
		return func(a, b *model.InventoryGroup) bool { return a.ShelfName < b.ShelfName }
	default:
		return nil
	}
}

// region sorts a missing region like an empty one.
func region(group *model.InventoryGroup) string {
	if group.Region == nil {
		return ""
	}

	return *group.Region
}
