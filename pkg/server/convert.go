package server

import (
	"errors"
	"fmt"

	"github.com/bufbuild/connect-go"

	"droscher.com/WineCellar/pkg/cellar"
	"droscher.com/WineCellar/pkg/model"
)

var ErrInvalidInput = errors.New("bad request")

var connectCodes = map[error]connect.Code{
	model.ErrAuthenticationFailed: connect.CodeUnauthenticated,
	model.ErrUnauthorized:         connect.CodePermissionDenied,
	model.ErrValidation:           connect.CodeInvalidArgument,
	model.ErrCapacityExceeded:     connect.CodeResourceExhausted,
	model.ErrNotEmpty:             connect.CodeFailedPrecondition,
	model.ErrNotFound:             connect.CodeNotFound,
	model.ErrStorage:              connect.CodeInternal,
}

// ToConnectError keeps the error kind visible to clients as a connect code.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	if code, ok := connectCodes[model.Kind(err)]; ok {
		return connect.NewError(code, err)
	}

	return connect.NewError(connect.CodeUnknown, err)
}

func AccountFromModel(account *model.Account) *Account {
	if account == nil || account.ID == 0 {
		return nil
	}

	return &Account{ID: uint64(account.ID), Name: account.Name, FirstName: account.FirstName}
}

func CellarsFromModel(cellars []*model.Cellar) []*Cellar {
	results := make([]*Cellar, 0, len(cellars))

	for _, c := range cellars {
		results = append(results, CellarFromModel(c, nil))
	}

	return results
}

// CellarFromModel uses occupancy rows when given, otherwise the preloaded shelves without counts.
func CellarFromModel(c *model.Cellar, occupancy []*model.ShelfOccupancy) *Cellar {
	result := Cellar{ID: uint64(c.ID), Name: c.Name, Owner: AccountFromModel(&c.Owner)}

	if occupancy != nil {
		for _, shelf := range occupancy {
			result.Shelves = append(result.Shelves, &Shelf{
				ID:        uint64(shelf.ShelfID),
				Name:      shelf.Name,
				Capacity:  shelf.Capacity,
				Occupancy: shelf.Occupancy,
			})
		}

		return &result
	}

	for _, shelf := range c.Shelves {
		result.Shelves = append(result.Shelves, ShelfFromModel(&shelf))
	}

	return &result
}

func ShelfFromModel(shelf *model.Shelf) *Shelf {
	return &Shelf{ID: uint64(shelf.ID), Name: shelf.Name, Capacity: shelf.Capacity}
}

func WineFromCharacteristics(c model.Characteristics) *Wine {
	return &Wine{Producer: c.Producer, Name: c.Name, Type: string(c.Type), Year: c.Year, Region: c.Region}
}

func WineToCharacteristics(wine *Wine) (model.Characteristics, error) {
	if wine == nil {
		return model.Characteristics{}, fmt.Errorf("%w: wine is required", model.ErrValidation)
	}

	wineType, err := model.ParseWineType(wine.Type)
	if err != nil {
		return model.Characteristics{}, err
	}

	return model.Characteristics{
		Producer: wine.Producer,
		Name:     wine.Name,
		Type:     wineType,
		Year:     wine.Year,
		Region:   wine.Region,
	}, nil
}

func SelectorToModel(selector *Selector) (model.Selector, error) {
	if selector == nil {
		return model.Selector{}, fmt.Errorf("%w: selector is required", model.ErrValidation)
	}

	if selector.DescriptorID != nil && selector.Wine != nil {
		return model.Selector{}, fmt.Errorf("%w: selector must use either a descriptor id or a wine", model.ErrValidation)
	}

	if selector.DescriptorID != nil {
		id := uint(*selector.DescriptorID)

		return model.Selector{DescriptorID: &id}, nil
	}

	characteristics, err := WineToCharacteristics(selector.Wine)
	if err != nil {
		return model.Selector{}, err
	}

	return model.Selector{Characteristics: &characteristics}, nil
}

func InventoryFromModel(groups []*model.InventoryGroup) []*InventoryGroup {
	results := make([]*InventoryGroup, 0, len(groups))

	for _, group := range groups {
		results = append(results, &InventoryGroup{
			Wine: &Wine{
				Producer: group.Producer,
				Name:     group.Name,
				Type:     string(group.Type),
				Year:     group.Year,
				Region:   group.Region,
			},
			LabelImage: group.LabelImage,
			ShelfName:  group.ShelfName,
			Quantity:   group.Quantity,
		})
	}

	return results
}

func ReviewsFromModel(reviews []*model.Review) []*Review {
	results := make([]*Review, 0, len(reviews))

	for _, review := range reviews {
		results = append(results, &Review{Rating: review.Rating, Comment: review.Comment, ArchivedOn: review.ArchivedOn})
	}

	return results
}

func CommunityFromModel(wines []*model.CommunityWine) []*CommunityWine {
	results := make([]*CommunityWine, 0, len(wines))

	for _, wine := range wines {
		results = append(results, &CommunityWine{
			Wine: &Wine{
				Producer: wine.Producer,
				Name:     wine.Name,
				Type:     string(wine.Type),
				Year:     wine.Year,
				Region:   wine.Region,
			},
			LabelImage:    wine.LabelImage,
			AverageRating: wine.AverageRating,
			ReviewCount:   wine.ReviewCount,
		})
	}

	return results
}

func descriptorIDs(entries []*model.InventoryEntry) []uint64 {
	ids := make([]uint64, 0, len(entries))

	for _, entry := range entries {
		ids = append(ids, uint64(entry.DescriptorID))
	}

	return ids
}

func sortFromRequest(request *ListInventoryRequest) (cellar.Sort, error) {
	return cellar.ParseSort(request.Sort, request.Order)
}
