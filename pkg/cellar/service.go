package cellar

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/repository"
	"droscher.com/WineCellar/pkg/storage"
)

// MaxQuantity bounds the bottles a single add, remove or archive may touch.
const MaxQuantity = 1000

const (
	maxRating = 5.0
	minYear   = 1000
	maxYear   = 9999
)

// Service is the cellar ledger: it validates owner actions, then hands them to the repository
// which runs each mutation in its own transaction.
type Service struct {
	cellars   repository.CellarRepository
	inventory repository.InventoryRepository
	archive   repository.ArchiveRepository
	labels    storage.Store
	logger    *zap.Logger
	today     func() time.Time
}

type Label struct {
	FileName string
	Data     []byte
}

type AddBottlesRequest struct {
	ShelfID  uint
	Wine     model.Characteristics
	Price    *float64
	Label    *Label
	Quantity int
}

type ArchiveRequest struct {
	Selector model.Selector
	Quantity int
	Rating   *float64
	Comment  *string
}

type CellarDetail struct {
	Cellar  *model.Cellar
	Shelves []*model.ShelfOccupancy
}

func NewService(cellars repository.CellarRepository, inventory repository.InventoryRepository, archive repository.ArchiveRepository, labels storage.Store, logger *zap.Logger) *Service {
	return &Service{
		cellars:   cellars,
		inventory: inventory,
		archive:   archive,
		labels:    labels,
		logger:    logger,
		today:     Today,
	}
}

// Today is the current UTC calendar date at midnight.
func Today() time.Time {
	now := time.Now().UTC()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) CreateCellar(ctx context.Context, accountID uint, name string) (*model.Cellar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: cellar name is required", model.ErrValidation)
	}

	cellar, err := s.cellars.AddCellar(ctx, accountID, name)
	if err != nil {
		s.logger.Error("error creating cellar", zap.Uint("account_id", accountID), zap.Error(err))

		return nil, err
	}

	s.logger.Info("created cellar", zap.Uint("cellar_id", cellar.ID), zap.Uint("account_id", accountID))

	return cellar, nil
}

func (s *Service) ListCellars(ctx context.Context, accountID uint) ([]*model.Cellar, error) {
	return s.cellars.GetCellarsForAccount(ctx, accountID)
}

func (s *Service) ExploreCellars(ctx context.Context) ([]*model.Cellar, error) {
	return s.cellars.GetAllCellars(ctx)
}

func (s *Service) ShowCellar(ctx context.Context, cellarID uint) (*CellarDetail, error) {
	cellar, err := s.cellars.GetCellarByID(ctx, cellarID)
	if err != nil {
		return nil, err
	}

	shelves, err := s.cellars.GetShelvesWithOccupancy(ctx, cellarID)
	if err != nil {
		return nil, err
	}

	return &CellarDetail{Cellar: cellar, Shelves: shelves}, nil
}

func (s *Service) AddShelf(ctx context.Context, accountID uint, cellarID uint, name string, capacity *int64) (*model.Shelf, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: shelf name is required", model.ErrValidation)
	}

	if capacity != nil && *capacity < 1 {
		return nil, fmt.Errorf("%w: shelf capacity must be at least 1, got %d", model.ErrValidation, *capacity)
	}

	shelf, err := s.cellars.AddShelf(ctx, accountID, cellarID, name, capacity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("added shelf", zap.Uint("cellar_id", cellarID), zap.Uint("shelf_id", shelf.ID))

	return shelf, nil
}

func (s *Service) RemoveShelf(ctx context.Context, accountID uint, cellarID uint, shelfID uint) error {
	if err := s.cellars.RemoveShelf(ctx, accountID, cellarID, shelfID); err != nil {
		s.logger.Info("shelf not removed", zap.Uint("cellar_id", cellarID), zap.Uint("shelf_id", shelfID), zap.Error(err))

		return err
	}

	s.logger.Info("removed shelf", zap.Uint("cellar_id", cellarID), zap.Uint("shelf_id", shelfID))

	return nil
}

// CanAdmit is advisory; AddBottles repeats the check under the shelf lock.
func (s *Service) CanAdmit(ctx context.Context, shelfID uint, quantity int) (bool, error) {
	if err := validateQuantity(quantity); err != nil {
		return false, err
	}

	return s.cellars.CanAdmit(ctx, shelfID, quantity)
}

// AddBottles stores one descriptor and one inventory entry per bottle. An uploaded label is
// saved first and removed again if the ledger rejects the bottles.
func (s *Service) AddBottles(ctx context.Context, accountID uint, cellarID uint, request AddBottlesRequest) ([]*model.InventoryEntry, error) {
	if err := validateWine(request.Wine); err != nil {
		return nil, err
	}

	if err := validateQuantity(request.Quantity); err != nil {
		return nil, err
	}

	if request.ShelfID == 0 {
		return nil, fmt.Errorf("%w: a shelf is required", model.ErrValidation)
	}

	if request.Price != nil && *request.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", model.ErrValidation)
	}

	wineType, _ := model.ParseWineType(string(request.Wine.Type))
	descriptor := model.WineDescriptor{
		Producer: strings.TrimSpace(request.Wine.Producer),
		Name:     strings.TrimSpace(request.Wine.Name),
		Type:     wineType,
		Year:     request.Wine.Year,
		Region:   request.Wine.Region,
		Price:    request.Price,
	}

	var savedLabel string

	if request.Label != nil {
		if s.labels == nil {
			return nil, fmt.Errorf("%w: label storage is not configured", model.ErrStorage)
		}

		if _, err := storage.Extension(request.Label.FileName); err != nil {
			return nil, err
		}

		reference, err := s.labels.Save(ctx, request.Label.FileName, request.Label.Data)
		if err != nil {
			return nil, err
		}

		savedLabel = reference
		descriptor.LabelImage = &savedLabel
	}

	entries, err := s.inventory.AddBottles(ctx, accountID, cellarID, request.ShelfID, descriptor, request.Quantity, s.today())
	if err != nil {
		if savedLabel != "" {
			err = multierr.Append(err, s.labels.Delete(ctx, savedLabel))
		}

		s.logger.Error("error adding bottles", zap.Uint("cellar_id", cellarID), zap.Uint("shelf_id", request.ShelfID),
			zap.Int("quantity", request.Quantity), zap.Error(err))

		return nil, err
	}

	s.logger.Info("added bottles", zap.Uint("cellar_id", cellarID), zap.Uint("shelf_id", request.ShelfID), zap.Int("quantity", len(entries)))

	return entries, nil
}

// RemoveBottles deletes up to quantity matching bottles without archiving them. A shortfall is
// not an error; the number removed is returned.
func (s *Service) RemoveBottles(ctx context.Context, accountID uint, cellarID uint, selector model.Selector, quantity int) (int, error) {
	if err := validateSelection(selector, quantity); err != nil {
		return 0, err
	}

	removed, err := s.inventory.RemoveBottles(ctx, accountID, cellarID, normalizeSelector(selector), quantity)
	if err != nil {
		return 0, err
	}

	s.logger.Info("removed bottles", zap.Uint("cellar_id", cellarID), zap.Int("requested", quantity), zap.Int("removed", removed))

	return removed, nil
}

// ArchiveBottles retires up to quantity matching bottles with a review. Bottles archived before
// a failure stay archived and are counted in the result.
func (s *Service) ArchiveBottles(ctx context.Context, accountID uint, cellarID uint, request ArchiveRequest) (int, error) {
	if err := validateSelection(request.Selector, request.Quantity); err != nil {
		return 0, err
	}

	if request.Rating != nil && (*request.Rating < 0 || *request.Rating > maxRating) {
		return 0, fmt.Errorf("%w: rating must be between 0 and %.0f", model.ErrValidation, maxRating)
	}

	comment := request.Comment
	if comment != nil && strings.TrimSpace(*comment) == "" {
		comment = nil
	}

	review := model.Review{Rating: request.Rating, Comment: comment, ArchivedOn: s.today()}

	archived, err := s.archive.ArchiveBottles(ctx, accountID, cellarID, normalizeSelector(request.Selector), request.Quantity, review)
	if err != nil {
		s.logger.Error("error archiving bottles", zap.Uint("cellar_id", cellarID), zap.Int("archived", archived), zap.Error(err))

		return archived, err
	}

	s.logger.Info("archived bottles", zap.Uint("cellar_id", cellarID), zap.Int("requested", request.Quantity), zap.Int("archived", archived))

	return archived, nil
}

func (s *Service) ListInventory(ctx context.Context, cellarID uint, order Sort) ([]*model.InventoryGroup, error) {
	if _, err := s.cellars.GetCellarByID(ctx, cellarID); err != nil {
		return nil, err
	}

	groups, err := s.inventory.GroupInventory(ctx, cellarID)
	if err != nil {
		return nil, err
	}

	order.Apply(groups)

	return groups, nil
}

// OpenLabel streams a stored label image. The caller closes the reader.
func (s *Service) OpenLabel(ctx context.Context, reference string) (io.ReadCloser, error) {
	if s.labels == nil {
		return nil, fmt.Errorf("%w: label storage is not configured", model.ErrStorage)
	}

	if _, err := storage.Extension(reference); err != nil {
		return nil, err
	}

	return s.labels.Open(ctx, reference)
}

func (s *Service) ReviewSummary(ctx context.Context, wine model.Characteristics) (*model.ReviewSummary, error) {
	if err := validateWine(wine); err != nil {
		return nil, err
	}

	return s.archive.ReviewSummary(ctx, normalizeCharacteristics(wine))
}

func (s *Service) ReviewDetail(ctx context.Context, wine model.Characteristics) ([]*model.Review, error) {
	if err := validateWine(wine); err != nil {
		return nil, err
	}

	return s.archive.ReviewDetail(ctx, normalizeCharacteristics(wine))
}

func (s *Service) CommunityOverview(ctx context.Context) ([]*model.CommunityWine, error) {
	return s.archive.CommunityOverview(ctx)
}

func validateWine(wine model.Characteristics) error {
	if err := wine.Validate(); err != nil {
		return err
	}

	if wine.Year < minYear || wine.Year > maxYear {
		return fmt.Errorf("%w: invalid year %d", model.ErrValidation, wine.Year)
	}

	return nil
}

func validateSelection(selector model.Selector, quantity int) error {
	if err := selector.Validate(); err != nil {
		return err
	}

	if selector.Characteristics != nil {
		if err := validateWine(*selector.Characteristics); err != nil {
			return err
		}
	}

	return validateQuantity(quantity)
}

func validateQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d, got %d", model.ErrValidation, MaxQuantity, quantity)
	}

	return nil
}

func normalizeSelector(selector model.Selector) model.Selector {
	if selector.Characteristics == nil {
		return selector
	}

	characteristics := normalizeCharacteristics(*selector.Characteristics)

	return model.Selector{Characteristics: &characteristics}
}

// normalizeCharacteristics trims names and canonicalizes the type. The region is compared as
// given so an empty region never matches a missing one.
func normalizeCharacteristics(wine model.Characteristics) model.Characteristics {
	wineType, _ := model.ParseWineType(string(wine.Type))

	return model.Characteristics{
		Producer: strings.TrimSpace(wine.Producer),
		Name:     strings.TrimSpace(wine.Name),
		Type:     wineType,
		Year:     wine.Year,
		Region:   wine.Region,
	}
}
