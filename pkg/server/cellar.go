package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bufbuild/connect-go"
	"go.uber.org/zap"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/auth"
	"droscher.com/WineCellar/pkg/cellar"
	"droscher.com/WineCellar/pkg/integrations"
	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/storage"
)

type CellarServer struct {
	service *cellar.Service
	config  *configs.Config
	logger  *zap.Logger
}

func NewCellarServer(service *cellar.Service, config *configs.Config, logger *zap.Logger) *CellarServer {
	return &CellarServer{service: service, config: config, logger: logger}
}

func NewCellarServiceHandler(svc *CellarServer, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(CellarServiceCreateCellarProcedure, connect.NewUnaryHandler(CellarServiceCreateCellarProcedure, svc.CreateCellar, opts...))
	mux.Handle(CellarServiceListCellarsProcedure, connect.NewUnaryHandler(CellarServiceListCellarsProcedure, svc.ListCellars, opts...))
	mux.Handle(CellarServiceExploreCellarsProcedure, connect.NewUnaryHandler(CellarServiceExploreCellarsProcedure, svc.ExploreCellars, opts...))
	mux.Handle(CellarServiceGetCellarProcedure, connect.NewUnaryHandler(CellarServiceGetCellarProcedure, svc.GetCellar, opts...))
	mux.Handle(CellarServiceAddShelfProcedure, connect.NewUnaryHandler(CellarServiceAddShelfProcedure, svc.AddShelf, opts...))
	mux.Handle(CellarServiceRemoveShelfProcedure, connect.NewUnaryHandler(CellarServiceRemoveShelfProcedure, svc.RemoveShelf, opts...))
	mux.Handle(CellarServiceAddBottlesProcedure, connect.NewUnaryHandler(CellarServiceAddBottlesProcedure, svc.AddBottles, opts...))
	mux.Handle(CellarServiceRemoveBottlesProcedure, connect.NewUnaryHandler(CellarServiceRemoveBottlesProcedure, svc.RemoveBottles, opts...))
	mux.Handle(CellarServiceArchiveBottlesProcedure, connect.NewUnaryHandler(CellarServiceArchiveBottlesProcedure, svc.ArchiveBottles, opts...))
	mux.Handle(CellarServiceListInventoryProcedure, connect.NewUnaryHandler(CellarServiceListInventoryProcedure, svc.ListInventory, opts...))
	mux.Handle(CellarServiceLookupWineProcedure, connect.NewUnaryHandler(CellarServiceLookupWineProcedure, svc.LookupWine, opts...))
	mux.Handle(CellarServiceGetLabelProcedure, connect.NewUnaryHandler(CellarServiceGetLabelProcedure, svc.GetLabel, opts...))

	return "/" + CellarServiceName + "/", mux
}

// accountID returns the caller set by the auth interceptor. Mutations need one.
func accountID(ctx context.Context) (uint, error) {
	account, ok := auth.AccountFromContext(ctx)
	if !ok {
		return 0, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("%w: session token required", model.ErrAuthenticationFailed))
	}

	return account.ID, nil
}

func (c *CellarServer) CreateCellar(ctx context.Context, request *connect.Request[CreateCellarRequest]) (*connect.Response[CreateCellarResponse], error) {
	owner, err := accountID(ctx)
	if err != nil {
		return nil, err
	}

	created, err := c.service.CreateCellar(ctx, owner, request.Msg.Name)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&CreateCellarResponse{Cellar: CellarFromModel(created, nil)}), nil
}

func (c *CellarServer) ListCellars(ctx context.Context, _ *connect.Request[ListCellarsRequest]) (*connect.Response[ListCellarsResponse], error) {
	owner, err := accountID(ctx)
	if err != nil {
		return nil, err
	}

	cellars, err := c.service.ListCellars(ctx, owner)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&ListCellarsResponse{Cellars: CellarsFromModel(cellars)}), nil
}

func (c *CellarServer) ExploreCellars(ctx context.Context, _ *connect.Request[ExploreCellarsRequest]) (*connect.Response[ExploreCellarsResponse], error) {
	cellars, err := c.service.ExploreCellars(ctx)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&ExploreCellarsResponse{Cellars: CellarsFromModel(cellars)}), nil
}

func (c *CellarServer) GetCellar(ctx context.Context, request *connect.Request[GetCellarRequest]) (*connect.Response[GetCellarResponse], error) {
	detail, err := c.service.ShowCellar(ctx, uint(request.Msg.CellarID))
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&GetCellarResponse{Cellar: CellarFromModel(detail.Cellar, detail.Shelves)}), nil
}

func (c *CellarServer) AddShelf(ctx context.Context, request *connect.Request[AddShelfRequest]) (*connect.Response[AddShelfResponse], error) {
	owner, err := accountID(ctx)
	if err != nil {
		return nil, err
	}

	shelf, err := c.service.AddShelf(ctx, owner, uint(request.Msg.CellarID), request.Msg.Name, request.Msg.Capacity)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&AddShelfResponse{Shelf: ShelfFromModel(shelf)}), nil
}

func (c *CellarServer) RemoveShelf(ctx context.Context, request *connect.Request[RemoveShelfRequest]) (*connect.Response[RemoveShelfResponse], error) {
	owner, err := accountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.service.RemoveShelf(ctx, owner, uint(request.Msg.CellarID), uint(request.Msg.ShelfID)); err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&RemoveShelfResponse{}), nil
}

func (c *CellarServer) AddBottles(ctx context.Context, request *connect.Request[AddBottlesRequest]) (*connect.Response[AddBottlesResponse], error) {
	owner, err := accountID(ctx)
	if err != nil {
		return nil, err
	}

	wine, err := WineToCharacteristics(request.Msg.Wine)
	if err != nil {
		return nil, ToConnectError(err)
	}

	addRequest := cellar.AddBottlesRequest{
		ShelfID:  uint(request.Msg.ShelfID),
		Wine:     wine,
		Price:    request.Msg.Price,
		Quantity: request.Msg.Quantity,
	}

	if len(request.Msg.Label) > 0 {
		addRequest.Label = &cellar.Label{FileName: request.Msg.LabelFileName, Data: request.Msg.Label}
	}

	entries, err := c.service.AddBottles(ctx, owner, uint(request.Msg.CellarID), addRequest)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&AddBottlesResponse{DescriptorIDs: descriptorIDs(entries)}), nil
}

func (c *CellarServer) RemoveBottles(ctx context.Context, request *connect.Request[RemoveBottlesRequest]) (*connect.Response[RemoveBottlesResponse], error) {
	owner, err := accountID(ctx)
	if err != nil {
		return nil, err
	}

	selector, err := SelectorToModel(request.Msg.Selector)
	if err != nil {
		return nil, ToConnectError(err)
	}

	removed, err := c.service.RemoveBottles(ctx, owner, uint(request.Msg.CellarID), selector, request.Msg.Quantity)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&RemoveBottlesResponse{Removed: removed}), nil
}

// ArchiveBottles reports a partial batch through the error, with the count archived so far in
// the Winecellar-Archived metadata.
func (c *CellarServer) ArchiveBottles(ctx context.Context, request *connect.Request[ArchiveBottlesRequest]) (*connect.Response[ArchiveBottlesResponse], error) {
	owner, err := accountID(ctx)
	if err != nil {
		return nil, err
	}

	selector, err := SelectorToModel(request.Msg.Selector)
	if err != nil {
		return nil, ToConnectError(err)
	}

	archived, err := c.service.ArchiveBottles(ctx, owner, uint(request.Msg.CellarID), cellar.ArchiveRequest{
		Selector: selector,
		Quantity: request.Msg.Quantity,
		Rating:   request.Msg.Rating,
		Comment:  request.Msg.Comment,
	})
	if err != nil {
		connectErr := connect.NewError(connect.CodeOf(ToConnectError(err)), err)
		connectErr.Meta().Set("Winecellar-Archived", fmt.Sprint(archived))

		return nil, connectErr
	}

	return connect.NewResponse(&ArchiveBottlesResponse{Archived: archived}), nil
}

func (c *CellarServer) ListInventory(ctx context.Context, request *connect.Request[ListInventoryRequest]) (*connect.Response[ListInventoryResponse], error) {
	order, err := sortFromRequest(request.Msg)
	if err != nil {
		return nil, ToConnectError(err)
	}

	groups, err := c.service.ListInventory(ctx, uint(request.Msg.CellarID), order)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&ListInventoryResponse{Groups: InventoryFromModel(groups)}), nil
}

func (c *CellarServer) LookupWine(_ context.Context, request *connect.Request[LookupWineRequest]) (*connect.Response[LookupWineResponse], error) {
	if strings.TrimSpace(request.Msg.URL) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: url is required", ErrInvalidInput))
	}

	descriptor, err := integrations.LookupWine(c.config.Integrations.Wine, request.Msg.URL, c.logger)
	if err != nil {
		c.logger.Error("failed wine lookup", zap.String("url", request.Msg.URL), zap.Error(err))

		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	response := LookupWineResponse{
		Wine:  WineFromCharacteristics(descriptor.Characteristics()),
		Price: descriptor.Price,
	}

	return connect.NewResponse(&response), nil
}

func (c *CellarServer) GetLabel(ctx context.Context, request *connect.Request[GetLabelRequest]) (*connect.Response[GetLabelResponse], error) {
	reader, err := c.service.OpenLabel(ctx, request.Msg.Reference)
	if err != nil {
		return nil, ToConnectError(err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		c.logger.Error("error reading label", zap.String("reference", request.Msg.Reference), zap.Error(err))

		return nil, ToConnectError(fmt.Errorf("%w: %w", model.ErrStorage, err))
	}

	return connect.NewResponse(&GetLabelResponse{ContentType: storage.ContentType(request.Msg.Reference), Data: data}), nil
}
