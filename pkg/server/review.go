package server

import (
	"context"
	"net/http"

	"github.com/bufbuild/connect-go"
	"go.uber.org/zap"

	"droscher.com/WineCellar/pkg/cellar"
)

// ReviewServer exposes the archive aggregates. All of them are public reads.
type ReviewServer struct {
	service *cellar.Service
	logger  *zap.Logger
}

func NewReviewServer(service *cellar.Service, logger *zap.Logger) *ReviewServer {
	return &ReviewServer{service: service, logger: logger}
}

func NewReviewServiceHandler(svc *ReviewServer, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ReviewServiceGetReviewSummaryProcedure, connect.NewUnaryHandler(ReviewServiceGetReviewSummaryProcedure, svc.GetReviewSummary, opts...))
	mux.Handle(ReviewServiceGetReviewDetailProcedure, connect.NewUnaryHandler(ReviewServiceGetReviewDetailProcedure, svc.GetReviewDetail, opts...))
	mux.Handle(ReviewServiceGetCommunityOverviewProcedure, connect.NewUnaryHandler(ReviewServiceGetCommunityOverviewProcedure, svc.GetCommunityOverview, opts...))

	return "/" + ReviewServiceName + "/", mux
}

func (r *ReviewServer) GetReviewSummary(ctx context.Context, request *connect.Request[GetReviewSummaryRequest]) (*connect.Response[GetReviewSummaryResponse], error) {
	wine, err := WineToCharacteristics(request.Msg.Wine)
	if err != nil {
		return nil, ToConnectError(err)
	}

	summary, err := r.service.ReviewSummary(ctx, wine)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&GetReviewSummaryResponse{AverageRating: summary.AverageRating, ReviewCount: summary.ReviewCount}), nil
}

func (r *ReviewServer) GetReviewDetail(ctx context.Context, request *connect.Request[GetReviewDetailRequest]) (*connect.Response[GetReviewDetailResponse], error) {
	wine, err := WineToCharacteristics(request.Msg.Wine)
	if err != nil {
		return nil, ToConnectError(err)
	}

	reviews, err := r.service.ReviewDetail(ctx, wine)
	if err != nil {
		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&GetReviewDetailResponse{Reviews: ReviewsFromModel(reviews)}), nil
}

func (r *ReviewServer) GetCommunityOverview(ctx context.Context, _ *connect.Request[GetCommunityOverviewRequest]) (*connect.Response[GetCommunityOverviewResponse], error) {
	wines, err := r.service.CommunityOverview(ctx)
	if err != nil {
		r.logger.Error("error building community overview", zap.Error(err))

		return nil, ToConnectError(err)
	}

	return connect.NewResponse(&GetCommunityOverviewResponse{Wines: CommunityFromModel(wines)}), nil
}
