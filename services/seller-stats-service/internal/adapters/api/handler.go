package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/floroz/marketplace/pkg/auth"
	"github.com/floroz/marketplace/pkg/rpc"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/domain/sellerstats"
)

const ServiceName = "market.v1.SellerStatsService"

var GetSellerStatsProcedure = rpc.Procedure(ServiceName, "GetSellerStats")

type SellerStatsHandler struct {
	service *sellerstats.Service
}

func NewSellerStatsHandler(service *sellerstats.Service) *SellerStatsHandler {
	return &SellerStatsHandler{service: service}
}

// NewSellerStatsServiceHandler returns the mount path and handler of the service.
func NewSellerStatsServiceHandler(h *SellerStatsHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(GetSellerStatsProcedure, connect.NewUnaryHandler(GetSellerStatsProcedure, h.GetSellerStats, rpc.HandlerOptions(opts...)...))
	return rpc.ServicePath(ServiceName), mux
}

// NewSellerStatsClient returns a client for GetSellerStats.
func NewSellerStatsClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[GetSellerStatsRequest, SellerStatsResponse] {
	return connect.NewClient[GetSellerStatsRequest, SellerStatsResponse](httpClient, baseURL+GetSellerStatsProcedure, rpc.ClientOptions(opts...)...)
}

func (h *SellerStatsHandler) GetSellerStats(
	ctx context.Context,
	req *connect.Request[GetSellerStatsRequest],
) (*connect.Response[SellerStatsResponse], error) {
	sellerID, err := uuid.Parse(req.Msg.SellerID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("invalid seller_id"))
	}

	stats, err := h.service.GetSellerStats(ctx, auth.IdentityFromContext(ctx), sellerID)
	if err != nil {
		switch {
		case errors.Is(err, sellerstats.ErrStatsNotFound):
			return nil, connect.NewError(connect.CodeNotFound, err)
		case errors.Is(err, sellerstats.ErrMissingIdentity):
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		case errors.Is(err, sellerstats.ErrNotStatsOwner):
			return nil, connect.NewError(connect.CodePermissionDenied, err)
		default:
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	res := &SellerStatsResponse{
		Stats: &SellerStats{
			SellerID:         stats.SellerID.String(),
			ItemsSold:        stats.ItemsSold,
			TotalRevenue:     stats.TotalRevenue,
			AverageSalePrice: stats.AverageSalePrice(),
			LastSaleAt:       stats.LastSaleAt.UTC().Format(time.RFC3339),
		},
	}

	return connect.NewResponse(res), nil
}
