package api

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/floroz/marketplace/pkg/auth"
	"github.com/floroz/marketplace/services/market-service/internal/domain/bids"
	"github.com/floroz/marketplace/services/market-service/internal/domain/items"
	"github.com/floroz/marketplace/services/market-service/internal/domain/purchases"
	"github.com/floroz/marketplace/services/market-service/internal/domain/trade"
)

// MarketHandler serves market.v1.MarketService. The caller identity placed in
// the context by the auth interceptor is handed to the domain explicitly.
type MarketHandler struct {
	coordinator *trade.Coordinator
	items       *items.Service
	bids        *bids.Service
	purchases   *purchases.Service
}

func NewMarketHandler(coordinator *trade.Coordinator, itemService *items.Service, bidService *bids.Service, purchaseService *purchases.Service) *MarketHandler {
	return &MarketHandler{
		coordinator: coordinator,
		items:       itemService,
		bids:        bidService,
		purchases:   purchaseService,
	}
}

func (h *MarketHandler) PlaceBid(ctx context.Context, req *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}

	bid, err := h.coordinator.PlaceBid(ctx, auth.IdentityFromContext(ctx), trade.PlaceBidCommand{
		ItemID:      itemID,
		AskingPrice: req.Msg.AskingPrice,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&PlaceBidResponse{Bid: mapBid(bid)}), nil
}

func (h *MarketHandler) AnswerBid(ctx context.Context, req *connect.Request[AnswerBidRequest]) (*connect.Response[AnswerBidResponse], error) {
	bidID, err := parseID("bid_id", req.Msg.BidID)
	if err != nil {
		return nil, err
	}

	bid, err := h.coordinator.AnswerBid(ctx, auth.IdentityFromContext(ctx), trade.AnswerBidCommand{
		BidID:  bidID,
		Status: bids.BidStatus(req.Msg.Status),
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&AnswerBidResponse{Bid: mapBid(bid)}), nil
}

func (h *MarketHandler) BuyItem(ctx context.Context, req *connect.Request[BuyItemRequest]) (*connect.Response[PurchaseResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}

	purchase, err := h.coordinator.BuyItem(ctx, auth.IdentityFromContext(ctx), itemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&PurchaseResponse{Purchase: mapPurchase(purchase)}), nil
}

func (h *MarketHandler) BuyItemFromBid(ctx context.Context, req *connect.Request[BuyItemFromBidRequest]) (*connect.Response[PurchaseResponse], error) {
	bidID, err := parseID("bid_id", req.Msg.BidID)
	if err != nil {
		return nil, err
	}

	purchase, err := h.coordinator.BuyItemFromBid(ctx, auth.IdentityFromContext(ctx), bidID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&PurchaseResponse{Purchase: mapPurchase(purchase)}), nil
}

// ListUniqueBidItems is the bidder's overview: one row per item, without the
// bidder id since it is always the caller.
func (h *MarketHandler) ListUniqueBidItems(ctx context.Context, req *connect.Request[ListUniqueBidItemsRequest]) (*connect.Response[ListBidsResponse], error) {
	page, err := parsePage(req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		return nil, err
	}

	list, err := h.bids.ListUniqueItemsBidOn(ctx, auth.IdentityFromContext(ctx), page)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListBidsResponse{Bids: mapBids(list, withoutBidder)}), nil
}

func (h *MarketHandler) ListItemBids(ctx context.Context, req *connect.Request[ListItemBidsRequest]) (*connect.Response[ListBidsResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}
	page, err := parsePage(req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		return nil, err
	}

	list, err := h.bids.ListBidsOnItem(ctx, auth.IdentityFromContext(ctx), itemID, page)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListBidsResponse{Bids: mapBids(list, withoutBidder)}), nil
}

func (h *MarketHandler) ListReceivedBids(ctx context.Context, req *connect.Request[ListReceivedBidsRequest]) (*connect.Response[ListBidsResponse], error) {
	page, err := parsePage(req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		return nil, err
	}

	list, err := h.bids.ListReceivedBids(ctx, auth.IdentityFromContext(ctx), page)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListBidsResponse{Bids: mapBids(list, nil)}), nil
}

func (h *MarketHandler) ListBidderBidsOnItem(ctx context.Context, req *connect.Request[ListBidderBidsOnItemRequest]) (*connect.Response[ListBidsResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}
	bidderID, err := parseID("bidder_id", req.Msg.BidderID)
	if err != nil {
		return nil, err
	}
	page, err := parsePage(req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		return nil, err
	}

	list, err := h.bids.ListBidderBidsOnItem(ctx, auth.IdentityFromContext(ctx), itemID, bidderID, page)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListBidsResponse{Bids: mapBids(list, nil)}), nil
}

func (h *MarketHandler) CreateItem(ctx context.Context, req *connect.Request[CreateItemRequest]) (*connect.Response[ItemResponse], error) {
	item, err := h.items.CreateItem(ctx, auth.IdentityFromContext(ctx), items.CreateItemCommand{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Category:    req.Msg.Category,
		Price:       req.Msg.Price,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ItemResponse{Item: mapItem(item)}), nil
}

// GetItem is public.
func (h *MarketHandler) GetItem(ctx context.Context, req *connect.Request[GetItemRequest]) (*connect.Response[ItemResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}

	item, err := h.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ItemResponse{Item: mapItem(item)}), nil
}

// ListItems is public.
func (h *MarketHandler) ListItems(ctx context.Context, req *connect.Request[ListItemsRequest]) (*connect.Response[ListItemsResponse], error) {
	page, err := parsePage(req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		return nil, err
	}

	list, err := h.items.ListItems(ctx, items.ListItemsQuery{Category: req.Msg.Category}, page)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListItemsResponse{Items: mapItems(list)}), nil
}

func (h *MarketHandler) ListSellerItems(ctx context.Context, req *connect.Request[ListSellerItemsRequest]) (*connect.Response[ListItemsResponse], error) {
	page, err := parsePage(req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		return nil, err
	}

	list, err := h.items.ListSellerItems(ctx, auth.IdentityFromContext(ctx), page)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListItemsResponse{Items: mapItems(list)}), nil
}

func (h *MarketHandler) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[ItemResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}

	item, err := h.items.UpdateItem(ctx, auth.IdentityFromContext(ctx), items.UpdateItemCommand{
		ItemID:      itemID,
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Category:    req.Msg.Category,
		Price:       req.Msg.Price,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ItemResponse{Item: mapItem(item)}), nil
}

func (h *MarketHandler) ArchiveItem(ctx context.Context, req *connect.Request[ArchiveItemRequest]) (*connect.Response[ItemResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}

	item, err := h.items.ArchiveItem(ctx, auth.IdentityFromContext(ctx), itemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ItemResponse{Item: mapItem(item)}), nil
}

func (h *MarketHandler) ListPurchases(ctx context.Context, req *connect.Request[ListPurchasesRequest]) (*connect.Response[ListPurchasesResponse], error) {
	page, err := parsePage(req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		return nil, err
	}

	list, err := h.purchases.ListPurchases(ctx, auth.IdentityFromContext(ctx), page)
	if err != nil {
		return nil, toConnectError(err)
	}

	res := &ListPurchasesResponse{Purchases: make([]*Purchase, len(list))}
	for i, p := range list {
		res.Purchases[i] = mapPurchase(p)
	}
	return connect.NewResponse(res), nil
}

func (h *MarketHandler) GetPurchase(ctx context.Context, req *connect.Request[GetPurchaseRequest]) (*connect.Response[PurchaseResponse], error) {
	itemID, err := parseID("item_id", req.Msg.ItemID)
	if err != nil {
		return nil, err
	}

	purchase, err := h.purchases.GetPurchase(ctx, auth.IdentityFromContext(ctx), itemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&PurchaseResponse{Purchase: mapPurchase(purchase)}), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func mapItem(item *items.Item) *Item {
	return &Item{
		ID:          item.ID.String(),
		SellerID:    item.SellerID.String(),
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		State:       item.State.String(),
		Published:   formatTime(item.Published),
		UpdatedAt:   formatTime(item.UpdatedAt),
	}
}

func mapItems(list []*items.Item) []*Item {
	out := make([]*Item, len(list))
	for i, item := range list {
		out[i] = mapItem(item)
	}
	return out
}

func mapBid(bid *bids.Bid) *Bid {
	return &Bid{
		ID:          bid.ID.String(),
		ItemID:      bid.ItemID.String(),
		BidderID:    bid.UserID.String(),
		ItemName:    bid.ItemName,
		AskingPrice: bid.AskingPrice,
		Status:      string(bid.Status),
		Published:   formatTime(bid.Published),
	}
}

// withoutBidder narrows a bid for views where the caller is the bidder.
func withoutBidder(b *Bid) {
	b.BidderID = ""
}

func mapBids(list []*bids.Bid, narrow func(*Bid)) []*Bid {
	out := make([]*Bid, len(list))
	for i, bid := range list {
		out[i] = mapBid(bid)
		if narrow != nil {
			narrow(out[i])
		}
	}
	return out
}

func mapPurchase(p *purchases.Purchase) *Purchase {
	return &Purchase{
		ID:          p.ID.String(),
		ItemID:      p.ItemID.String(),
		BuyerID:     p.BuyerID.String(),
		FinalPrice:  p.FinalPrice,
		PurchasedAt: formatTime(p.PurchasedAt),
	}
}
