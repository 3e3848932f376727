package api

import (
	"context"

	"connectrpc.com/connect"

	"github.com/floroz/marketplace/pkg/rpc"
)

// MarketServiceClient calls market.v1.MarketService over Connect. It covers
// the trading and catalogue procedures used by other services and tests.
type MarketServiceClient struct {
	placeBid       *connect.Client[PlaceBidRequest, PlaceBidResponse]
	answerBid      *connect.Client[AnswerBidRequest, AnswerBidResponse]
	buyItem        *connect.Client[BuyItemRequest, PurchaseResponse]
	buyItemFromBid *connect.Client[BuyItemFromBidRequest, PurchaseResponse]
	createItem     *connect.Client[CreateItemRequest, ItemResponse]
	getItem        *connect.Client[GetItemRequest, ItemResponse]
	listItems      *connect.Client[ListItemsRequest, ListItemsResponse]
	listItemBids   *connect.Client[ListItemBidsRequest, ListBidsResponse]
	getPurchase    *connect.Client[GetPurchaseRequest, PurchaseResponse]
}

func NewMarketServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MarketServiceClient {
	opts = rpc.ClientOptions(opts...)
	return &MarketServiceClient{
		placeBid:       connect.NewClient[PlaceBidRequest, PlaceBidResponse](httpClient, baseURL+PlaceBidProcedure, opts...),
		answerBid:      connect.NewClient[AnswerBidRequest, AnswerBidResponse](httpClient, baseURL+AnswerBidProcedure, opts...),
		buyItem:        connect.NewClient[BuyItemRequest, PurchaseResponse](httpClient, baseURL+BuyItemProcedure, opts...),
		buyItemFromBid: connect.NewClient[BuyItemFromBidRequest, PurchaseResponse](httpClient, baseURL+BuyItemFromBidProcedure, opts...),
		createItem:     connect.NewClient[CreateItemRequest, ItemResponse](httpClient, baseURL+CreateItemProcedure, opts...),
		getItem:        connect.NewClient[GetItemRequest, ItemResponse](httpClient, baseURL+GetItemProcedure, opts...),
		listItems:      connect.NewClient[ListItemsRequest, ListItemsResponse](httpClient, baseURL+ListItemsProcedure, opts...),
		listItemBids:   connect.NewClient[ListItemBidsRequest, ListBidsResponse](httpClient, baseURL+ListItemBidsProcedure, opts...),
		getPurchase:    connect.NewClient[GetPurchaseRequest, PurchaseResponse](httpClient, baseURL+GetPurchaseProcedure, opts...),
	}
}

func (c *MarketServiceClient) PlaceBid(ctx context.Context, req *connect.Request[PlaceBidRequest]) (*connect.Response[PlaceBidResponse], error) {
	return c.placeBid.CallUnary(ctx, req)
}

func (c *MarketServiceClient) AnswerBid(ctx context.Context, req *connect.Request[AnswerBidRequest]) (*connect.Response[AnswerBidResponse], error) {
	return c.answerBid.CallUnary(ctx, req)
}

func (c *MarketServiceClient) BuyItem(ctx context.Context, req *connect.Request[BuyItemRequest]) (*connect.Response[PurchaseResponse], error) {
	return c.buyItem.CallUnary(ctx, req)
}

func (c *MarketServiceClient) BuyItemFromBid(ctx context.Context, req *connect.Request[BuyItemFromBidRequest]) (*connect.Response[PurchaseResponse], error) {
	return c.buyItemFromBid.CallUnary(ctx, req)
}

func (c *MarketServiceClient) CreateItem(ctx context.Context, req *connect.Request[CreateItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.createItem.CallUnary(ctx, req)
}

func (c *MarketServiceClient) GetItem(ctx context.Context, req *connect.Request[GetItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.getItem.CallUnary(ctx, req)
}

func (c *MarketServiceClient) ListItems(ctx context.Context, req *connect.Request[ListItemsRequest]) (*connect.Response[ListItemsResponse], error) {
	return c.listItems.CallUnary(ctx, req)
}

func (c *MarketServiceClient) ListItemBids(ctx context.Context, req *connect.Request[ListItemBidsRequest]) (*connect.Response[ListBidsResponse], error) {
	return c.listItemBids.CallUnary(ctx, req)
}

func (c *MarketServiceClient) GetPurchase(ctx context.Context, req *connect.Request[GetPurchaseRequest]) (*connect.Response[PurchaseResponse], error) {
	return c.getPurchase.CallUnary(ctx, req)
}
