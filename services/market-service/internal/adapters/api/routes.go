package api

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/floroz/marketplace/pkg/rpc"
)

const ServiceName = "market.v1.MarketService"

var (
	PlaceBidProcedure             = rpc.Procedure(ServiceName, "PlaceBid")
	AnswerBidProcedure            = rpc.Procedure(ServiceName, "AnswerBid")
	BuyItemProcedure              = rpc.Procedure(ServiceName, "BuyItem")
	BuyItemFromBidProcedure       = rpc.Procedure(ServiceName, "BuyItemFromBid")
	ListUniqueBidItemsProcedure   = rpc.Procedure(ServiceName, "ListUniqueBidItems")
	ListItemBidsProcedure         = rpc.Procedure(ServiceName, "ListItemBids")
	ListReceivedBidsProcedure     = rpc.Procedure(ServiceName, "ListReceivedBids")
	ListBidderBidsOnItemProcedure = rpc.Procedure(ServiceName, "ListBidderBidsOnItem")
	CreateItemProcedure           = rpc.Procedure(ServiceName, "CreateItem")
	GetItemProcedure              = rpc.Procedure(ServiceName, "GetItem")
	ListItemsProcedure            = rpc.Procedure(ServiceName, "ListItems")
	ListSellerItemsProcedure      = rpc.Procedure(ServiceName, "ListSellerItems")
	UpdateItemProcedure           = rpc.Procedure(ServiceName, "UpdateItem")
	ArchiveItemProcedure          = rpc.Procedure(ServiceName, "ArchiveItem")
	ListPurchasesProcedure        = rpc.Procedure(ServiceName, "ListPurchases")
	GetPurchaseProcedure          = rpc.Procedure(ServiceName, "GetPurchase")
)

// PublicProcedures may be called without a bearer token.
func PublicProcedures() []string {
	return []string{GetItemProcedure, ListItemsProcedure}
}

// NewMarketServiceHandler builds an HTTP handler serving every procedure of
// the market service. It returns the path on which to mount the handler.
func NewMarketServiceHandler(h *MarketHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = rpc.HandlerOptions(opts...)

	mux := http.NewServeMux()
	mux.Handle(PlaceBidProcedure, connect.NewUnaryHandler(PlaceBidProcedure, h.PlaceBid, opts...))
	mux.Handle(AnswerBidProcedure, connect.NewUnaryHandler(AnswerBidProcedure, h.AnswerBid, opts...))
	mux.Handle(BuyItemProcedure, connect.NewUnaryHandler(BuyItemProcedure, h.BuyItem, opts...))
	mux.Handle(BuyItemFromBidProcedure, connect.NewUnaryHandler(BuyItemFromBidProcedure, h.BuyItemFromBid, opts...))
	mux.Handle(ListUniqueBidItemsProcedure, connect.NewUnaryHandler(ListUniqueBidItemsProcedure, h.ListUniqueBidItems, opts...))
	mux.Handle(ListItemBidsProcedure, connect.NewUnaryHandler(ListItemBidsProcedure, h.ListItemBids, opts...))
	mux.Handle(ListReceivedBidsProcedure, connect.NewUnaryHandler(ListReceivedBidsProcedure, h.ListReceivedBids, opts...))
	mux.Handle(ListBidderBidsOnItemProcedure, connect.NewUnaryHandler(ListBidderBidsOnItemProcedure, h.ListBidderBidsOnItem, opts...))
	mux.Handle(CreateItemProcedure, connect.NewUnaryHandler(CreateItemProcedure, h.CreateItem, opts...))
	mux.Handle(GetItemProcedure, connect.NewUnaryHandler(GetItemProcedure, h.GetItem, opts...))
	mux.Handle(ListItemsProcedure, connect.NewUnaryHandler(ListItemsProcedure, h.ListItems, opts...))
	mux.Handle(ListSellerItemsProcedure, connect.NewUnaryHandler(ListSellerItemsProcedure, h.ListSellerItems, opts...))
	mux.Handle(UpdateItemProcedure, connect.NewUnaryHandler(UpdateItemProcedure, h.UpdateItem, opts...))
	mux.Handle(ArchiveItemProcedure, connect.NewUnaryHandler(ArchiveItemProcedure, h.ArchiveItem, opts...))
	mux.Handle(ListPurchasesProcedure, connect.NewUnaryHandler(ListPurchasesProcedure, h.ListPurchases, opts...))
	mux.Handle(GetPurchaseProcedure, connect.NewUnaryHandler(GetPurchaseProcedure, h.GetPurchase, opts...))

	return rpc.ServicePath(ServiceName), mux
}
