package api

// Wire messages of market.v1.MarketService. Field names follow the snake_case
// JSON the clients already speak. Timestamps are RFC 3339 strings in UTC.

type Item struct {
	ID          string `json:"id"`
	SellerID    string `json:"seller_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       int64  `json:"price"`
	State       string `json:"state"`
	Published   string `json:"published"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type Bid struct {
	ID          string `json:"id"`
	ItemID      string `json:"item_id"`
	BidderID    string `json:"bidder_id,omitempty"`
	ItemName    string `json:"item_name,omitempty"`
	AskingPrice int64  `json:"asking_price"`
	Status      string `json:"status"`
	Published   string `json:"published"`
}

type Purchase struct {
	ID          string `json:"id"`
	ItemID      string `json:"item_id"`
	BuyerID     string `json:"buyer_id"`
	FinalPrice  int64  `json:"final_price"`
	PurchasedAt string `json:"purchased_at"`
}

type PlaceBidRequest struct {
	ItemID      string `json:"item_id"`
	AskingPrice int64  `json:"asking_price"`
}

type PlaceBidResponse struct {
	Bid *Bid `json:"bid"`
}

type AnswerBidRequest struct {
	BidID string `json:"bid_id"`
	// Status is "accepted" or "declined"
	Status string `json:"status"`
}

type AnswerBidResponse struct {
	Bid *Bid `json:"bid"`
}

type BuyItemRequest struct {
	ItemID string `json:"item_id"`
}

type BuyItemFromBidRequest struct {
	BidID string `json:"bid_id"`
}

type PurchaseResponse struct {
	Purchase *Purchase `json:"purchase"`
}

type ListUniqueBidItemsRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type ListItemBidsRequest struct {
	ItemID   string `json:"item_id"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
}

type ListReceivedBidsRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type ListBidderBidsOnItemRequest struct {
	ItemID   string `json:"item_id"`
	BidderID string `json:"bidder_id"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
}

type ListBidsResponse struct {
	Bids []*Bid `json:"bids"`
}

type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
}

type GetItemRequest struct {
	ItemID string `json:"item_id"`
}

// UpdateItemRequest leaves absent fields unchanged.
type UpdateItemRequest struct {
	ItemID      string  `json:"item_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Price       *int64  `json:"price,omitempty"`
}

type ArchiveItemRequest struct {
	ItemID string `json:"item_id"`
}

type ItemResponse struct {
	Item *Item `json:"item"`
}

type ListItemsRequest struct {
	Category string `json:"category,omitempty"`
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
}

type ListSellerItemsRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type ListItemsResponse struct {
	Items []*Item `json:"items"`
}

type ListPurchasesRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type ListPurchasesResponse struct {
	Purchases []*Purchase `json:"purchases"`
}

type GetPurchaseRequest struct {
	ItemID string `json:"item_id"`
}
