package api

type GetSellerStatsRequest struct {
	SellerID string `json:"seller_id"`
}

type SellerStats struct {
	SellerID         string `json:"seller_id"`
	ItemsSold        int64  `json:"items_sold"`
	TotalRevenue     int64  `json:"total_revenue"`
	AverageSalePrice int64  `json:"average_sale_price"`
	LastSaleAt       string `json:"last_sale_at"`
}

type SellerStatsResponse struct {
	Stats *SellerStats `json:"stats"`
}
