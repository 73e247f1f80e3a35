package models

import "github.com/shopspring/decimal"

// TopSeller is one row of the best-selling report. Name, Category and Price
// are the live catalog values; the totals come from captured order prices.
type TopSeller struct {
	MenuItemID    string          `json:"menu_item_id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// StatusCount is the number of orders currently in a status.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}
