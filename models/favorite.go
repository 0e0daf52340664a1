package models

// FavoriteProduct is one entry of a user's favorites list
type FavoriteProduct struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	PriceMonthly float64 `json:"priceMonthly"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	AddedDate    string  `json:"addedDate,omitempty"`
}
