package models

// RatingSummary is the average of every rating a product received
type RatingSummary struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// RateRequest represents the request body for rating a product. A nil or 0 Stars clears the rating.
type RateRequest struct {
	UserID string   `json:"userId"`
	Stars  *float64 `json:"stars"`
}
