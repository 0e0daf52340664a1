package models

// CartItem is one line of the active cart stored under @cart_items
type CartItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// AddCartItemRequest represents the request body for adding a line to the cart
type AddCartItemRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty,omitempty"`
}

// CartResponse is the cart as returned to the UI layer
type CartResponse struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	TotalText string     `json:"totalText"`
	TotalQty  int        `json:"totalQty"`
}
