package models

// Card brands
const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "Amex"
	BrandTroy       = "Troy"
	BrandUnknown    = "Unknown"
)

// WalletCard is a saved payment card. Only the last four digits are ever stored.
type WalletCard struct {
	ID     string `json:"id"`
	Brand  string `json:"brand"`
	Holder string `json:"holder"`
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"` // MM/YY
}

// CardStore is the wallet value: the saved cards plus a pointer to the default one
type CardStore struct {
	List      []WalletCard `json:"list"`
	DefaultID *string      `json:"defaultId"`
}

// NewCardInput is a card typed in at checkout
type NewCardInput struct {
	Holder string `json:"holder"`
	Number string `json:"number"`
	Expiry string `json:"expiry"` // MM/YY
	CVV    string `json:"cvv"`
}

// PaymentSelection picks either a saved card or a new one. Exactly one should be set.
type PaymentSelection struct {
	SavedCardID string        `json:"savedCardId,omitempty"`
	NewCard     *NewCardInput `json:"newCard,omitempty"`
}

// SetDefaultCardRequest represents the request body for changing the default card
type SetDefaultCardRequest struct {
	ID string `json:"id"`
}
