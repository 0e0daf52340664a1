package pricing

import (
	"math"
	"time"

	"storefront-core/models"
)

// Currency is the currency every invoice is issued in
const Currency = "TRY"

// RoundCurrency rounds an amount to whole kuruş
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// LineTotal is unit price times quantity
func LineTotal(item models.CartItem) float64 {
	return RoundCurrency(item.Price * float64(item.Qty))
}

// CartTotal sums every line of the cart
func CartTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += LineTotal(item)
	}
	return RoundCurrency(total)
}

// CartQuantity is the number of units in the cart (badge count)
func CartQuantity(items []models.CartItem) int {
	qty := 0
	for _, item := range items {
		qty += item.Qty
	}
	return qty
}

// BuildInvoice computes the invoice breakdown for a cart
func BuildInvoice(no string, issuedAt time.Time, buyer models.InvoiceBuyer, items []models.CartItem) models.Invoice {
	lines := make([]models.InvoiceLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.InvoiceLine{
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: item.Price,
			LineTotal: LineTotal(item),
		})
	}

	return models.Invoice{
		No:       no,
		Date:     issuedAt.UTC().Format(time.RFC3339),
		Buyer:    buyer,
		Lines:    lines,
		Total:    CartTotal(items),
		Currency: Currency,
	}
}
