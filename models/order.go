package models

// OrderStatusPaid is the only status a shop order is ever created with
const OrderStatusPaid = "paid"

// Service order statuses
const (
	ServiceStatusPreparing = "preparing"
	ServiceStatusDelivered = "delivered"
	ServiceStatusCancelled = "cancelled"
)

// PaymentSummary records which card paid for an order
type PaymentSummary struct {
	Brand  string `json:"brand"`
	Last4  string `json:"last4"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"`
}

// InvoiceBuyer is a snapshot of the buyer at checkout time
type InvoiceBuyer struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// InvoiceLine represents pricing information for a single order line
type InvoiceLine struct {
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// Invoice is embedded in every shop order
type Invoice struct {
	No       string        `json:"no"`
	Date     string        `json:"date"`
	Buyer    InvoiceBuyer  `json:"buyer"`
	Lines    []InvoiceLine `json:"lines"`
	Total    float64       `json:"total"`
	Currency string        `json:"currency"`
}

// OrderRecord is a shop order created by checkout. It is never mutated after creation.
// Example:
// {
//   "id": "ORD-20260104-512345",
//   "date": "2026-01-04T10:30:00Z",
//   "items": [{"id": "x", "name": "Pro", "price": 100, "qty": 2}],
//   "total": 200,
//   "status": "paid",
//   "payment": {"brand": "Visa", "last4": "1111", "holder": "Ada Lovelace", "expiry": "01/27"},
//   "invoiceNo": "INV-20260104-4821",
//   "invoice": {...}
// }
type OrderRecord struct {
	ID        string         `json:"id"`
	Date      string         `json:"date"`
	Items     []CartItem     `json:"items"`
	Total     float64        `json:"total"`
	Status    string         `json:"status"`
	Payment   PaymentSummary `json:"payment"`
	InvoiceNo string         `json:"invoiceNo"`
	Invoice   Invoice        `json:"invoice"`
}

// ServiceOrderItem is one plan line of a panel/service order
type ServiceOrderItem struct {
	Plan  string  `json:"plan"`
	Tier  string  `json:"tier"`
	Term  string  `json:"term"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// ServiceOrder (panel order) lives in the service_orders collection.
// Cancellation flips Status; nothing else on it changes.
type ServiceOrder struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`
	Status      string             `json:"status"`
	Items       []ServiceOrderItem `json:"items"`
	PanelURL    string             `json:"panelUrl,omitempty"`
	AdminEmail  string             `json:"adminEmail,omitempty"`
	ActiveUntil string             `json:"activeUntil,omitempty"`
	Note        string             `json:"note,omitempty"`
}

// Total sums the order's lines
func (o ServiceOrder) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Qty)
	}
	return total
}

// OrderListResponse represents the response for listing a user's orders
type OrderListResponse struct {
	Orders        []OrderRecord  `json:"orders"`
	ServiceOrders []ServiceOrder `json:"serviceOrders"`
}
