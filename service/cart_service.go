package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"storefront-core/models"
	"storefront-core/pricing"
	"storefront-core/repository"
	"storefront-core/utils"
)

// CartService handles the single active cart and the cart-to-order transition
type CartService struct {
	cart    repository.CartRepositoryInterface
	orders  repository.OrderRepositoryInterface
	wallet  repository.WalletRepositoryInterface
	profile ProfileProvider
	now     func() time.Time
}

// NewCartService creates a new CartService
func NewCartService(cart repository.CartRepositoryInterface, orders repository.OrderRepositoryInterface, wallet repository.WalletRepositoryInterface, profile ProfileProvider) *CartService {
	return &CartService{
		cart:    cart,
		orders:  orders,
		wallet:  wallet,
		profile: profile,
		now:     time.Now,
	}
}

// Ensure CartService implements CartServiceInterface
var _ CartServiceInterface = (*CartService)(nil)

// NewCartResponse computes the totals shown next to the cart
func NewCartResponse(items []models.CartItem) models.CartResponse {
	if items == nil {
		items = []models.CartItem{}
	}
	total := pricing.CartTotal(items)
	return models.CartResponse{
		Items:     items,
		Total:     total,
		TotalText: utils.FormatTRY(total),
		TotalQty:  pricing.CartQuantity(items),
	}
}

// Items returns the current cart
func (s *CartService) Items(ctx context.Context) (models.CartResponse, error) {
	items, err := s.cart.Load(ctx)
	if err != nil {
		return NewCartResponse(nil), err
	}
	return NewCartResponse(items), nil
}

func cartLine(req models.AddCartItemRequest) (models.CartItem, bool) {
	item := models.CartItem{
		ID:    strings.TrimSpace(req.ID),
		Name:  strings.TrimSpace(req.Name),
		Price: req.Price,
		Qty:   req.Qty,
	}
	if item.Qty < 1 {
		item.Qty = 1
	}
	if item.ID == "" || item.Name == "" || item.Price < 0 || math.IsNaN(item.Price) {
		return item, false
	}
	return item, true
}

// merge adds qty to an existing line (refreshing its name and price) or puts a new line first
func merge(items []models.CartItem, line models.CartItem) []models.CartItem {
	for i := range items {
		if items[i].ID == line.ID {
			items[i].Qty += line.Qty
			items[i].Name = line.Name
			items[i].Price = line.Price
			return items
		}
	}
	return append([]models.CartItem{line}, items...)
}

// Add puts qty units (at least one) of an item in the cart
func (s *CartService) Add(ctx context.Context, req models.AddCartItemRequest) (models.CartResponse, error) {
	line, ok := cartLine(req)
	if !ok {
		resp, err := s.Items(ctx)
		if err != nil {
			return resp, err
		}
		return resp, models.NewValidationError("item", "id and name are required and price must not be negative")
	}
	log.Printf("🛒 AddToCart: id=%s qty=%d", line.ID, line.Qty)

	items, err := s.cart.Mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		return merge(items, line), nil
	})
	return NewCartResponse(items), err
}

// AddMany adds several lines in one write, skipping lines without id or name
func (s *CartService) AddMany(ctx context.Context, reqs []models.AddCartItemRequest) (models.CartResponse, error) {
	items, err := s.cart.Mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		for _, req := range reqs {
			if line, ok := cartLine(req); ok {
				items = merge(items, line)
			}
		}
		return items, nil
	})
	return NewCartResponse(items), err
}

// Increment adds one unit to a line already in the cart
func (s *CartService) Increment(ctx context.Context, id string) (models.CartResponse, error) {
	items, err := s.cart.Mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Qty++
			}
		}
		return items, nil
	})
	return NewCartResponse(items), err
}

// Decrement removes one unit; the last unit removes the line
func (s *CartService) Decrement(ctx context.Context, id string) (models.CartResponse, error) {
	items, err := s.cart.Mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		out := make([]models.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID == id {
				item.Qty--
				if item.Qty < 1 {
					continue
				}
			}
			out = append(out, item)
		}
		return out, nil
	})
	return NewCartResponse(items), err
}

// Remove deletes a line
func (s *CartService) Remove(ctx context.Context, id string) (models.CartResponse, error) {
	items, err := s.cart.Mutate(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		out := make([]models.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID != id {
				out = append(out, item)
			}
		}
		return out, nil
	})
	return NewCartResponse(items), err
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context) (models.CartResponse, error) {
	items, err := s.cart.Mutate(ctx, func([]models.CartItem) ([]models.CartItem, error) {
		return []models.CartItem{}, nil
	})
	return NewCartResponse(items), err
}

// Checkout validates the payment, saves a newly entered card as the default,
// records the order newest-first, clears the cart and refreshes statistics.
// The cart lock is held throughout, so a repeated submission sees the empty cart.
func (s *CartService) Checkout(ctx context.Context, selection models.PaymentSelection) (*models.OrderRecord, error) {
	unlock := s.cart.Lock()
	defer unlock()

	items, err := s.cart.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NewValidationError("cart", "cart is empty")
	}

	userID := s.profile.UserID()
	if userID == "" {
		userID = repository.GuestUserID
	}
	now := s.now()

	payment, err := s.resolvePayment(ctx, userID, selection, now)
	if err != nil {
		return nil, err
	}

	profile := s.profile.Current()
	buyer := models.InvoiceBuyer{
		Name:    utils.FullName(profile.FirstName, profile.LastName, profile.Name),
		Email:   profile.Email,
		Address: profile.Address,
	}
	invoice := pricing.BuildInvoice(invoiceNumber(now), now, buyer, items)
	order := models.OrderRecord{
		ID:        orderID(now),
		Date:      now.UTC().Format(time.RFC3339),
		Items:     items,
		Total:     invoice.Total,
		Status:    models.OrderStatusPaid,
		Payment:   payment,
		InvoiceNo: invoice.No,
		Invoice:   invoice,
	}

	if err := s.orders.PrependShopOrder(ctx, userID, order); err != nil {
		log.Errorf("❌ Checkout: Failed to store order %s: %v", order.ID, err)
		return nil, fmt.Errorf("failed to store order: %w", err)
	}
	if err := s.cart.Save(ctx, []models.CartItem{}); err != nil {
		log.Errorf("❌ Checkout: Order %s stored but cart was not cleared: %v", order.ID, err)
		return &order, fmt.Errorf("failed to clear cart: %w", err)
	}

	s.profile.AddOrder(order.Total)
	if _, err := s.profile.RecomputeStatistics(ctx); err != nil {
		log.Errorf("❌ Checkout: Failed to recompute statistics: %v", err)
	}

	log.Printf("✅ Checkout: order=%s user=%s total=%s", order.ID, userID, utils.FormatTRY(order.Total))
	return &order, nil
}

func (s *CartService) resolvePayment(ctx context.Context, userID string, selection models.PaymentSelection, now time.Time) (models.PaymentSummary, error) {
	if selection.NewCard != nil {
		card, err := ValidateNewCard(*selection.NewCard, now)
		if err != nil {
			return models.PaymentSummary{}, err
		}
		wallet, err := s.wallet.Add(ctx, userID, card)
		if err != nil {
			return models.PaymentSummary{}, err
		}
		saved := wallet.List[0]
		if _, err := s.wallet.SetDefault(ctx, userID, saved.ID); err != nil {
			return models.PaymentSummary{}, err
		}
		return summaryOf(saved), nil
	}

	id := strings.TrimSpace(selection.SavedCardID)
	if id == "" {
		return models.PaymentSummary{}, models.NewValidationError("payment", "choose a saved card or enter a new one")
	}
	card, err := s.wallet.Find(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.PaymentSummary{}, models.NewValidationError("savedCardId", "saved card not found")
	}
	if err != nil {
		return models.PaymentSummary{}, err
	}
	return summaryOf(*card), nil
}

func summaryOf(card models.WalletCard) models.PaymentSummary {
	return models.PaymentSummary{
		Brand:  card.Brand,
		Last4:  card.Last4,
		Holder: card.Holder,
		Expiry: card.Expiry,
	}
}

// orderID is ORD-YYYYMMDD-<last six digits of the unix millisecond clock>-<random hex>
func orderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%06d-%s", now.Format("20060102"), now.UnixMilli()%1000000, suffix)
}

// invoiceNumber is INV-YYYYMMDD-<1000..9999>
func invoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%d", now.Format("20060102"), 1000+rand.Intn(9000))
}
