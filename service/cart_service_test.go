package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-core/models"
	"storefront-core/repository"
)

func validCard() *models.NewCardInput {
	return &models.NewCardInput{Holder: "Ada Lovelace", Number: "4111111111111111", Expiry: "05/27", CVV: "123"}
}

func TestCart_AddIncrementDecrement(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	resp, err := env.carts.Add(ctx, models.AddCartItemRequest{ID: "basic", Name: "Basic", Price: 299})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Items[0].Qty)

	resp, err = env.carts.Add(ctx, models.AddCartItemRequest{ID: "pro", Name: "Pro", Price: 899, Qty: 2})
	require.NoError(t, err)
	assert.Equal(t, "pro", resp.Items[0].ID)

	resp, err = env.carts.Add(ctx, models.AddCartItemRequest{ID: "basic", Name: "Basic v2", Price: 349, Qty: -4})
	require.NoError(t, err)
	assert.Equal(t, models.CartItem{ID: "basic", Name: "Basic v2", Price: 349, Qty: 2}, resp.Items[1])
	assert.Equal(t, float64(2*899+2*349), resp.Total)
	assert.Equal(t, 4, resp.TotalQty)
	assert.Equal(t, "₺2.496", resp.TotalText)

	resp, err = env.carts.Increment(ctx, "pro")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Items[0].Qty)

	resp, err = env.carts.Decrement(ctx, "basic")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Items[1].Qty)

	resp, err = env.carts.Decrement(ctx, "basic")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "pro", resp.Items[0].ID)

	resp, err = env.carts.Remove(ctx, "pro")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCart_AddRejectsIncompleteLine(t *testing.T) {
	env := newTestEnv()

	_, err := env.carts.Add(context.Background(), models.AddCartItemRequest{ID: "x"})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCart_AddManySkipsInvalid(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	resp, err := env.carts.AddMany(ctx, []models.AddCartItemRequest{
		{ID: "a", Name: "A", Price: 10},
		{ID: "", Name: "B", Price: 10},
		{ID: "c", Name: "", Price: 10},
		{ID: "a", Name: "A", Price: 10, Qty: 2},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Qty)

	resp, err = env.carts.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	raw, found, err := env.store.Get(ctx, repository.CartKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", raw)
}

func TestCheckout_NewCardScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	require.NoError(t, env.cart.Save(ctx, []models.CartItem{{ID: "x", Name: "X", Price: 100, Qty: 2}}))

	order, err := env.carts.Checkout(ctx, models.PaymentSelection{NewCard: validCard()})
	require.NoError(t, err)
	assert.Equal(t, float64(200), order.Total)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.True(t, strings.HasPrefix(order.ID, "ORD-20260515-"))
	assert.True(t, strings.HasPrefix(order.InvoiceNo, "INV-20260515-"))
	assert.Equal(t, order.InvoiceNo, order.Invoice.No)
	assert.Equal(t, "TRY", order.Invoice.Currency)
	assert.Equal(t, models.PaymentSummary{Brand: models.BrandVisa, Last4: "1111", Holder: "Ada Lovelace", Expiry: "05/27"}, order.Payment)

	cart, err := env.carts.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	orders, err := env.orders.ListShopOrders(ctx, repository.GuestUserID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	wallet, err := env.wallet.Load(ctx, repository.GuestUserID)
	require.NoError(t, err)
	require.Len(t, wallet.List, 1)
	assert.Equal(t, "1111", wallet.List[0].Last4)
	require.NotNil(t, wallet.DefaultID)
	assert.Equal(t, wallet.List[0].ID, *wallet.DefaultID)
}

func TestCheckout_InvalidCardLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	items := []models.CartItem{{ID: "x", Name: "X", Price: 100, Qty: 2}}
	require.NoError(t, env.cart.Save(ctx, items))

	card := validCard()
	card.Number = "4111111111111112"
	_, err := env.carts.Checkout(ctx, models.PaymentSelection{NewCard: card})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "number", verr.Field)

	cart, err := env.carts.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, cart.Items)
	assert.Equal(t, float64(200), cart.Total)

	orders, err := env.orders.ListShopOrders(ctx, repository.GuestUserID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	wallet, err := env.wallet.Load(ctx, repository.GuestUserID)
	require.NoError(t, err)
	assert.Empty(t, wallet.List)
}

func TestCheckout_SavedCardAndStatistics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	wallet, err := env.wallet.Add(ctx, "ada@example.com", models.WalletCard{ID: "card_1", Brand: models.BrandMastercard, Holder: "Ada", Last4: "0004", Expiry: "12/28"})
	require.NoError(t, err)
	require.NotNil(t, wallet.DefaultID)

	_, err = env.carts.Add(ctx, models.AddCartItemRequest{ID: "pro", Name: "Pro", Price: 899})
	require.NoError(t, err)

	_, err = env.carts.Checkout(ctx, models.PaymentSelection{SavedCardID: "missing"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "savedCardId", verr.Field)

	order, err := env.carts.Checkout(ctx, models.PaymentSelection{SavedCardID: "card_1"})
	require.NoError(t, err)
	assert.Equal(t, "0004", order.Payment.Last4)
	assert.Equal(t, "ada@example.com", order.Invoice.Buyer.Email)
	assert.Equal(t, "Ada Lovelace", order.Invoice.Buyer.Name)

	assert.Equal(t, models.UserStats{Orders: 1, Spend: 899}, env.profile.Current().Stats)
	entry, err := env.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Orders: 1, Spend: 899}, entry.Stats)
}

func TestCheckout_EmptyCartAndMissingPayment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	_, err := env.carts.Checkout(ctx, models.PaymentSelection{NewCard: validCard()})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cart", verr.Field)

	_, err = env.carts.Add(ctx, models.AddCartItemRequest{ID: "x", Name: "X", Price: 1})
	require.NoError(t, err)
	_, err = env.carts.Checkout(ctx, models.PaymentSelection{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payment", verr.Field)
}

func TestCheckout_DoubleSubmitCreatesOneOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	require.NoError(t, env.cart.Save(ctx, []models.CartItem{{ID: "x", Name: "X", Price: 100, Qty: 1}}))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.carts.Checkout(ctx, models.PaymentSelection{NewCard: validCard()})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "cart", verr.Field)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	orders, err := env.orders.ListShopOrders(ctx, repository.GuestUserID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderID_UniqueWithinOneMillisecond(t *testing.T) {
	first, second := orderID(serviceNow), orderID(serviceNow)

	assert.NotEqual(t, first, second)
	assert.Regexp(t, `^ORD-20260515-\d{6}-[0-9A-F]{6}$`, first)
}
