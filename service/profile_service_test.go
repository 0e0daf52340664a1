package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-core/kvstore"
	"storefront-core/models"
	"storefront-core/repository"
)

func registerAndSignIn(t *testing.T, env *testEnv, email string) models.SessionProfile {
	t.Helper()
	ctx := context.Background()
	_, err := env.profile.Register(ctx, models.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: email, Password: "correct-horse"})
	require.NoError(t, err)
	profile, err := env.profile.SignIn(ctx, models.SignInRequest{Email: email, Password: "correct-horse"})
	require.NoError(t, err)
	return profile
}

func strPtr(s string) *string { return &s }

func TestProfile_HydrateWithoutSessionIsEmpty(t *testing.T) {
	env := newTestEnv()

	profile, err := env.profile.Hydrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profile.Email)
	assert.Empty(t, env.profile.UserID())
}

func TestProfile_RegisterAndSignIn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	record, err := env.profile.Register(ctx, models.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", record.Email)
	assert.Equal(t, models.RoleUser, record.Role)
	assert.Empty(t, record.PasswordHash)

	stored, err := env.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)

	_, err = env.profile.Register(ctx, models.RegisterRequest{FirstName: "Ada", Email: "ADA@example.com", Password: "another-one"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = env.profile.Register(ctx, models.RegisterRequest{FirstName: "Bob", Email: "bob@example.com", Password: "short"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	_, err = env.profile.SignIn(ctx, models.SignInRequest{Email: "ada@example.com", Password: "wrong-password"})
	require.ErrorAs(t, err, &verr)

	profile, err := env.profile.SignIn(ctx, models.SignInRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Empty(t, profile.PasswordHash)

	auth, err := env.users.AuthEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", auth)

	session, err := env.users.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Empty(t, session.PasswordHash)
}

func TestProfile_SignInUpgradesLegacyPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	require.NoError(t, env.store.Set(ctx, repository.UsersKey, `[{"email":"old@example.com","name":"Old Timer","password":"plain-text"}]`))

	profile, err := env.profile.SignIn(ctx, models.SignInRequest{Email: "old@example.com", Password: "plain-text"})
	require.NoError(t, err)
	assert.Equal(t, "old@example.com", profile.Email)

	stored, err := env.users.FindByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored.LegacyPassword)
	assert.NotEmpty(t, stored.PasswordHash)

	require.NoError(t, env.profile.SignOut(ctx))
	_, err = env.profile.SignIn(ctx, models.SignInRequest{Email: "old@example.com", Password: "plain-text"})
	require.NoError(t, err)
}

func TestProfile_HydrateFallsBackToSessionCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	require.NoError(t, env.users.SetAuthEmail(ctx, "cached@example.com"))
	require.NoError(t, env.users.SaveSession(ctx, models.SessionProfile{Email: "cached@example.com", Name: "Cached User"}))

	profile, err := env.profile.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached@example.com", profile.Email)

	require.NoError(t, env.users.SaveSession(ctx, models.SessionProfile{Email: "someone-else@example.com"}))
	profile, err = env.profile.Hydrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, profile.Email)
}

func TestProfile_UpdateRelocatesEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	profile, err := env.profile.Update(ctx, models.ProfilePatch{Email: strPtr("Ada.King@Example.com"), Phone: strPtr(" 555 ")})
	require.NoError(t, err)
	assert.Equal(t, "ada.king@example.com", profile.Email)
	assert.Equal(t, "555", profile.Phone)

	_, err = env.users.FindByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	moved, err := env.users.FindByEmail(ctx, "ada.king@example.com")
	require.NoError(t, err)
	assert.Equal(t, "555", moved.Phone)
	assert.NotEmpty(t, moved.PasswordHash)

	auth, err := env.users.AuthEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada.king@example.com", auth)

	users, err := env.users.LoadDirectory(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestProfile_UpdateRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	_, err := env.profile.Register(ctx, models.RegisterRequest{FirstName: "Bob", Email: "bob@example.com", Password: "bob-password"})
	require.NoError(t, err)
	registerAndSignIn(t, env, "ada@example.com")

	_, err = env.profile.Update(ctx, models.ProfilePatch{Email: strPtr("bob@example.com")})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ada@example.com", env.profile.Current().Email)
}

func TestProfile_UpdateRollsBackOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	env.store.failWrites.Store(true)
	_, err := env.profile.Update(ctx, models.ProfilePatch{Address: strPtr("London")})
	assert.ErrorIs(t, err, kvstore.ErrStorageUnavailable)
	assert.Empty(t, env.profile.Current().Address)
}

func TestProfile_RecomputeStatistics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	require.NoError(t, env.orders.PrependShopOrder(ctx, "ada@example.com", models.OrderRecord{ID: "ORD-1", Total: 200}))
	_, err := env.orders.AddServiceOrder(ctx, "ada@example.com", models.ServiceOrder{
		ID:    "SRV-1",
		Items: []models.ServiceOrderItem{{Plan: "Panel", Qty: 1, Price: 1499}},
	})
	require.NoError(t, err)
	_, err = env.orders.AddServiceOrder(ctx, "ada@example.com", models.ServiceOrder{
		ID:          "SRV-2",
		ActiveUntil: "2026-01-01T00:00:00Z",
		Items:       []models.ServiceOrderItem{{Plan: "Panel", Qty: 1, Price: 100}},
	})
	require.NoError(t, err)
	_, err = env.orders.AddServiceOrder(ctx, "ada@example.com", models.ServiceOrder{
		ID:     "SRV-3",
		Status: models.ServiceStatusCancelled,
		Items:  []models.ServiceOrderItem{{Plan: "Panel", Qty: 2, Price: 999}},
	})
	require.NoError(t, err)

	stats, err := env.profile.RecomputeStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Orders: 4, Packages: 1, Spend: 1799}, stats)
	assert.Equal(t, stats, env.profile.Current().Stats)

	entry, err := env.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, stats, entry.Stats)

	session, err := env.users.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, session.Stats)
}

func TestProfile_AddOrderIsSupersededByRecompute(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	env.profile.AddOrder(50)
	assert.Equal(t, 1, env.profile.Current().Stats.Orders)

	_, err := env.profile.RecomputeStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{}, env.profile.Current().Stats)
}

func TestProfile_SignOutAndGrantAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	granted, err := env.profile.GrantAdmin(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, granted.Role)
	assert.Equal(t, AdminPermissions, granted.Permissions)
	assert.Equal(t, models.RoleAdmin, env.profile.Current().Role)

	_, err = env.profile.GrantAdmin(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, env.profile.SignOut(ctx))
	assert.Empty(t, env.profile.UserID())

	for _, key := range []string{repository.AuthEmailKey, repository.CurrentUserEmailKey, repository.UserProfileKey} {
		_, found, err := env.store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, key)
	}

	_, err = env.users.FindByEmail(ctx, "ada@example.com")
	assert.NoError(t, err)
}

func TestProfile_ResetPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")
	require.NoError(t, env.profile.SignOut(ctx))

	require.NoError(t, env.profile.ResetPassword(ctx, "ada@example.com", "brand-new-secret"))
	_, err := env.profile.SignIn(ctx, models.SignInRequest{Email: "ada@example.com", Password: "brand-new-secret"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.profile.ResetPassword(ctx, "nobody@example.com", "brand-new-secret"), repository.ErrNotFound)
}

func TestDeriveStatistics_Empty(t *testing.T) {
	assert.Equal(t, models.UserStats{}, DeriveStatistics(nil, nil, serviceNow))
}

func TestProfile_UpdateEmailKeepsOrderHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	require.NoError(t, env.cart.Save(ctx, []models.CartItem{{ID: "x", Name: "X", Price: 100, Qty: 2}}))
	_, err := env.carts.Checkout(ctx, models.PaymentSelection{NewCard: validCard()})
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Orders: 1, Spend: 200}, env.profile.Current().Stats)

	_, err = env.profile.Update(ctx, models.ProfilePatch{Email: strPtr("ada.new@example.com")})
	require.NoError(t, err)

	profile, err := env.profile.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada.new@example.com", profile.Email)
	assert.Equal(t, models.UserStats{Orders: 1, Spend: 200}, profile.Stats)

	orders, err := env.orders.ListShopOrders(ctx, "ada.new@example.com")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	wallet, err := env.wallet.Load(ctx, "ada.new@example.com")
	require.NoError(t, err)
	assert.Len(t, wallet.List, 1)

	left, err := env.storage.ListKeys(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestProfile_UpdateToTakenEmailMovesNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	_, err := env.profile.Register(ctx, models.RegisterRequest{FirstName: "Bob", Email: "bob@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	registerAndSignIn(t, env, "ada@example.com")
	require.NoError(t, env.orders.PrependShopOrder(ctx, "ada@example.com", models.OrderRecord{ID: "ORD-1", Total: 50}))

	_, err = env.profile.Update(ctx, models.ProfilePatch{Email: strPtr("bob@example.com")})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, "ada@example.com", env.profile.UserID())

	orders, err := env.orders.ListShopOrders(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	keys, err := env.storage.ListKeys(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestProfile_PhoneKeepsDigitsOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	registerAndSignIn(t, env, "ada@example.com")

	profile, err := env.profile.Update(ctx, models.ProfilePatch{Phone: strPtr(" +90 (555) 123-45 ")})
	require.NoError(t, err)
	assert.Equal(t, "9055512345", profile.Phone)

	record, err := env.profile.Register(ctx, models.RegisterRequest{FirstName: "Bob", Email: "bob@example.com", Password: "correct-horse", Phone: "555 01 02"})
	require.NoError(t, err)
	assert.Equal(t, "5550102", record.Phone)
}
