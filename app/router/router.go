package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-core/app/controller"
)

type Controllers struct {
	Catalog   *controller.CatalogController
	Profile   *controller.ProfileController
	Cart      *controller.CartController
	Wallet    *controller.WalletController
	Rating    *controller.RatingController
	Favorites *controller.FavoritesController
	UserData  *controller.UserDataController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter registers every route and exposes reg on /metrics
func NewRouter(controllers *Controllers, reg *prometheus.Registry) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Catalog routes
	r.HandleFunc("/catalog", controllers.Catalog.List).Methods(http.MethodGet)
	r.HandleFunc("/catalog", controllers.Catalog.Upsert).Methods(http.MethodPost)
	r.HandleFunc("/catalog", controllers.Catalog.Purge).Methods(http.MethodDelete)
	r.HandleFunc("/catalog/export", controllers.Catalog.Export).Methods(http.MethodGet)
	r.HandleFunc("/catalog/import", controllers.Catalog.Import).Methods(http.MethodPost)
	r.HandleFunc("/catalog/{id}", controllers.Catalog.Update).Methods(http.MethodPut)
	r.HandleFunc("/catalog/{id}", controllers.Catalog.Delete).Methods(http.MethodDelete)

	// Profile and auth routes
	r.HandleFunc("/profile", controllers.Profile.GetProfile).Methods(http.MethodGet)
	r.HandleFunc("/profile", controllers.Profile.Update).Methods(http.MethodPatch)
	r.HandleFunc("/profile/hydrate", controllers.Profile.Hydrate).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", controllers.Profile.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/sign-in", controllers.Profile.SignIn).Methods(http.MethodPost)
	r.HandleFunc("/auth/sign-out", controllers.Profile.SignOut).Methods(http.MethodPost)
	r.HandleFunc("/auth/reset-password", controllers.Profile.ResetPassword).Methods(http.MethodPost)
	r.HandleFunc("/admin/grants", controllers.Profile.GrantAdmin).Methods(http.MethodPost)

	// Cart and checkout routes
	r.HandleFunc("/cart", controllers.Cart.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart", controllers.Cart.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", controllers.Cart.AddItems).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/increment", controllers.Cart.Increment).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/decrement", controllers.Cart.Decrement).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}", controllers.Cart.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/checkout", controllers.Cart.Checkout).Methods(http.MethodPost)

	// Per-user routes
	users := r.PathPrefix("/users/{userId}").Subrouter()
	users.HandleFunc("/orders", controllers.Cart.ListOrders).Methods(http.MethodGet)
	users.HandleFunc("/service-orders", controllers.Cart.AddServiceOrder).Methods(http.MethodPost)
	users.HandleFunc("/service-orders/{id}/cancel", controllers.Cart.CancelServiceOrder).Methods(http.MethodPost)
	users.HandleFunc("/cards", controllers.Wallet.ListCards).Methods(http.MethodGet)
	users.HandleFunc("/cards", controllers.Wallet.AddCard).Methods(http.MethodPost)
	users.HandleFunc("/cards/default", controllers.Wallet.SetDefault).Methods(http.MethodPut)
	users.HandleFunc("/cards/{id}", controllers.Wallet.RemoveCard).Methods(http.MethodDelete)
	users.HandleFunc("/favorites", controllers.Favorites.List).Methods(http.MethodGet)
	users.HandleFunc("/favorites", controllers.Favorites.Add).Methods(http.MethodPost)
	users.HandleFunc("/favorites/{productId}", controllers.Favorites.Check).Methods(http.MethodGet)
	users.HandleFunc("/favorites/{productId}", controllers.Favorites.Remove).Methods(http.MethodDelete)
	users.HandleFunc("/favorites/{productId}/toggle", controllers.Favorites.Toggle).Methods(http.MethodPost)
	users.HandleFunc("/keys", controllers.UserData.ListKeys).Methods(http.MethodGet)
	users.HandleFunc("/data", controllers.UserData.ClearAll).Methods(http.MethodDelete)

	// Rating routes
	r.HandleFunc("/ratings", controllers.Rating.GetBulk).Methods(http.MethodGet)
	r.HandleFunc("/ratings/{productId}", controllers.Rating.GetAverage).Methods(http.MethodGet)
	r.HandleFunc("/ratings/{productId}", controllers.Rating.Rate).Methods(http.MethodPut)

	return newHTTPMetrics(reg).instrument(r)
}
