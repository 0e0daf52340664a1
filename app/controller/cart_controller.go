package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"storefront-core/models"
	"storefront-core/service"
)

// CartController handles the cart, checkout and order history
type CartController struct {
	cart   service.CartServiceInterface
	orders service.OrderServiceInterface
}

// NewCartController creates a new CartController
func NewCartController(cart service.CartServiceInterface, orders service.OrderServiceInterface) *CartController {
	return &CartController{cart: cart, orders: orders}
}

// GetCart handles GET /cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	resp, err := c.cart.Items(r.Context())
	if err != nil {
		writeError(w, "GetCart", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClearCart handles DELETE /cart
func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	resp, err := c.cart.Clear(r.Context())
	if err != nil {
		writeError(w, "ClearCart", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddItems handles POST /cart/items
// The body is one line object or an array of lines
func (c *CartController) AddItems(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddCartItems: Received %s request to %s", r.Method, r.URL.Path)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
		return
	}

	var resp models.CartResponse
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var reqs []models.AddCartItemRequest
		if err := json.Unmarshal(trimmed, &reqs); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
		resp, err = c.cart.AddMany(r.Context(), reqs)
	} else {
		var req models.AddCartItemRequest
		if err := json.Unmarshal(trimmed, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
		resp, err = c.cart.Add(r.Context(), req)
	}
	if err != nil {
		writeError(w, "AddCartItems", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Increment handles POST /cart/items/{id}/increment
func (c *CartController) Increment(w http.ResponseWriter, r *http.Request) {
	resp, err := c.cart.Increment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "IncrementCartItem", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Decrement handles POST /cart/items/{id}/decrement
func (c *CartController) Decrement(w http.ResponseWriter, r *http.Request) {
	resp, err := c.cart.Decrement(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "DecrementCartItem", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RemoveItem handles DELETE /cart/items/{id}
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	resp, err := c.cart.Remove(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "RemoveCartItem", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Checkout handles POST /checkout
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Checkout: Received %s request to %s", r.Method, r.URL.Path)

	var selection models.PaymentSelection
	if !decodeBody(w, r, "Checkout", &selection) {
		return
	}

	order, err := c.cart.Checkout(r.Context(), selection)
	if err != nil {
		writeError(w, "Checkout", err)
		return
	}

	log.Printf("✅ Checkout: Created order %s", order.ID)
	writeJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /users/{userId}/orders
func (c *CartController) ListOrders(w http.ResponseWriter, r *http.Request) {
	resp, err := c.orders.ListOrders(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, "ListOrders", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddServiceOrder handles POST /users/{userId}/service-orders
func (c *CartController) AddServiceOrder(w http.ResponseWriter, r *http.Request) {
	var order models.ServiceOrder
	if !decodeBody(w, r, "AddServiceOrder", &order) {
		return
	}

	created, err := c.orders.AddServiceOrder(r.Context(), mux.Vars(r)["userId"], order)
	if err != nil {
		writeError(w, "AddServiceOrder", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CancelServiceOrder handles POST /users/{userId}/service-orders/{id}/cancel
func (c *CartController) CancelServiceOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cancelled, err := c.orders.CancelServiceOrder(r.Context(), vars["userId"], vars["id"])
	if err != nil {
		writeError(w, "CancelServiceOrder", err)
		return
	}
	writeJSON(w, http.StatusOK, cancelled)
}
