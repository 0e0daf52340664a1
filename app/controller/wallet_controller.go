package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"storefront-core/models"
	"storefront-core/repository"
	"storefront-core/service"
)

// WalletController handles a user's saved cards
type WalletController struct {
	wallet repository.WalletRepositoryInterface
}

// NewWalletController creates a new WalletController
func NewWalletController(wallet repository.WalletRepositoryInterface) *WalletController {
	return &WalletController{wallet: wallet}
}

// ListCards handles GET /users/{userId}/cards
func (c *WalletController) ListCards(w http.ResponseWriter, r *http.Request) {
	wallet, err := c.wallet.Load(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, "ListCards", err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// AddCard handles POST /users/{userId}/cards
// The full number and CVV are validated and then dropped; only last4 is stored
func (c *WalletController) AddCard(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	log.Printf("📥 AddCard: user=%s", userID)

	var input models.NewCardInput
	if !decodeBody(w, r, "AddCard", &input) {
		return
	}

	card, err := service.ValidateNewCard(input, time.Now())
	if err != nil {
		writeError(w, "AddCard", err)
		return
	}

	wallet, err := c.wallet.Add(r.Context(), userID, card)
	if err != nil {
		writeError(w, "AddCard", err)
		return
	}
	writeJSON(w, http.StatusCreated, wallet)
}

// RemoveCard handles DELETE /users/{userId}/cards/{id}
func (c *WalletController) RemoveCard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	wallet, err := c.wallet.Remove(r.Context(), vars["userId"], vars["id"])
	if err != nil {
		writeError(w, "RemoveCard", err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// SetDefault handles PUT /users/{userId}/cards/default
func (c *WalletController) SetDefault(w http.ResponseWriter, r *http.Request) {
	var req models.SetDefaultCardRequest
	if !decodeBody(w, r, "SetDefaultCard", &req) {
		return
	}

	wallet, err := c.wallet.SetDefault(r.Context(), mux.Vars(r)["userId"], req.ID)
	if err != nil {
		writeError(w, "SetDefaultCard", err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}
