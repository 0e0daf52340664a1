package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront-core/models"
	"storefront-core/repository"
)

// FavoritesController handles a user's favorite products
type FavoritesController struct {
	favorites repository.FavoritesRepositoryInterface
}

// NewFavoritesController creates a new FavoritesController
func NewFavoritesController(favorites repository.FavoritesRepositoryInterface) *FavoritesController {
	return &FavoritesController{favorites: favorites}
}

// List handles GET /users/{userId}/favorites
func (c *FavoritesController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.favorites.List(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, "ListFavorites", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Add handles POST /users/{userId}/favorites
func (c *FavoritesController) Add(w http.ResponseWriter, r *http.Request) {
	var product models.FavoriteProduct
	if !decodeBody(w, r, "AddFavorite", &product) {
		return
	}

	list, err := c.favorites.Add(r.Context(), mux.Vars(r)["userId"], product)
	if err != nil {
		writeError(w, "AddFavorite", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Toggle handles POST /users/{userId}/favorites/{productId}/toggle
func (c *FavoritesController) Toggle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var product models.FavoriteProduct
	if !decodeBody(w, r, "ToggleFavorite", &product) {
		return
	}
	product.ID = vars["productId"]

	on, err := c.favorites.Toggle(r.Context(), vars["userId"], product)
	if err != nil {
		writeError(w, "ToggleFavorite", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": on})
}

// Check handles GET /users/{userId}/favorites/{productId}
func (c *FavoritesController) Check(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	on, err := c.favorites.IsFavorite(r.Context(), vars["userId"], vars["productId"])
	if err != nil {
		writeError(w, "CheckFavorite", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": on})
}

// Remove handles DELETE /users/{userId}/favorites/{productId}
func (c *FavoritesController) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := c.favorites.Remove(r.Context(), vars["userId"], vars["productId"])
	if err != nil {
		writeError(w, "RemoveFavorite", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
