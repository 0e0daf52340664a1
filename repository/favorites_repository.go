package repository

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"storefront-core/models"
)

// FavoritesName is the per-user collection of favorite products
const FavoritesName = "favorites"

// FavoritesRepository stores a user's favorite products, newest first
type FavoritesRepository struct {
	storage *UserStorage
}

// NewFavoritesRepository creates a new FavoritesRepository
func NewFavoritesRepository(storage *UserStorage) *FavoritesRepository {
	return &FavoritesRepository{storage: storage}
}

// Ensure FavoritesRepository implements FavoritesRepositoryInterface
var _ FavoritesRepositoryInterface = (*FavoritesRepository)(nil)

// List returns the user's favorites
func (r *FavoritesRepository) List(ctx context.Context, userID string) ([]models.FavoriteProduct, error) {
	favorites, err := LoadOr(ctx, r.storage, userID, FavoritesName, []models.FavoriteProduct{})
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []models.FavoriteProduct{}
	}
	return favorites, nil
}

// Add puts a product in front of the list; adding an existing id is a no-op
func (r *FavoritesRepository) Add(ctx context.Context, userID string, product models.FavoriteProduct) ([]models.FavoriteProduct, error) {
	product.ID = strings.TrimSpace(product.ID)
	if product.ID == "" {
		return nil, models.NewValidationError("id", "product id is required")
	}

	unlock := r.storage.Lock(userID, FavoritesName)
	defer unlock()

	favorites, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if indexOfFavorite(favorites, product.ID) >= 0 {
		return favorites, nil
	}
	if product.AddedDate == "" {
		product.AddedDate = nowFunc().Format("2006-01-02")
	}

	favorites = append([]models.FavoriteProduct{product}, favorites...)
	if err := r.storage.Save(ctx, userID, FavoritesName, favorites); err != nil {
		return nil, err
	}

	log.Printf("❤️  AddFavorite: user=%s product=%s", userID, product.ID)
	return favorites, nil
}

// Remove drops a product from the list
func (r *FavoritesRepository) Remove(ctx context.Context, userID, productID string) ([]models.FavoriteProduct, error) {
	unlock := r.storage.Lock(userID, FavoritesName)
	defer unlock()

	favorites, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOfFavorite(favorites, strings.TrimSpace(productID))
	if i < 0 {
		return favorites, nil
	}
	favorites = append(favorites[:i], favorites[i+1:]...)
	if err := r.storage.Save(ctx, userID, FavoritesName, favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// Toggle adds the product when absent and removes it otherwise; it reports the new state
func (r *FavoritesRepository) Toggle(ctx context.Context, userID string, product models.FavoriteProduct) (bool, error) {
	isFavorite, err := r.IsFavorite(ctx, userID, product.ID)
	if err != nil {
		return false, err
	}
	if isFavorite {
		_, err = r.Remove(ctx, userID, product.ID)
		return false, err
	}
	_, err = r.Add(ctx, userID, product)
	return err == nil, err
}

// IsFavorite reports whether the product is in the user's list
func (r *FavoritesRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	favorites, err := r.List(ctx, userID)
	if err != nil {
		return false, err
	}
	return indexOfFavorite(favorites, strings.TrimSpace(productID)) >= 0, nil
}

func indexOfFavorite(list []models.FavoriteProduct, id string) int {
	for i, f := range list {
		if f.ID == id {
			return i
		}
	}
	return -1
}
