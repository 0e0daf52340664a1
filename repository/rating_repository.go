package repository

import (
	"context"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"storefront-core/kvstore"
	"storefront-core/models"
)

// RatingsKey holds {productId: {userId: stars}} for every product
const RatingsKey = "@ratings"

type ratingTable map[string]map[string]int

// RatingRepository stores per-product, per-user star ratings
type RatingRepository struct {
	store kvstore.Store
	locks *kvstore.KeyedMutex
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(store kvstore.Store, locks *kvstore.KeyedMutex) *RatingRepository {
	return &RatingRepository{store: store, locks: locks}
}

// Ensure RatingRepository implements RatingRepositoryInterface
var _ RatingRepositoryInterface = (*RatingRepository)(nil)

// load decodes the table leniently; entries that are not 1..5 numbers are ignored
func (r *RatingRepository) load(ctx context.Context) (ratingTable, error) {
	table := ratingTable{}
	raw, err := readRaw(ctx, r.store, RatingsKey)
	if err != nil || raw == nil {
		return table, err
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		log.Warnf("⚠️  Ratings: %s is not an object, treating it as empty", RatingsKey)
		return table, nil
	}
	root.ForEach(func(product, raters gjson.Result) bool {
		if !raters.IsObject() {
			return true
		}
		byUser := map[string]int{}
		raters.ForEach(func(user, stars gjson.Result) bool {
			if n, ok := validStars(stars.Float(), stars.Type == gjson.Number); ok {
				byUser[user.String()] = n
			}
			return true
		})
		if len(byUser) > 0 {
			table[product.String()] = byUser
		}
		return true
	})
	return table, nil
}

func validStars(v float64, isNumber bool) (int, bool) {
	if !isNumber || math.IsNaN(v) || v < 1 || v > 5 {
		return 0, false
	}
	return int(math.Round(v)), true
}

// SetRating stores stars for one user and product. nil, 0 and anything outside 1..5
// delete the entry; a product left without raters is removed from the table.
func (r *RatingRepository) SetRating(ctx context.Context, userID, productID string, stars *float64) error {
	userID = strings.TrimSpace(userID)
	productID = strings.TrimSpace(productID)
	if userID == "" || productID == "" {
		return nil
	}

	unlock := r.locks.Lock(RatingsKey)
	defer unlock()

	table, err := r.load(ctx)
	if err != nil {
		return err
	}

	var n int
	ok := false
	if stars != nil {
		n, ok = validStars(*stars, true)
	}

	if ok {
		if table[productID] == nil {
			table[productID] = map[string]int{}
		}
		table[productID][userID] = n
		log.Printf("⭐ SetRating: product=%s user=%s stars=%d", productID, userID, n)
	} else {
		delete(table[productID], userID)
		if len(table[productID]) == 0 {
			delete(table, productID)
		}
		log.Printf("⭐ SetRating: Cleared rating product=%s user=%s", productID, userID)
	}

	return writeJSON(ctx, r.store, RatingsKey, table)
}

// GetUserRating returns the user's stars for a product, nil when unrated
func (r *RatingRepository) GetUserRating(ctx context.Context, userID, productID string) (*int, error) {
	table, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	n, ok := table[strings.TrimSpace(productID)][strings.TrimSpace(userID)]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// GetAverage returns the mean rating of a product
func (r *RatingRepository) GetAverage(ctx context.Context, productID string) (models.RatingSummary, error) {
	table, err := r.load(ctx)
	if err != nil {
		return models.RatingSummary{}, err
	}
	return summarize(table[strings.TrimSpace(productID)]), nil
}

// GetAveragesBulk computes averages for many products from a single read
func (r *RatingRepository) GetAveragesBulk(ctx context.Context, productIDs []string) (map[string]models.RatingSummary, error) {
	table, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.RatingSummary, len(productIDs))
	for _, id := range productIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out[id] = summarize(table[id])
	}
	return out, nil
}

func summarize(byUser map[string]int) models.RatingSummary {
	if len(byUser) == 0 {
		return models.RatingSummary{Avg: 0, Count: 0}
	}
	sum := 0
	for _, n := range byUser {
		sum += n
	}
	return models.RatingSummary{Avg: float64(sum) / float64(len(byUser)), Count: len(byUser)}
}
