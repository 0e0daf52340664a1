package controller

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"storefront-core/models"
	"storefront-core/repository"
)

// RatingController handles product ratings
type RatingController struct {
	ratings repository.RatingRepositoryInterface
}

// NewRatingController creates a new RatingController
func NewRatingController(ratings repository.RatingRepositoryInterface) *RatingController {
	return &RatingController{ratings: ratings}
}

// ProductRatingResponse is the average of a product plus, when asked, one user's stars
type ProductRatingResponse struct {
	models.RatingSummary
	UserRating *int `json:"userRating,omitempty"`
}

// Rate handles PUT /ratings/{productId}
func (c *RatingController) Rate(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	var req models.RateRequest
	if !decodeBody(w, r, "Rate", &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "userId is required", Field: "userId"})
		return
	}

	if err := c.ratings.SetRating(r.Context(), req.UserID, productID, req.Stars); err != nil {
		writeError(w, "Rate", err)
		return
	}
	c.respondAverage(w, r, productID, req.UserID)
}

// GetAverage handles GET /ratings/{productId}?userId=
func (c *RatingController) GetAverage(w http.ResponseWriter, r *http.Request) {
	c.respondAverage(w, r, mux.Vars(r)["productId"], r.URL.Query().Get("userId"))
}

func (c *RatingController) respondAverage(w http.ResponseWriter, r *http.Request, productID, userID string) {
	summary, err := c.ratings.GetAverage(r.Context(), productID)
	if err != nil {
		writeError(w, "GetAverage", err)
		return
	}
	resp := ProductRatingResponse{RatingSummary: summary}
	if userID != "" {
		resp.UserRating, err = c.ratings.GetUserRating(r.Context(), userID, productID)
		if err != nil {
			writeError(w, "GetAverage", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBulk handles GET /ratings?ids=a,b
func (c *RatingController) GetBulk(w http.ResponseWriter, r *http.Request) {
	ids := strings.Split(r.URL.Query().Get("ids"), ",")
	averages, err := c.ratings.GetAveragesBulk(r.Context(), ids)
	if err != nil {
		writeError(w, "GetAveragesBulk", err)
		return
	}
	writeJSON(w, http.StatusOK, averages)
}
