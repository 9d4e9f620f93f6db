package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/model"
	"github.com/marketloop/marketloop/server/middlewares"
	"github.com/marketloop/marketloop/service"
)

// reviewPayload is the wire shape of one review.
type reviewPayload struct {
	Id     int64             `json:"id"`
	ItemId int64             `json:"item_id"`
	User   string            `json:"user"`
	Date   string            `json:"date"`
	Score  model.ReviewScore `json:"score"`
	Remark string            `json:"remark"`
}

func toReviewPayloads(reviews []model.Review) []reviewPayload {
	out := make([]reviewPayload, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewPayload{
			Id:     r.Id,
			ItemId: r.ItemID,
			User:   r.UserID,
			Date:   time.Time(r.ReviewDate).Format("2006-01-02"),
			Score:  r.Score,
			Remark: r.Remark,
		})
	}
	return out
}

// CreateReview submits a review for an item by the acting user.
func (a *API) CreateReview(c *gin.Context) {
	id, ok := itemIdParam(c)
	if !ok {
		return
	}
	var input struct {
		Score  model.ReviewScore `json:"score"`
		Remark string            `json:"remark"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := service.CreateReview(a.DB, middlewares.ActingUser(c), id, input.Score, input.Remark)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "review submitted", "review_id": review.Id})
}

// ListItemReviews serves all reviews for one item.
func (a *API) ListItemReviews(c *gin.Context) {
	id, ok := itemIdParam(c)
	if !ok {
		return
	}
	reviews, err := service.ListReviewsForItem(a.DB, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewPayloads(reviews))
}

// GetItemRating serves an item's rating recomputed from its full review
// set.
func (a *API) GetItemRating(c *gin.Context) {
	id, ok := itemIdParam(c)
	if !ok {
		return
	}
	rating, err := service.GetItemRating(a.DB, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// ListSellerReviews serves all reviews on items posted by one seller.
func (a *API) ListSellerReviews(c *gin.Context) {
	reviews, err := service.ListReviewsForSeller(a.DB, c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewPayloads(reviews))
}
