package service

import (
	"math"

	"github.com/marketloop/marketloop/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ComputeStarRating maps each review's score through the fixed star
// table, averages, and rounds to 2 decimal places. Zero reviews rate
// 0.0. This is always a full recompute over the complete review set,
// there is no incremental update path.
func ComputeStarRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, r := range reviews {
		sum += r.Score.StarValue()
	}
	return math.Round(sum/float64(len(reviews))*100) / 100
}

// recomputeItemRating recalculates the item's star rating from its full
// review set and persists it on the item row. It must run inside the
// same transaction as the review insert so a committed review is never
// visible with a stale cached rating.
func recomputeItemRating(tx *gorm.DB, itemId int64) (float64, error) {
	var reviews []model.Review
	if err := tx.Where("item_id = ?", itemId).Find(&reviews).Error; err != nil {
		return 0, errors.Wrap(err, "fail to load reviews for rating recompute")
	}
	rating := ComputeStarRating(reviews)
	if err := tx.Model(&model.Item{}).Where("id = ?", itemId).
		Update("star_rating", rating).Error; err != nil {
		return 0, errors.Wrap(err, "fail to persist recomputed rating")
	}
	return rating, nil
}
