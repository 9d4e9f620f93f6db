package service

import (
	"github.com/marketloop/marketloop/model"
	"github.com/marketloop/marketloop/utils"
	Logger "github.com/marketloop/marketloop/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DailyReviewLimit is the maximum number of reviews one user may post
// per calendar day, mirroring the item daily cap.
const DailyReviewLimit = 2

// ItemRating is the recomputed-on-read rating projection.
type ItemRating struct {
	ItemId      int64   `json:"item_id"`
	StarRating  float64 `json:"star_rating"`
	ReviewCount int64   `json:"review_count"`
}

// CreateReview validates and inserts a review by the acting user for
// the given item, then recomputes the item's cached star rating. Review
// insert and rating update commit as one transaction.
//
// Rejections are checked in order: invalid score, missing item,
// self-review, duplicate review, daily cap.
func CreateReview(db *gorm.DB, actor string, itemId int64, score model.ReviewScore, remark string) (*model.Review, error) {
	if actor == "" {
		return nil, UnauthenticatedError()
	}
	if !score.IsValid() {
		return nil, ValidationError("invalid review score")
	}

	review := model.Review{
		ReviewDate: utils.Today(),
		Score:      score,
		Remark:     remark,
		UserID:     actor,
		ItemID:     itemId,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var item model.Item
		if err := tx.First(&item, "id = ?", itemId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("item %d not found", itemId)
			}
			return errors.Wrap(err, "fail to load item")
		}

		if item.PostedBy == actor {
			return PermissionError("you are not allowed to review your own item")
		}

		var existing int64
		if err := tx.Model(&model.Review{}).
			Where("user_id = ? AND item_id = ?", actor, itemId).
			Count(&existing).Error; err != nil {
			return errors.Wrap(err, "fail to check for an existing review")
		}
		if existing > 0 {
			return ConflictError("you have already reviewed this item")
		}

		var today int64
		if err := tx.Model(&model.Review{}).
			Where("user_id = ? AND review_date = ?", actor, utils.Today()).
			Count(&today).Error; err != nil {
			return errors.Wrap(err, "fail to count today's reviews")
		}
		if today >= DailyReviewLimit {
			return ConflictError("daily review limit has been reached")
		}

		if err := tx.Create(&review).Error; err != nil {
			// Two racing submissions by the same user are serialized by
			// the (user_id, item_id) unique index at commit time.
			if isUniqueViolation(err) {
				return ConflictError("you have already reviewed this item")
			}
			return errors.Wrap(err, "fail to create review")
		}

		if _, err := recomputeItemRating(tx, itemId); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Logger.Log.Info("review created, item: ", itemId, " by: ", actor)
	return &review, nil
}

// ListReviewsForItem returns all reviews for the item in stored order.
func ListReviewsForItem(db *gorm.DB, itemId int64) ([]model.Review, error) {
	var reviews []model.Review
	if err := db.Where("item_id = ?", itemId).Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list reviews")
	}
	return reviews, nil
}

// GetItemRating returns the item's rating recomputed from its full
// review set. The read path is independent of the cached value on the
// item row.
func GetItemRating(db *gorm.DB, itemId int64) (*ItemRating, error) {
	var count int64
	if err := db.Model(&model.Item{}).Where("id = ?", itemId).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load item")
	}
	if count == 0 {
		return nil, NotFoundError("item %d not found", itemId)
	}

	var reviews []model.Review
	if err := db.Where("item_id = ?", itemId).Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load reviews")
	}
	return &ItemRating{
		ItemId:      itemId,
		StarRating:  ComputeStarRating(reviews),
		ReviewCount: int64(len(reviews)),
	}, nil
}

// ListReviewsForSeller returns all reviews on items posted by the given
// seller: resolve the seller's item ids first, then fetch reviews in
// one IN query.
func ListReviewsForSeller(db *gorm.DB, username string) ([]model.Review, error) {
	var itemIds []int64
	if err := db.Model(&model.Item{}).
		Where("posted_by = ?", username).
		Pluck("id", &itemIds).Error; err != nil {
		return nil, errors.Wrap(err, "fail to resolve seller items")
	}
	if len(itemIds) == 0 {
		return []model.Review{}, nil
	}

	var reviews []model.Review
	if err := db.Where("item_id IN ?", itemIds).Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list seller reviews")
	}
	return reviews, nil
}
