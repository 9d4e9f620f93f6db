package utils

import (
	"fmt"
	"testing"

	"github.com/marketloop/marketloop/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Shared DB fixtures for package tests. These write rows directly and
// bypass the service-layer business rules on purpose: tests use them to
// seed states the rules would forbid creating through the public
// operations (e.g. more than 2 items a day for one user).

// TestCreateUser inserts a user with placeholder profile fields and
// returns its username.
func TestCreateUser(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	user := model.User{
		Username:     username,
		PasswordHash: "testonly-not-a-hash",
		FirstName:    "Test",
		LastName:     "User",
		Email:        fmt.Sprintf("%s@marketloop.test", username),
	}
	require.NoError(t, db.Create(&user).Error)
	return user.Username
}

// TestCreateItem inserts an item posted today by the given user, linked
// to the given categories (created on first use), and returns its id.
func TestCreateItem(t *testing.T, db *gorm.DB, postedBy, title string, price float64, categories ...string) int64 {
	t.Helper()
	item := model.Item{
		Title:       title,
		Description: "test item " + title,
		Price:       price,
		DatePosted:  Today(),
		PostedBy:    postedBy,
	}
	for _, name := range categories {
		item.Categories = append(item.Categories, &model.Category{Name: name, Icon: model.DefaultCategoryIcon})
	}
	require.NoError(t, db.Create(&item).Error)
	return item.Id
}

// TestCreateReview inserts a review dated today and returns its id.
func TestCreateReview(t *testing.T, db *gorm.DB, username string, itemId int64, score model.ReviewScore) int64 {
	t.Helper()
	review := model.Review{
		ReviewDate: Today(),
		Score:      score,
		Remark:     "test review",
		UserID:     username,
		ItemID:     itemId,
	}
	require.NoError(t, db.Create(&review).Error)
	return review.Id
}

// TestCreateFollow inserts a follow edge follower -> followee.
func TestCreateFollow(t *testing.T, db *gorm.DB, followee, follower string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Follow{Username: followee, FollowerUsername: follower}).Error)
}
