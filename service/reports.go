package service

import (
	"strings"
	"time"

	"github.com/marketloop/marketloop/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Reporting queries. All read-only, each computed as a single query so
// a report never observes intermediate state of a concurrent write.

// CategoryTopItem is one row of the most-expensive-per-category report.
type CategoryTopItem struct {
	Category    string  `json:"category"`
	ItemId      int64   `json:"item_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	PostedBy    string  `json:"posted_by"`
	DatePosted  string  `json:"date_posted"`
	Description string  `json:"description"`
}

// TopPosters is the result of the top-posters-on-a-date report.
type TopPosters struct {
	Date     string   `json:"date"`
	MaxPosts int64    `json:"max_posts"`
	Users    []string `json:"users"`
}

// ReviewedItem is one row of the only-good-or-excellent report.
type ReviewedItem struct {
	ItemId      int64  `json:"item_id"`
	Title       string `json:"title"`
	ReviewCount int64  `json:"review_count"`
}

// MostExpensiveByCategory returns, for every category with at least one
// item, the highest-priced item carrying it. Price ties break to the
// lowest item id, which keeps the report stable across runs.
func MostExpensiveByCategory(db *gorm.DB) ([]CategoryTopItem, error) {
	rows := []CategoryTopItem{}
	err := db.Raw(`
		SELECT DISTINCT ON (item_categories.category_name)
			item_categories.category_name AS category,
			items.id AS item_id,
			items.title AS title,
			items.price AS price,
			items.posted_by AS posted_by,
			items.date_posted AS date_posted,
			items.description AS description
		FROM item_categories
		JOIN items ON items.id = item_categories.item_id
		ORDER BY item_categories.category_name, items.price DESC, items.id ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to compute most expensive by category")
	}
	return rows, nil
}

// UsersPostedTwoCategoriesSameDay returns the distinct users who, on
// one calendar day, posted an item in category cat1 and a different
// item in category cat2. Category names are case-normalized. With
// cat1 == cat2 this degenerates to "two distinct items in that
// category the same day".
func UsersPostedTwoCategoriesSameDay(db *gorm.DB, cat1, cat2 string) ([]string, error) {
	cat1 = strings.ToLower(strings.TrimSpace(cat1))
	cat2 = strings.ToLower(strings.TrimSpace(cat2))
	if cat1 == "" || cat2 == "" {
		return nil, ValidationError("two category parameters are required")
	}

	users := []string{}
	err := db.Raw(`
		SELECT DISTINCT a.posted_by
		FROM items a
		JOIN items b
			ON a.posted_by = b.posted_by
			AND a.date_posted = b.date_posted
			AND a.id <> b.id
		JOIN item_categories ca ON ca.item_id = a.id
		JOIN item_categories cb ON cb.item_id = b.id
		WHERE ca.category_name = ? AND cb.category_name = ?
		ORDER BY a.posted_by`, cat1, cat2).
		Scan(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to compute two-category posters")
	}
	return users, nil
}

// ItemsOnlyGoodExcellent returns the given user's items that have at
// least one review and whose reviews are all Good or Excellent.
func ItemsOnlyGoodExcellent(db *gorm.DB, username string) ([]ReviewedItem, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ValidationError("user parameter is required")
	}

	rows := []ReviewedItem{}
	err := db.Raw(`
		SELECT items.id AS item_id, items.title AS title, count(reviews.id) AS review_count
		FROM items
		JOIN reviews ON reviews.item_id = items.id
		WHERE items.posted_by = ?
		GROUP BY items.id, items.title
		HAVING count(*) = sum(CASE WHEN reviews.score IN ('Excellent', 'Good') THEN 1 ELSE 0 END)
		ORDER BY items.id`, username).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to compute only-good-or-excellent items")
	}
	return rows, nil
}

// TopPostersOnDate returns the user(s) with the maximum item count on
// the given YYYY-MM-DD date. Ties return all tied users.
func TopPostersOnDate(db *gorm.DB, date string) (*TopPosters, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ValidationError("invalid date format, expected YYYY-MM-DD")
	}

	var counts []struct {
		PostedBy string
		Cnt      int64
	}
	err := db.Model(&model.Item{}).
		Select("posted_by, count(*) AS cnt").
		Where("date_posted = ?", date).
		Group("posted_by").
		Order("cnt DESC, posted_by").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to count posts per user")
	}

	result := &TopPosters{Date: date, Users: []string{}}
	if len(counts) == 0 {
		return result, nil
	}
	result.MaxPosts = counts[0].Cnt
	for _, row := range counts {
		if row.Cnt == result.MaxPosts {
			result.Users = append(result.Users, row.PostedBy)
		}
	}
	return result, nil
}

// UsersAllPoorReviews returns users with at least one review, all of
// them Poor.
func UsersAllPoorReviews(db *gorm.DB) ([]string, error) {
	users := []string{}
	err := db.Raw(`
		SELECT user_id
		FROM reviews
		GROUP BY user_id
		HAVING sum(CASE WHEN score <> 'Poor' THEN 1 ELSE 0 END) = 0
		ORDER BY user_id`).
		Scan(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to compute all-poor reviewers")
	}
	return users, nil
}

// UsersNoPoorReviewsOnItems returns users who posted items none of
// which ever received a Poor review. Items with zero reviews qualify.
func UsersNoPoorReviewsOnItems(db *gorm.DB) ([]string, error) {
	users := []string{}
	err := db.Raw(`
		SELECT DISTINCT posted_by
		FROM items
		WHERE NOT EXISTS (
			SELECT 1
			FROM reviews
			JOIN items sibling ON sibling.id = reviews.item_id
			WHERE sibling.posted_by = items.posted_by AND reviews.score = 'Poor'
		)
		ORDER BY posted_by`).
		Scan(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to compute no-poor-review posters")
	}
	return users, nil
}

// UsersFollowedByBoth returns the intersection of the followee sets of
// the two given users.
func UsersFollowedByBoth(db *gorm.DB, user1, user2 string) ([]string, error) {
	user1 = strings.TrimSpace(user1)
	user2 = strings.TrimSpace(user2)
	if user1 == "" || user2 == "" {
		return nil, ValidationError("two user parameters are required")
	}

	users := []string{}
	err := db.Raw(`
		SELECT f1.username
		FROM follows f1
		JOIN follows f2 ON f1.username = f2.username
		WHERE f1.follower_username = ? AND f2.follower_username = ?
		ORDER BY f1.username`, user1, user2).
		Scan(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to compute mutual followees")
	}
	return users, nil
}

// UsersNeverPosted returns all registered usernames that never appear
// as an item poster.
func UsersNeverPosted(db *gorm.DB) ([]string, error) {
	users := []string{}
	err := db.Raw(`
		SELECT username
		FROM users
		WHERE username NOT IN (SELECT DISTINCT posted_by FROM items)
		ORDER BY username`).
		Scan(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to compute never-posted users")
	}
	return users, nil
}
