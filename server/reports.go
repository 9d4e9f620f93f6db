package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/service"
)

// MostExpensiveByCategory serves the per-category price leader report.
func (a *API) MostExpensiveByCategory(c *gin.Context) {
	rows, err := service.MostExpensiveByCategory(a.DB)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UsersTwoCategories serves the same-day two-category posters report.
func (a *API) UsersTwoCategories(c *gin.Context) {
	users, err := service.UsersPostedTwoCategoriesSameDay(a.DB, c.Query("cat1"), c.Query("cat2"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ItemsOnlyGoodExcellent serves the review-purity report for one user.
func (a *API) ItemsOnlyGoodExcellent(c *gin.Context) {
	items, err := service.ItemsOnlyGoodExcellent(a.DB, c.Query("user"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// TopPosters serves the top-posters-on-a-date report.
func (a *API) TopPosters(c *gin.Context) {
	result, err := service.TopPostersOnDate(a.DB, c.Query("date"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UsersAllPoor serves the all-poor reviewers report.
func (a *API) UsersAllPoor(c *gin.Context) {
	users, err := service.UsersAllPoorReviews(a.DB)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UsersNoPoorReviewsOnItems serves the no-poor-reviews posters report.
func (a *API) UsersNoPoorReviewsOnItems(c *gin.Context) {
	users, err := service.UsersNoPoorReviewsOnItems(a.DB)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UsersFollowedByBoth serves the followee-set intersection report.
func (a *API) UsersFollowedByBoth(c *gin.Context) {
	users, err := service.UsersFollowedByBoth(a.DB, c.Query("user1"), c.Query("user2"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UsersNeverPosted serves the never-posted users report.
func (a *API) UsersNeverPosted(c *gin.Context) {
	users, err := service.UsersNeverPosted(a.DB)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
