package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/imagestore"
	"github.com/marketloop/marketloop/service"
	Logger "github.com/marketloop/marketloop/utils/log"
	"gorm.io/gorm"
)

// API holds the dependencies every handler needs: the store connection
// and the image hosting collaborator. Handlers resolve the acting user
// per request and pass it down to the service layer explicitly.
type API struct {
	DB     *gorm.DB
	Images imagestore.ImageStore
}

// RegisterRoutes mounts the whole REST surface on the router. Routes
// requiring an acting user sit behind the provided auth middleware.
func (a *API) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api")

	api.POST("/auth/register", a.Register)
	api.POST("/auth/login", a.Login)

	// Item and review read paths are public. Static and param segments
	// never share a parent within one method, the router rejects that.
	api.GET("/items", a.ListItems)
	api.GET("/items/:item_id", a.GetItem)
	api.GET("/reviews/item/:item_id", a.ListItemReviews)
	api.GET("/reviews/item/:item_id/rating", a.GetItemRating)
	api.GET("/reviews/user/:username", a.ListSellerReviews)

	authed := api.Group("", auth)

	authed.POST("/items", a.CreateItem)
	authed.GET("/search", a.SearchItems)
	authed.GET("/categories", a.ListCategories)
	authed.PUT("/items/:item_id/image", a.UpdateItemImage)

	authed.POST("/reviews/:item_id", a.CreateReview)

	authed.POST("/follow/:username", a.Follow)
	authed.DELETE("/follow/:username", a.Unfollow)
	authed.GET("/followers", a.ListFollowers)
	authed.GET("/following", a.ListFollowing)
	authed.DELETE("/followers/:username", a.RemoveFollower)

	authed.GET("/users", a.ListUsers)
	authed.GET("/users/:username", a.GetUser)
	authed.GET("/users/:username/items", a.ListItemsByPoster)
	authed.PUT("/users/:username", a.UpdateUser)
	authed.DELETE("/users/:username", a.DeleteUser)

	reports := authed.Group("/reports")
	reports.GET("/most_expensive_by_category", a.MostExpensiveByCategory)
	reports.GET("/users_two_categories", a.UsersTwoCategories)
	reports.GET("/items_only_good_excellent", a.ItemsOnlyGoodExcellent)
	reports.GET("/top_posters", a.TopPosters)
	reports.GET("/users_all_poor", a.UsersAllPoor)
	reports.GET("/users_no_poor_reviews_on_items", a.UsersNoPoorReviewsOnItems)
	reports.GET("/users_followed_by_both", a.UsersFollowedByBoth)
	reports.GET("/users_never_posted", a.UsersNeverPosted)
}

// abortWithError maps the service error taxonomy onto HTTP statuses.
// Unclassified errors are logged and masked as a plain 500.
func abortWithError(c *gin.Context, err error) {
	var status int
	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindPermission:
		status = http.StatusForbidden
	case service.KindUnauthenticated:
		status = http.StatusUnauthorized
	case service.KindDependency:
		status = http.StatusBadGateway
	default:
		Logger.Log.Error("request failed: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
