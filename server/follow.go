package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/server/middlewares"
	"github.com/marketloop/marketloop/service"
)

// Follow makes the acting user follow the given user.
func (a *API) Follow(c *gin.Context) {
	username := c.Param("username")
	if err := service.FollowUser(a.DB, middlewares.ActingUser(c), username); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("you are now following %s", username)})
}

// Unfollow removes the acting user's follow edge to the given user.
func (a *API) Unfollow(c *gin.Context) {
	username := c.Param("username")
	if err := service.UnfollowUser(a.DB, middlewares.ActingUser(c), username); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("you have unfollowed %s", username)})
}

// ListFollowers serves the acting user's followers.
func (a *API) ListFollowers(c *gin.Context) {
	users, err := service.ListFollowers(a.DB, middlewares.ActingUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListFollowing serves the users the acting user follows.
func (a *API) ListFollowing(c *gin.Context) {
	users, err := service.ListFollowing(a.DB, middlewares.ActingUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// RemoveFollower removes the given user from the acting user's
// followers.
func (a *API) RemoveFollower(c *gin.Context) {
	username := c.Param("username")
	if err := service.RemoveFollower(a.DB, middlewares.ActingUser(c), username); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s no longer follows you", username)})
}
