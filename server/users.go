package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/server/middlewares"
	"github.com/marketloop/marketloop/service"
)

// ListUsers serves all registered users.
func (a *API) ListUsers(c *gin.Context) {
	users, err := service.ListUsers(a.DB)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser serves one user's profile.
func (a *API) GetUser(c *gin.Context) {
	user, err := service.GetUser(a.DB, c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser mutates the acting user's own profile.
func (a *API) UpdateUser(c *gin.Context) {
	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := service.UpdateUser(a.DB, middlewares.ActingUser(c), c.Param("username"), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": user})
}

// DeleteUser removes the acting user's own account.
func (a *API) DeleteUser(c *gin.Context) {
	if err := service.DeleteUser(a.DB, middlewares.ActingUser(c), c.Param("username")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
