package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/server/middlewares"
	"github.com/marketloop/marketloop/service"
	Logger "github.com/marketloop/marketloop/utils/log"
)

// Register creates a new user account.
func (a *API) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := service.RegisterUser(a.DB, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "user": user})
}

// Login checks credentials and issues a bearer token.
func (a *API) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := service.Authenticate(a.DB, input.Username, input.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := middlewares.IssueToken(user.Username)
	if err != nil {
		Logger.Log.Error("fail to issue token: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
