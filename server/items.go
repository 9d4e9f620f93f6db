package server

import (
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/server/middlewares"
	"github.com/marketloop/marketloop/service"
)

func itemIdParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}

// CreateItem posts a new item for the acting user.
func (a *API) CreateItem(c *gin.Context) {
	var input service.CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := service.CreateItem(a.DB, middlewares.ActingUser(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "item created successfully", "item": item})
}

// ListItems serves all items, newest first.
func (a *API) ListItems(c *gin.Context) {
	views, err := service.ListItems(a.DB)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// SearchItems serves items filtered by the category query parameter.
func (a *API) SearchItems(c *gin.Context) {
	category := c.Query("category")
	views, err := service.SearchItems(a.DB, category)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":   strings.ToLower(strings.TrimSpace(category)),
		"item_count": len(views),
		"items":      views,
	})
}

// ListCategories serves every category for search autocomplete.
func (a *API) ListCategories(c *gin.Context) {
	categories, err := service.ListCategories(a.DB)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category_count": len(categories),
		"categories":     categories,
	})
}

// GetItem serves one item's listing projection.
func (a *API) GetItem(c *gin.Context) {
	id, ok := itemIdParam(c)
	if !ok {
		return
	}
	view, err := service.GetItem(a.DB, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListItemsByPoster serves one user's items.
func (a *API) ListItemsByPoster(c *gin.Context) {
	views, err := service.ListItemsByPoster(a.DB, c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// UpdateItemImage sets an item's image, from either a JSON body with an
// image_url or a multipart upload stored with the image hosting
// collaborator. Owner only.
func (a *API) UpdateItemImage(c *gin.Context) {
	id, ok := itemIdParam(c)
	if !ok {
		return
	}
	actor := middlewares.ActingUser(c)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		defer file.Close()
		data, err := ioutil.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fail to read image file"})
			return
		}
		url, err := service.UploadItemImage(a.DB, a.Images, actor, id, data, header.Filename)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "item image updated", "image_url": url})
		return
	}

	var input struct {
		ImageUrl string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := service.UpdateItemImage(a.DB, actor, id, input.ImageUrl); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item image updated", "image_url": input.ImageUrl})
}
