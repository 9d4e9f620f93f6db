package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/imagestore"
	"github.com/marketloop/marketloop/server/middlewares"
	"github.com/marketloop/marketloop/utils"
	"github.com/marketloop/marketloop/utils/dotenv"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Setenv("MARKETLOOP_JWT_SECRET", "testonly-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func prepareTestRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	api := &API{DB: db, Images: &imagestore.FakeImageStore{}}
	api.RegisterRoutes(router, middlewares.JWT())
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":   username,
		"password":   "hunter22",
		"first_name": "Test",
		"last_name":  "User",
		"email":      username + "@marketloop.test",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := prepareTestRouter(db)

	seller := registerAndLogin(t, router, "seller")
	buyer := registerAndLogin(t, router, "buyer")

	// Unauthenticated item creation is rejected by the middleware.
	w := doJSON(t, router, http.MethodPost, "/api/items", "", gin.H{
		"title": "x", "description": "y", "price": 1, "categories": []string{"misc"},
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Create an item.
	w = doJSON(t, router, http.MethodPost, "/api/items", seller, gin.H{
		"title":       "Vintage Lamp",
		"description": "A lamp.",
		"price":       25.50,
		"categories":  []string{"Lighting"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Item struct {
			Id int64 `json:"id"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.Item.Id)
	itemPath := fmt.Sprintf("/api/items/%d", created.Item.Id)

	// The item listing and single-item projection are public.
	w = doJSON(t, router, http.MethodGet, "/api/items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, itemPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Title      string   `json:"title"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, "Vintage Lamp", view.Title)
	require.Equal(t, []string{"lighting"}, view.Categories)

	// Unknown item is a 404.
	w = doJSON(t, router, http.MethodGet, "/api/items/99999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Search by category requires auth and finds the item.
	w = doJSON(t, router, http.MethodGet, "/api/search?category=lighting", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Self-review maps to 403.
	reviewPath := fmt.Sprintf("/api/reviews/%d", created.Item.Id)
	w = doJSON(t, router, http.MethodPost, reviewPath, seller, gin.H{"score": "Good"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Buyer reviews once, duplicate maps to 409.
	w = doJSON(t, router, http.MethodPost, reviewPath, buyer, gin.H{"score": "Good", "remark": "decent"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, reviewPath, buyer, gin.H{"score": "Poor"})
	require.Equal(t, http.StatusConflict, w.Code)

	// Bad score maps to 400.
	w = doJSON(t, router, http.MethodPost, reviewPath, buyer, gin.H{"score": "Amazing"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The public rating endpoint recomputes from the review set.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reviews/item/%d/rating", created.Item.Id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rating struct {
		StarRating  float64 `json:"star_rating"`
		ReviewCount int64   `json:"review_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rating))
	require.Equal(t, 3.75, rating.StarRating)
	require.Equal(t, int64(1), rating.ReviewCount)

	// Non-owner image update maps to 403.
	w = doJSON(t, router, http.MethodPut, itemPath+"/image", buyer, gin.H{"image_url": "https://img/x.png"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Owner image update succeeds.
	w = doJSON(t, router, http.MethodPut, itemPath+"/image", seller, gin.H{"image_url": "https://img/x.png"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestFollowAndReportsOverHTTP(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := prepareTestRouter(db)

	alice := registerAndLogin(t, router, "alice")
	registerAndLogin(t, router, "bob")

	// Follow, duplicate follow, self-follow.
	w := doJSON(t, router, http.MethodPost, "/api/follow/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/follow/bob", alice, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/follow/alice", alice, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/follow/nobody", alice, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/following", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Nobody has posted yet, so the never-posted report returns all
	// registered users.
	w = doJSON(t, router, http.MethodGet, "/api/reports/users_never_posted", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Users []string `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, []string{"alice", "bob"}, report.Users)

	// Reports require a parameter where applicable.
	w = doJSON(t, router, http.MethodGet, "/api/reports/users_two_categories?cat1=books", alice, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
