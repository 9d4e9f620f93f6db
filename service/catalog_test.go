package service

import (
	"os"
	"testing"

	"github.com/marketloop/marketloop/imagestore"
	"github.com/marketloop/marketloop/model"
	"github.com/marketloop/marketloop/utils"
	"github.com/marketloop/marketloop/utils/dotenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func TestCreateItem(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	seller := utils.TestCreateUser(t, db, "seller")

	t.Run("creates item with categories", func(t *testing.T) {
		item, err := CreateItem(db, seller, CreateItemInput{
			Title:       "  Vintage Lamp  ",
			Description: "A lamp.",
			Price:       25.50,
			Categories:  []string{"Furniture", "lighting"},
		})
		require.NoError(t, err)
		require.NotZero(t, item.Id)
		require.Equal(t, "Vintage Lamp", item.Title)

		var links []model.ItemCategory
		require.NoError(t, db.Where("item_id = ?", item.Id).Find(&links).Error)
		require.Len(t, links, 2)

		var category model.Category
		require.NoError(t, db.First(&category, "name = ?", "furniture").Error)
		require.Equal(t, model.DefaultCategoryIcon, category.Icon)
	})

	t.Run("duplicate case-varied categories yield one link", func(t *testing.T) {
		item, err := CreateItem(db, utils.TestCreateUser(t, db, "dupe_seller"), CreateItemInput{
			Title:       "Headphones",
			Description: "Over-ear.",
			Price:       60,
			Categories:  []string{"electronics", " Electronics "},
		})
		require.NoError(t, err)

		var links []model.ItemCategory
		require.NoError(t, db.Where("item_id = ?", item.Id).Find(&links).Error)
		require.Len(t, links, 1)
		require.Equal(t, "electronics", links[0].CategoryName)
	})

	t.Run("validation rejections", func(t *testing.T) {
		cases := []struct {
			name  string
			input CreateItemInput
		}{
			{"empty title", CreateItemInput{Title: "  ", Description: "d", Price: 1, Categories: []string{"a"}}},
			{"empty description", CreateItemInput{Title: "t", Description: " ", Price: 1, Categories: []string{"a"}}},
			{"zero price", CreateItemInput{Title: "t", Description: "d", Price: 0, Categories: []string{"a"}}},
			{"negative price", CreateItemInput{Title: "t", Description: "d", Price: -5, Categories: []string{"a"}}},
			{"no categories", CreateItemInput{Title: "t", Description: "d", Price: 1}},
			{"blank categories", CreateItemInput{Title: "t", Description: "d", Price: 1, Categories: []string{" ", ""}}},
		}
		for _, tc := range cases {
			_, err := CreateItem(db, seller, tc.input)
			require.Error(t, err, tc.name)
			require.Equal(t, KindValidation, KindOf(err), tc.name)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := CreateItem(db, "", CreateItemInput{Title: "t", Description: "d", Price: 1, Categories: []string{"a"}})
		require.Equal(t, KindUnauthenticated, KindOf(err))
	})

	t.Run("daily limit caps at two items", func(t *testing.T) {
		poster := utils.TestCreateUser(t, db, "prolific")
		for i := 0; i < DailyItemLimit; i++ {
			_, err := CreateItem(db, poster, CreateItemInput{
				Title:       "item",
				Description: "d",
				Price:       1,
				Categories:  []string{"misc"},
			})
			require.NoError(t, err)
		}
		_, err := CreateItem(db, poster, CreateItemInput{
			Title:       "one too many",
			Description: "d",
			Price:       1,
			Categories:  []string{"misc"},
		})
		require.Error(t, err)
		require.Equal(t, KindConflict, KindOf(err))
	})
}

func TestListAndSearchItems(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	alice := utils.TestCreateUser(t, db, "alice")
	bob := utils.TestCreateUser(t, db, "bob")
	reviewer := utils.TestCreateUser(t, db, "reviewer")

	lampId := utils.TestCreateItem(t, db, alice, "lamp", 20, "furniture", "lighting")
	deskId := utils.TestCreateItem(t, db, bob, "desk", 80, "furniture")
	utils.TestCreateReview(t, db, reviewer, lampId, model.ScoreGood)

	t.Run("list returns every item with projection", func(t *testing.T) {
		views, err := ListItems(db)
		require.NoError(t, err)
		require.Len(t, views, 2)

		byId := map[int64]ItemView{}
		for _, v := range views {
			byId[v.Id] = v
		}
		require.ElementsMatch(t, []string{"furniture", "lighting"}, byId[lampId].Categories)
		require.Equal(t, int64(1), byId[lampId].ReviewCount)
		require.Equal(t, int64(0), byId[deskId].ReviewCount)
	})

	t.Run("item appears in search for each of its categories", func(t *testing.T) {
		furniture, err := SearchItems(db, "furniture")
		require.NoError(t, err)
		require.Len(t, furniture, 2)

		lighting, err := SearchItems(db, " Lighting ")
		require.NoError(t, err)
		require.Len(t, lighting, 1)
		require.Equal(t, lampId, lighting[0].Id)

		books, err := SearchItems(db, "books")
		require.NoError(t, err)
		require.Empty(t, books)
	})

	t.Run("search without a category is a validation error", func(t *testing.T) {
		_, err := SearchItems(db, "  ")
		require.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("get item", func(t *testing.T) {
		view, err := GetItem(db, lampId)
		require.NoError(t, err)
		require.Equal(t, "lamp", view.Title)

		_, err = GetItem(db, 99999)
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("list by poster", func(t *testing.T) {
		views, err := ListItemsByPoster(db, alice)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.Equal(t, lampId, views[0].Id)
	})

	t.Run("list categories", func(t *testing.T) {
		categories, err := ListCategories(db)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		require.Equal(t, "furniture", categories[0].Name)
		require.Equal(t, "lighting", categories[1].Name)
	})
}

func TestResolveImageUrl(t *testing.T) {
	links := []categoryLink{
		{Name: "noicon", Icon: ""},
		{Name: "books", Icon: "https://static.marketloop.app/icons/books.png"},
	}

	require.Equal(t, "https://x/y.png", resolveImageUrl("https://x/y.png", links))
	require.Equal(t, "https://static.marketloop.app/icons/books.png", resolveImageUrl("", links))
	require.Equal(t, model.DefaultCategoryIcon, resolveImageUrl("", nil))
	require.Equal(t, model.DefaultCategoryIcon, resolveImageUrl("", []categoryLink{{Icon: ""}}))
}

func TestUpdateItemImage(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	owner := utils.TestCreateUser(t, db, "owner")
	stranger := utils.TestCreateUser(t, db, "stranger")
	itemId := utils.TestCreateItem(t, db, owner, "bike", 120, "sports")

	t.Run("owner can set url", func(t *testing.T) {
		require.NoError(t, UpdateItemImage(db, owner, itemId, "https://img/bike.png"))
		var item model.Item
		require.NoError(t, db.First(&item, "id = ?", itemId).Error)
		require.Equal(t, "https://img/bike.png", item.ImageUrl)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		err := UpdateItemImage(db, stranger, itemId, "https://img/steal.png")
		require.Equal(t, KindPermission, KindOf(err))
	})

	t.Run("unknown item", func(t *testing.T) {
		err := UpdateItemImage(db, owner, 99999, "https://img/x.png")
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("upload stores bytes and records url", func(t *testing.T) {
		url, err := UploadItemImage(db, &imagestore.FakeImageStore{}, owner, itemId, []byte{1, 2, 3}, "bike.jpg")
		require.NoError(t, err)
		require.Equal(t, "https://images.test/bike.jpg", url)

		var item model.Item
		require.NoError(t, db.First(&item, "id = ?", itemId).Error)
		require.Equal(t, url, item.ImageUrl)
	})

	t.Run("upload failure is a dependency error", func(t *testing.T) {
		failing := &imagestore.FailingImageStore{Err: errors.New("bucket unavailable")}
		_, err := UploadItemImage(db, failing, owner, itemId, []byte{1}, "bike.jpg")
		require.Equal(t, KindDependency, KindOf(err))
	})
}
