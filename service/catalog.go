package service

import (
	"strings"
	"time"

	"github.com/marketloop/marketloop/imagestore"
	"github.com/marketloop/marketloop/model"
	"github.com/marketloop/marketloop/utils"
	Logger "github.com/marketloop/marketloop/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DailyItemLimit is the maximum number of items one user may post per
// calendar day.
const DailyItemLimit = 2

// CreateItemInput carries the fields of an item creation request.
type CreateItemInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Categories  []string `json:"categories"`
	ImageUrl    string   `json:"image_url"`
}

// ItemView is the read projection served by every item listing: the
// item row annotated with its category names, resolved image url and
// review count.
type ItemView struct {
	Id          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	PostedBy    string   `json:"posted_by"`
	DatePosted  string   `json:"date_posted"`
	Categories  []string `json:"categories"`
	ImageUrl    string   `json:"image_url"`
	StarRating  float64  `json:"star_rating"`
	ReviewCount int64    `json:"review_count"`
}

// normalizeCategories trims, lowercases and dedupes category names,
// dropping empties and preserving first-seen order.
func normalizeCategories(names []string) []string {
	var out []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || utils.ContainsString(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// CreateItem validates and inserts a new item for the acting user,
// creating any unseen categories and the association rows in a single
// transaction.
func CreateItem(db *gorm.DB, actor string, input CreateItemInput) (*model.Item, error) {
	if actor == "" {
		return nil, UnauthenticatedError()
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, ValidationError("enter a title")
	}
	if description == "" {
		return nil, ValidationError("enter a description")
	}
	if input.Price <= 0 {
		return nil, ValidationError("price must be a positive number")
	}
	categories := normalizeCategories(input.Categories)
	if len(categories) == 0 {
		return nil, ValidationError("at least one category is required")
	}

	item := model.Item{
		Title:       title,
		Description: description,
		Price:       input.Price,
		DatePosted:  utils.Today(),
		PostedBy:    actor,
		ImageUrl:    strings.TrimSpace(input.ImageUrl),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Item{}).
			Where("posted_by = ? AND date_posted = ?", actor, utils.Today()).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "fail to count today's items")
		}
		if count >= DailyItemLimit {
			return ConflictError("daily limit reached: only %d items can be posted in a day", DailyItemLimit)
		}

		for _, name := range categories {
			var category model.Category
			if err := tx.Where(model.Category{Name: name}).
				Attrs(model.Category{Icon: model.DefaultCategoryIcon}).
				FirstOrCreate(&category).Error; err != nil {
				return errors.Wrap(err, "fail to look up category "+name)
			}
			item.Categories = append(item.Categories, &category)
		}

		if err := tx.Create(&item).Error; err != nil {
			if isUniqueViolation(err) {
				return ConflictError("item conflicts with an existing row")
			}
			return errors.Wrap(err, "fail to create item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Logger.Log.Info("item created, id: ", item.Id, " posted_by: ", actor)
	return &item, nil
}

// ListItems returns all items, newest first, with the full listing
// projection.
func ListItems(db *gorm.DB) ([]ItemView, error) {
	var items []model.Item
	if err := db.Order("date_posted desc, id desc").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list items")
	}
	return projectItems(db, items)
}

// SearchItems returns the listing projection filtered to items linked
// to the given category. The name is normalized the same way item
// creation normalizes it.
func SearchItems(db *gorm.DB, category string) ([]ItemView, error) {
	name := strings.ToLower(strings.TrimSpace(category))
	if name == "" {
		return nil, ValidationError("category parameter is required")
	}
	var items []model.Item
	if err := db.
		Joins("JOIN item_categories ON item_categories.item_id = items.id").
		Where("item_categories.category_name = ?", name).
		Order("date_posted desc, id desc").
		Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "fail to search items")
	}
	return projectItems(db, items)
}

// GetItem returns the listing projection for one item.
func GetItem(db *gorm.DB, itemId int64) (*ItemView, error) {
	var item model.Item
	if err := db.First(&item, "id = ?", itemId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("item %d not found", itemId)
		}
		return nil, errors.Wrap(err, "fail to load item")
	}
	views, err := projectItems(db, []model.Item{item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListItemsByPoster returns the listing projection filtered to one
// poster.
func ListItemsByPoster(db *gorm.DB, username string) ([]ItemView, error) {
	var items []model.Item
	if err := db.Where("posted_by = ?", username).
		Order("date_posted desc, id desc").
		Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list items by poster")
	}
	return projectItems(db, items)
}

// ListCategories returns every category, name ordered.
func ListCategories(db *gorm.DB) ([]model.Category, error) {
	var categories []model.Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list categories")
	}
	return categories, nil
}

// UpdateItemImage sets an explicit image url on an item. Only the
// posting user may mutate it.
func UpdateItemImage(db *gorm.DB, actor string, itemId int64, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ValidationError("image url is required")
	}
	item, err := loadOwnedItem(db, actor, itemId)
	if err != nil {
		return err
	}
	if err := db.Model(item).Update("image_url", url).Error; err != nil {
		return errors.Wrap(err, "fail to update item image")
	}
	return nil
}

// UploadItemImage stores uploaded image bytes with the image hosting
// collaborator and records the resulting url on the item. Only the
// posting user may mutate it.
func UploadItemImage(db *gorm.DB, store imagestore.ImageStore, actor string, itemId int64, data []byte, fileName string) (string, error) {
	if len(data) == 0 {
		return "", ValidationError("image file is required")
	}
	item, err := loadOwnedItem(db, actor, itemId)
	if err != nil {
		return "", err
	}
	url, err := store.Store(data, fileName)
	if err != nil {
		Logger.Log.Error("image upload failed: ", err)
		return "", DependencyError("image upload failed: %s", err.Error())
	}
	if err := db.Model(item).Update("image_url", url).Error; err != nil {
		return "", errors.Wrap(err, "fail to record uploaded image url")
	}
	return url, nil
}

func loadOwnedItem(db *gorm.DB, actor string, itemId int64) (*model.Item, error) {
	if actor == "" {
		return nil, UnauthenticatedError()
	}
	var item model.Item
	if err := db.First(&item, "id = ?", itemId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("item %d not found", itemId)
		}
		return nil, errors.Wrap(err, "fail to load item")
	}
	if item.PostedBy != actor {
		return nil, PermissionError("only the posting user can modify this item")
	}
	return &item, nil
}

// categoryLink is one row of the batched item/category lookup.
type categoryLink struct {
	ItemId int64
	Name   string
	Icon   string
}

// reviewCount is one row of the batched review-count aggregate.
type reviewCount struct {
	ItemId int64
	Count  int64
}

// projectItems assembles the listing projection for a set of items with
// a constant number of queries: one batched category lookup over all
// item ids and one grouped review-count aggregate. Per-item child
// queries are deliberately avoided, the listing endpoints serve every
// item and a per-row round trip would turn one request into hundreds.
func projectItems(db *gorm.DB, items []model.Item) ([]ItemView, error) {
	views := make([]ItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Id)
	}

	var links []categoryLink
	if err := db.Table("item_categories").
		Select("item_categories.item_id AS item_id, categories.name AS name, categories.icon AS icon").
		Joins("JOIN categories ON categories.name = item_categories.category_name").
		Where("item_categories.item_id IN ?", ids).
		Order("item_categories.item_id, categories.name").
		Scan(&links).Error; err != nil {
		return nil, errors.Wrap(err, "fail to batch load categories")
	}
	linksByItem := make(map[int64][]categoryLink, len(items))
	for _, link := range links {
		linksByItem[link.ItemId] = append(linksByItem[link.ItemId], link)
	}

	var counts []reviewCount
	if err := db.Table("reviews").
		Select("item_id AS item_id, count(*) AS count").
		Where("item_id IN ?", ids).
		Group("item_id").
		Scan(&counts).Error; err != nil {
		return nil, errors.Wrap(err, "fail to batch count reviews")
	}
	countByItem := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countByItem[c.ItemId] = c.Count
	}

	for _, item := range items {
		itemLinks := linksByItem[item.Id]
		names := make([]string, 0, len(itemLinks))
		for _, link := range itemLinks {
			names = append(names, link.Name)
		}
		views = append(views, ItemView{
			Id:          item.Id,
			Title:       item.Title,
			Description: item.Description,
			Price:       item.Price,
			PostedBy:    item.PostedBy,
			DatePosted:  time.Time(item.DatePosted).Format("2006-01-02"),
			Categories:  names,
			ImageUrl:    resolveImageUrl(item.ImageUrl, itemLinks),
			StarRating:  item.StarRating,
			ReviewCount: countByItem[item.Id],
		})
	}
	return views, nil
}

// resolveImageUrl picks an item's display image: the explicit url if
// set, otherwise the first linked category's icon, otherwise the
// default icon.
func resolveImageUrl(explicit string, links []categoryLink) string {
	if explicit != "" {
		return explicit
	}
	for _, link := range links {
		if link.Icon != "" {
			return link.Icon
		}
	}
	return model.DefaultCategoryIcon
}
