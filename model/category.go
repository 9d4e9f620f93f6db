package model

// DefaultCategoryIcon is the icon attached to categories created lazily
// during item creation, and the final fallback of image resolution.
const DefaultCategoryIcon = "https://static.marketloop.app/icons/category-default.png"

/*

Category is a named tag attached to items

Name: primary key, the natural key. Names are trimmed and lowercased
before lookup or creation so "Electronics" and "electronics" are the
same row.
Icon: display icon reference, used as an item's image when the item has
no explicit one.

Items: all items carrying this category, "many-to-many" relation
through item_categories.

Categories are created lazily the first time an item references an
unseen name and are never deleted.

*/
type Category struct {
	Name  string  `gorm:"primaryKey;size:64" json:"name"`
	Icon  string  `json:"icon"`
	Items []*Item `gorm:"many2many:item_categories;" json:"items,omitempty"`
}

// ItemCategory is the join row linking one item to one category.
type ItemCategory struct {
	ItemId       int64  `gorm:"primaryKey"`
	CategoryName string `gorm:"primaryKey;size:64"`
}
