package model

import (
	"gorm.io/datatypes"
)

/*

Item is a for-sale listing posted by a user

Id: primary key, auto generated
Title: listing title in plain text
Description: listing description in plain text
Price: asking price, validated positive at the service boundary
DatePosted: calendar day the item was listed, defaults to the creation day
PostedBy: username of the posting user, foreign key to User
Poster: the owning user, "belongs-to" relation, immutable after creation

StarRating: cached average of this item's review scores. Recomputed
inside the same transaction whenever a review is added, so a committed
review is never visible without its effect on the rating. Readers that
need an authoritative value recompute from the review set instead.

ImageUrl: optional explicit image. When empty the resolved image falls
back to the first linked category's icon, then to the default icon.

Categories: all categories attached to this item, "many-to-many"
relation through item_categories. Every item carries at least one
category, enforced at creation time by the catalog service.

*/
type Item struct {
	Id          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"size:128;not null" json:"title"`
	Description string         `gorm:"not null" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	DatePosted  datatypes.Date `json:"date_posted"`
	PostedBy    string         `gorm:"size:64;index;not null" json:"posted_by"`
	Poster      User           `gorm:"foreignKey:PostedBy;references:Username" json:"-"`
	StarRating  float64        `json:"star_rating"`
	ImageUrl    string         `json:"image_url"`
	Categories  []*Category    `gorm:"many2many:item_categories;" json:"categories,omitempty"`
}
