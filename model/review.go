package model

import (
	"gorm.io/datatypes"
)

/*

Review is a scored evaluation of one item by one user

Id: primary key, auto generated
ReviewDate: calendar day the review was written, defaults to the
creation day
Score: one of the four enumerated review scores, see score.go
Remark: optional free-text comment
UserID: username of the reviewing user, foreign key to User
User: the reviewing user, "belongs-to" relation
ItemID: id of the reviewed item, foreign key to Item
Item: the reviewed item, "belongs-to" relation

A user reviews a given item at most once, enforced by the composite
unique index on (user_id, item_id). A user never reviews their own
item, enforced by the review service before insert.

*/
type Review struct {
	Id         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ReviewDate datatypes.Date `json:"review_date"`
	Score      ReviewScore    `gorm:"size:16;not null" json:"score"`
	Remark     string         `json:"remark"`
	UserID     string         `gorm:"size:64;uniqueIndex:idx_reviews_user_item;not null" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID;references:Username" json:"-"`
	ItemID     int64          `gorm:"uniqueIndex:idx_reviews_user_item;not null" json:"item_id"`
	Item       Item           `gorm:"foreignKey:ItemID" json:"-"`
}
