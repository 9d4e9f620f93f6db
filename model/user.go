package model

/*

User is a registered member of the marketplace

Username: primary key, the user's unique handle, referenced by items,
reviews and follow edges
PasswordHash: bcrypt hash of the user's password, never serialized
FirstName/LastName: display name
Email: unique contact address
ImageUrl: optional profile image

PostedItems: all items this user listed for sale, "has-many" relation
keyed by Item.PostedBy

*/
type User struct {
	Username     string  `gorm:"primaryKey;size:64" json:"username"`
	PasswordHash string  `gorm:"size:128;not null" json:"-"`
	FirstName    string  `gorm:"size:64;not null" json:"first_name"`
	LastName     string  `gorm:"size:64;not null" json:"last_name"`
	Email        string  `gorm:"size:120;uniqueIndex;not null" json:"email"`
	ImageUrl     string  `json:"image_url"`
	PostedItems  []*Item `gorm:"foreignKey:PostedBy;references:Username" json:"posted_items,omitempty"`
}
