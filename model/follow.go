package model

import "time"

/*

Follow is a directed social edge from a follower to a followee

Username: the followee, part of the composite primary key
FollowerUsername: the follower, part of the composite primary key
CreatedAt: time when the edge was created

Both sides reference User. Self-follow is rejected by the social graph
service. The edge has no identity beyond its key pair; unfollow deletes
the row outright.

*/
type Follow struct {
	Username         string `gorm:"primaryKey;size:64" json:"username"`
	FollowerUsername string `gorm:"primaryKey;size:64" json:"follower_username"`
	CreatedAt        time.Time
}
