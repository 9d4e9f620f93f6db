package service

import (
	"github.com/marketloop/marketloop/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// FollowUser creates a follow edge actor -> username. Self-follow and
// duplicate edges are rejected.
func FollowUser(db *gorm.DB, actor, username string) error {
	if actor == "" {
		return UnauthenticatedError()
	}
	if actor == username {
		return ValidationError("you cannot follow yourself")
	}
	if err := requireUser(db, username); err != nil {
		return err
	}

	edge := model.Follow{Username: username, FollowerUsername: actor}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Follow{}).
			Where("username = ? AND follower_username = ?", username, actor).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "fail to check follow edge")
		}
		if count > 0 {
			return ConflictError("you are already following this user")
		}
		if err := tx.Create(&edge).Error; err != nil {
			if isUniqueViolation(err) {
				return ConflictError("you are already following this user")
			}
			return errors.Wrap(err, "fail to create follow edge")
		}
		return nil
	})
	return err
}

// UnfollowUser deletes the follow edge actor -> username. A missing
// edge is rejected.
func UnfollowUser(db *gorm.DB, actor, username string) error {
	if actor == "" {
		return UnauthenticatedError()
	}
	if actor == username {
		return ValidationError("you cannot unfollow yourself")
	}
	if err := requireUser(db, username); err != nil {
		return err
	}

	res := db.Where("username = ? AND follower_username = ?", username, actor).
		Delete(&model.Follow{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "fail to delete follow edge")
	}
	if res.RowsAffected == 0 {
		return ConflictError("you are not following this user")
	}
	return nil
}

// RemoveFollower deletes the edge where the acting user is the followee
// and the given user the follower.
func RemoveFollower(db *gorm.DB, actor, follower string) error {
	if actor == "" {
		return UnauthenticatedError()
	}
	if actor == follower {
		return ValidationError("you cannot remove yourself")
	}

	res := db.Where("username = ? AND follower_username = ?", actor, follower).
		Delete(&model.Follow{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "fail to delete follow edge")
	}
	if res.RowsAffected == 0 {
		return ConflictError("this user is not following you")
	}
	return nil
}

// ListFollowers returns the users following the given user.
func ListFollowers(db *gorm.DB, username string) ([]model.User, error) {
	var users []model.User
	if err := db.
		Joins("JOIN follows ON follows.follower_username = users.username").
		Where("follows.username = ?", username).
		Order("users.username").
		Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list followers")
	}
	return users, nil
}

// ListFollowing returns the users the given user follows.
func ListFollowing(db *gorm.DB, username string) ([]model.User, error) {
	var users []model.User
	if err := db.
		Joins("JOIN follows ON follows.username = users.username").
		Where("follows.follower_username = ?", username).
		Order("users.username").
		Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list following")
	}
	return users, nil
}

func requireUser(db *gorm.DB, username string) error {
	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return errors.Wrap(err, "fail to look up user")
	}
	if count == 0 {
		return NotFoundError("user %s not found", username)
	}
	return nil
}
