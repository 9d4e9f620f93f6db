package service

import (
	"strings"

	"github.com/marketloop/marketloop/model"
	Logger "github.com/marketloop/marketloop/utils/log"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UpdateUserInput carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	ImageUrl  *string `json:"image_url"`
}

// RegisterUser validates and creates a new user with a bcrypt-hashed
// credential. Duplicate username or email is a conflict.
func RegisterUser(db *gorm.DB, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, ValidationError("username is required")
	}
	if len(input.Password) < 6 {
		return nil, ValidationError("password must be at least 6 characters")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, ValidationError("first and last name are required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, ValidationError("a valid email is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "fail to hash password")
	}

	user := model.User{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ConflictError("username or email already registered")
		}
		return nil, errors.Wrap(err, "fail to create user")
	}

	Logger.Log.Info("user registered: ", username)
	return &user, nil
}

// Authenticate checks the credential and returns the user on success.
// Unknown username and wrong password are indistinguishable to the
// caller.
func Authenticate(db *gorm.DB, username, password string) (*model.User, error) {
	var user model.User
	if err := db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &Error{Kind: KindUnauthenticated, Msg: "invalid username or password"}
		}
		return nil, errors.Wrap(err, "fail to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &Error{Kind: KindUnauthenticated, Msg: "invalid username or password"}
	}
	return &user, nil
}

// GetUser returns one user's profile.
func GetUser(db *gorm.DB, username string) (*model.User, error) {
	var user model.User
	if err := db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user %s not found", username)
		}
		return nil, errors.Wrap(err, "fail to load user")
	}
	return &user, nil
}

// ListUsers returns all registered users, username ordered.
func ListUsers(db *gorm.DB) ([]model.User, error) {
	var users []model.User
	if err := db.Order("username").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list users")
	}
	return users, nil
}

// UpdateUser mutates the acting user's own profile fields.
func UpdateUser(db *gorm.DB, actor, username string, input UpdateUserInput) (*model.User, error) {
	if actor == "" {
		return nil, UnauthenticatedError()
	}
	if actor != username {
		return nil, PermissionError("you can only update your own profile")
	}

	user, err := GetUser(db, username)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, ValidationError("a valid email is required")
		}
		updates["email"] = email
	}
	if input.ImageUrl != nil {
		updates["image_url"] = strings.TrimSpace(*input.ImageUrl)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := db.Model(user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ConflictError("email already registered")
		}
		return nil, errors.Wrap(err, "fail to update user")
	}
	return user, nil
}

// DeleteUser removes the acting user's own account. Peripheral
// operation, no cascade beyond what the schema enforces.
func DeleteUser(db *gorm.DB, actor, username string) error {
	if actor == "" {
		return UnauthenticatedError()
	}
	if actor != username {
		return PermissionError("you can only delete your own account")
	}
	res := db.Delete(&model.User{}, "username = ?", username)
	if res.Error != nil {
		return errors.Wrap(res.Error, "fail to delete user")
	}
	if res.RowsAffected == 0 {
		return NotFoundError("user %s not found", username)
	}
	return nil
}
