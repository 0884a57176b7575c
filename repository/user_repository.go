package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Luismorlan/socialmux/feed"
	"github.com/Luismorlan/socialmux/model"
)

// UserRepository resolves user display fields from the relational source of
// truth. It implements feed.ProfileResolver.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Profile(ctx context.Context, userId int64) (*feed.UserProfile, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to load user %d", userId)
	}
	return &feed.UserProfile{
		Username:          user.Username,
		ProfilePictureUrl: user.ProfilePictureUrl,
	}, nil
}
