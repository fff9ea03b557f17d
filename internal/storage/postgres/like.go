package postgres

import (
	"context"
	"errors"

	"github.com/VitaminP8/moim/models"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/jinzhu/gorm"
)

// errAlreadyLiked откатывает транзакцию, в которой лайк уже был
var errAlreadyLiked = errors.New("already liked")

type LikePostgresStorage struct{}

func NewLikePostgresStorage() *LikePostgresStorage {
	return &LikePostgresStorage{}
}

func requirePost(postID uint) error {
	exists, err := postExists(DB, postID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	return nil
}

func (s *LikePostgresStorage) Like(ctx context.Context, userID, postID uint) (bool, error) {
	err := DB.Transaction(func(tx *gorm.DB) error {
		exists, err := lockUser(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.New(apperrors.ErrCodeNotFound, "user not found")
		}

		exists, err = lockPost(tx, postID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.New(apperrors.ErrCodeNotFound, "post not found")
		}

		// повторный лайк упирается в уникальный индекс (user_id, post_id)
		err = tx.Create(&models.Like{UserID: userID, PostID: postID}).Error
		if isUniqueViolation(err) {
			return errAlreadyLiked
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not create like")
		}
		return nil
	})
	if errors.Is(err, errAlreadyLiked) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *LikePostgresStorage) Unlike(ctx context.Context, userID, postID uint) error {
	if err := requirePost(postID); err != nil {
		return err
	}
	err := DB.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not delete like")
	}
	return nil
}

func (s *LikePostgresStorage) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	if err := requirePost(postID); err != nil {
		return false, err
	}
	var count int
	err := DB.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not check like")
	}
	return count > 0, nil
}

func (s *LikePostgresStorage) Likers(ctx context.Context, postID uint) ([]uint, error) {
	if err := requirePost(postID); err != nil {
		return nil, err
	}
	likers := []uint{}
	err := DB.Model(&models.Like{}).Where("post_id = ?", postID).Order("user_id asc").Pluck("user_id", &likers).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get likers")
	}
	return likers, nil
}
