package postgres

import (
	"context"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/validation"
	"github.com/VitaminP8/moim/models"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/jinzhu/gorm"
)

const newestFirst = "created_at desc, id desc"

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func toPost(p *models.Post) *model.Post {
	return &model.Post{
		ID:        p.ID,
		AuthorID:  p.UserID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

func toPosts(rows []models.Post) []*model.Post {
	posts := make([]*model.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, toPost(&rows[i]))
	}
	return posts
}

// lockUser проверяет, что пользователь существует, и держит его строку до конца транзакции.
// Порядок блокировок везде один: сначала пользователи по возрастанию id, потом посты
func lockUser(tx *gorm.DB, userID uint) (bool, error) {
	var user models.User
	err := forUpdate(tx).Select("id").Where("id = ?", userID).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not check user")
	}
	return true, nil
}

func lockPost(tx *gorm.DB, postID uint) (bool, error) {
	var post models.Post
	err := forUpdate(tx).Select("id").Where("id = ?", postID).First(&post).Error
	if gorm.IsRecordNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not check post")
	}
	return true, nil
}

func postExists(tx *gorm.DB, postID uint) (bool, error) {
	var count int
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not check post")
	}
	return count > 0, nil
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, content string) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	content, err = validation.SanitizeContent("content", content, validation.MaxPostLength)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Content: content,
		UserID:  userID,
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		exists, err := lockUser(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.New(apperrors.ErrCodeNotFound, "author not found")
		}
		if err := tx.Create(post).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not create post")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toPost(post), nil
}

func (s *PostPostgresStorage) GetPostById(id uint) (*model.Post, error) {
	var post models.Post
	err := DB.First(&post, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get post by id")
	}
	return toPost(&post), nil
}

func (s *PostPostgresStorage) GetAllPosts() ([]*model.Post, error) {
	var posts []models.Post
	if err := DB.Order(newestFirst).Find(&posts).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get posts")
	}
	return toPosts(posts), nil
}

func (s *PostPostgresStorage) GetPostsByAuthors(authorIDs []uint) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return []*model.Post{}, nil
	}

	var posts []models.Post
	err := DB.Where("user_id IN (?)", authorIDs).Order(newestFirst).Find(&posts).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get posts by authors")
	}
	return toPosts(posts), nil
}

func (s *PostPostgresStorage) DeletePostById(ctx context.Context, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := forUpdate(tx).First(&post, id).Error
		if gorm.IsRecordNotFoundError(err) {
			return apperrors.New(apperrors.ErrCodeNotFound, "post not found")
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get post by id")
		}

		if post.UserID != userID {
			return apperrors.New(apperrors.ErrCodeForbidden, "forbidden: not author")
		}

		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not delete comments")
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not delete likes")
		}
		if err := tx.Unscoped().Delete(&post).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not delete post")
		}
		return nil
	})
}
