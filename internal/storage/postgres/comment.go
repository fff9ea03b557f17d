package postgres

import (
	"context"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/comment"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/validation"
	"github.com/VitaminP8/moim/models"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

func toComment(c *models.Comment) *model.Comment {
	return &model.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, postID uint, content string) (*model.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	content, err = validation.SanitizeContent("content", content, validation.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	row := &models.Comment{
		Content: content,
		PostID:  postID,
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

		exists, err = lockPost(tx, postID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.New(apperrors.ErrCodeNotFound, "post not found")
		}

		if err := tx.Create(row).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not create comment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toComment(row), nil
}

func (s *CommentPostgresStorage) GetComments(postID uint, limit, offset int) (*model.CommentConnection, error) {
	if limit <= 0 {
		limit = comment.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	exists, err := postExists(DB, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}

	var total int
	if err := DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not count comments")
	}

	var rows []models.Comment
	err = DB.Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get comments")
	}

	items := make([]*model.Comment, 0, len(rows))
	for i := range rows {
		items = append(items, toComment(&rows[i]))
	}

	nextOffset := offset
	if len(items) > 0 {
		nextOffset = offset + len(items)
	}

	return &model.CommentConnection{
		Items:      items,
		HasMore:    nextOffset < total,
		NextOffset: nextOffset,
	}, nil
}
