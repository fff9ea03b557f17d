package memory

import (
	"context"
	"sort"
	"time"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/comment"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/validation"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
)

type CommentMemoryStorage struct {
	db *Database
}

func NewCommentMemoryStorage(db *Database) *CommentMemoryStorage {
	return &CommentMemoryStorage{db: db}
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, postID uint, content string) (*model.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	content, err = validation.SanitizeContent("content", content, validation.MaxCommentLength)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[postID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	if _, ok := s.db.users[userID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "author not found")
	}

	id := s.db.nextCommentID
	s.db.nextCommentID++

	c := &model.Comment{
		ID:        id,
		PostID:    postID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.db.comments[id] = c

	cp := *c
	return &cp, nil
}

func (s *CommentMemoryStorage) GetComments(postID uint, limit, offset int) (*model.CommentConnection, error) {
	if limit <= 0 {
		limit = comment.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.posts[postID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}

	var comments []*model.Comment
	for _, c := range s.db.comments {
		if c.PostID == postID {
			cp := *c
			comments = append(comments, &cp)
		}
	}

	// Сортируем по CreatedAt (по возрастанию) (и по ID в случае одинакового времени создания)
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	if offset >= len(comments) {
		return &model.CommentConnection{
			Items:      []*model.Comment{},
			HasMore:    false,
			NextOffset: offset,
		}, nil
	}

	end := offset + limit
	if end > len(comments) {
		end = len(comments)
	}

	return &model.CommentConnection{
		Items:      comments[offset:end],
		HasMore:    end < len(comments),
		NextOffset: end,
	}, nil
}
