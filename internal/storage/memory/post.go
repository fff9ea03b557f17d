package memory

import (
	"context"
	"time"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/validation"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
)

type PostMemoryStorage struct {
	db *Database
}

func NewPostMemoryStorage(db *Database) *PostMemoryStorage {
	return &PostMemoryStorage{db: db}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, content string) (*model.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	content, err = validation.SanitizeContent("content", content, validation.MaxPostLength)
	if err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[userID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "author not found")
	}

	id := s.db.nextPostID
	s.db.nextPostID++

	post := &model.Post{
		ID:        id,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.db.posts[id] = post

	return copyPost(post), nil
}

func (s *PostMemoryStorage) GetPostById(id uint) (*model.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	post, exists := s.db.posts[id]
	if !exists {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	return copyPost(post), nil
}

func (s *PostMemoryStorage) GetAllPosts() ([]*model.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	posts := make([]*model.Post, 0, len(s.db.posts))
	for _, post := range s.db.posts {
		posts = append(posts, copyPost(post))
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *PostMemoryStorage) GetPostsByAuthors(authorIDs []uint) ([]*model.Post, error) {
	authors := make(map[uint]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	posts := []*model.Post{}
	for _, post := range s.db.posts {
		if _, ok := authors[post.AuthorID]; ok {
			posts = append(posts, copyPost(post))
		}
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *PostMemoryStorage) DeletePostById(ctx context.Context, id uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	post, exists := s.db.posts[id]
	if !exists {
		return apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	if post.AuthorID != userID {
		return apperrors.New(apperrors.ErrCodeForbidden, "forbidden: not author")
	}

	s.db.deletePostLocked(id)
	return nil
}
