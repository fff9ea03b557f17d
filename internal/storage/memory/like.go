package memory

import (
	"context"
	"sort"

	apperrors "github.com/VitaminP8/moim/pkg/errors"
)

type LikeMemoryStorage struct {
	db *Database
}

func NewLikeMemoryStorage(db *Database) *LikeMemoryStorage {
	return &LikeMemoryStorage{db: db}
}

func (s *LikeMemoryStorage) Like(ctx context.Context, userID, postID uint) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[postID]; !ok {
		return false, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	if _, ok := s.db.users[userID]; !ok {
		return false, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
	}

	likers := s.db.likes[postID]
	if likers == nil {
		likers = make(map[uint]struct{})
		s.db.likes[postID] = likers
	}
	if _, liked := likers[userID]; liked {
		return false, nil
	}
	likers[userID] = struct{}{}
	return true, nil
}

func (s *LikeMemoryStorage) Unlike(ctx context.Context, userID, postID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[postID]; !ok {
		return apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}

	likers := s.db.likes[postID]
	delete(likers, userID)
	if len(likers) == 0 {
		delete(s.db.likes, postID)
	}
	return nil
}

func (s *LikeMemoryStorage) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.posts[postID]; !ok {
		return false, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}
	_, liked := s.db.likes[postID][userID]
	return liked, nil
}

func (s *LikeMemoryStorage) Likers(ctx context.Context, postID uint) ([]uint, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.posts[postID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "post not found")
	}

	likers := make([]uint, 0, len(s.db.likes[postID]))
	for userID := range s.db.likes[postID] {
		likers = append(likers, userID)
	}
	sort.Slice(likers, func(i, j int) bool { return likers[i] < likers[j] })
	return likers, nil
}
