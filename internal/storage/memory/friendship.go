package memory

import (
	"context"
	"sort"
	"time"

	"github.com/VitaminP8/moim/internal/model"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
)

type FriendshipMemoryStorage struct {
	db *Database
}

func NewFriendshipMemoryStorage(db *Database) *FriendshipMemoryStorage {
	return &FriendshipMemoryStorage{db: db}
}

func (s *FriendshipMemoryStorage) SendRequest(ctx context.Context, requesterID, addresseeID uint) (*model.Friendship, error) {
	if requesterID == addresseeID {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "cannot send a friend request to yourself")
	}

	// проверка и вставка под одной блокировкой
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[requesterID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "requester not found")
	}
	if _, ok := s.db.users[addresseeID]; !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "addressee not found")
	}
	if _, exists := s.db.adjacency[requesterID][addresseeID]; exists {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "a friendship or request already exists between these users")
	}

	now := time.Now()
	friendship := &model.Friendship{
		ID:          s.db.nextFriendshipID,
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Confirmed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.db.nextFriendshipID++

	s.db.friendships[friendship.ID] = friendship
	s.db.linkLocked(friendship)

	return copyFriendship(friendship), nil
}

func (s *FriendshipMemoryStorage) Confirm(ctx context.Context, confirmingID, otherID uint) (*model.Friendship, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	friendshipID, exists := s.db.adjacency[confirmingID][otherID]
	if !exists {
		return nil, apperrors.New(apperrors.ErrCodeEdgeNotFound, "no pending friend request to confirm")
	}

	friendship := s.db.friendships[friendshipID]
	if friendship.AddresseeID != confirmingID || friendship.Confirmed {
		return nil, apperrors.New(apperrors.ErrCodeEdgeNotFound, "no pending friend request to confirm")
	}

	friendship.Confirmed = true
	friendship.UpdatedAt = time.Now()

	return copyFriendship(friendship), nil
}

func (s *FriendshipMemoryStorage) DestroyAllFor(ctx context.Context, userID uint) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	return s.db.destroyFriendshipsLocked(userID), nil
}

func (s *FriendshipMemoryStorage) EdgesOf(ctx context.Context, userID uint) ([]*model.Friendship, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	edges := make([]*model.Friendship, 0, len(s.db.adjacency[userID]))
	for _, friendshipID := range s.db.adjacency[userID] {
		edges = append(edges, copyFriendship(s.db.friendships[friendshipID]))
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges, nil
}
