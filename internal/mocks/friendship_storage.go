package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/VitaminP8/moim/internal/model"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
)

// MockFriendshipStorage реализует friendship.FriendshipStorage поверх списка рёбер.
// Err, если задан, возвращается из всех методов
type MockFriendshipStorage struct {
	mu     sync.Mutex
	edges  []*model.Friendship
	nextID uint

	Err error
	// FailFor - EdgesOf падает только для этих пользователей
	FailFor map[uint]bool

	edgesOfCalls int
}

func NewMockFriendshipStorage() *MockFriendshipStorage {
	return &MockFriendshipStorage{nextID: 1}
}

var ErrMockStorage = errors.New("mock storage failure")

// AddEdge добавляет ребро в обход проверок
func (m *MockFriendshipStorage) AddEdge(requesterID, addresseeID uint, confirmed bool) *model.Friendship {
	m.mu.Lock()
	defer m.mu.Unlock()

	edge := &model.Friendship{
		ID:          m.nextID,
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Confirmed:   confirmed,
	}
	m.nextID++
	m.edges = append(m.edges, edge)
	return edge
}

func (m *MockFriendshipStorage) SendRequest(ctx context.Context, requesterID, addresseeID uint) (*model.Friendship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if requesterID == addresseeID {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "cannot send a friend request to yourself")
	}

	m.mu.Lock()
	for _, e := range m.edges {
		if e.Touches(requesterID) && e.Other(requesterID) == addresseeID {
			m.mu.Unlock()
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "a friendship or request already exists between these users")
		}
	}
	m.mu.Unlock()

	edge := m.AddEdge(requesterID, addresseeID, false)
	cp := *edge
	return &cp, nil
}

func (m *MockFriendshipStorage) Confirm(ctx context.Context, confirmingID, otherID uint) (*model.Friendship, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.edges {
		if e.RequesterID == otherID && e.AddresseeID == confirmingID && !e.Confirmed {
			e.Confirmed = true
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.New(apperrors.ErrCodeEdgeNotFound, "no pending friend request to confirm")
}

func (m *MockFriendshipStorage) DestroyAllFor(ctx context.Context, userID uint) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.edges[:0]
	removed := 0
	for _, e := range m.edges {
		if e.Touches(userID) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept
	return removed, nil
}

func (m *MockFriendshipStorage) EdgesOf(ctx context.Context, userID uint) ([]*model.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.edgesOfCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.FailFor[userID] {
		return nil, apperrors.Wrap(ErrMockStorage, apperrors.ErrCodeInternalError, "could not get friendships")
	}

	var result []*model.Friendship
	for _, e := range m.edges {
		if e.Touches(userID) {
			cp := *e
			result = append(result, &cp)
		}
	}
	return result, nil
}

// EdgesOfCalls - сколько раз вызывался EdgesOf
func (m *MockFriendshipStorage) EdgesOfCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edgesOfCalls
}
