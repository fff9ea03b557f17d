// Package graph выводит отношения между пользователями из рёбер дружбы.
// Ничего не сохраняет: каждое множество пересчитывается по текущему состоянию хранилища.
package graph

import (
	"context"
	"sync"

	"github.com/VitaminP8/moim/internal/friendship"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

type Engine struct {
	edges   friendship.FriendshipStorage
	workers int
	logger  *zap.Logger
}

func NewEngine(edges friendship.FriendshipStorage, workers int) *Engine {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Engine{
		edges:   edges,
		workers: workers,
		logger:  logger.Get(),
	}
}

// neighbourhood - рёбра одного пользователя, разложенные по видам
type neighbourhood struct {
	friends         IDSet
	pendingSent     IDSet
	pendingReceived IDSet
	related         IDSet // любое ребро в любую сторону
}

func classify(userID uint, edges []*model.Friendship) neighbourhood {
	n := neighbourhood{
		friends:         NewIDSet(),
		pendingSent:     NewIDSet(),
		pendingReceived: NewIDSet(),
		related:         NewIDSet(),
	}
	for _, edge := range edges {
		if !edge.Touches(userID) {
			continue
		}
		other := edge.Other(userID)
		if other == userID {
			continue
		}
		n.related.Add(other)

		switch {
		case edge.Confirmed:
			n.friends.Add(other)
		case edge.RequesterID == userID:
			n.pendingSent.Add(other)
		default:
			n.pendingReceived.Add(other)
		}
	}
	return n
}

func (e *Engine) neighbourhood(ctx context.Context, userID uint) (neighbourhood, error) {
	edges, err := e.edges.EdgesOf(ctx, userID)
	if err != nil {
		return neighbourhood{}, err
	}
	return classify(userID, edges), nil
}

// fanOut читает окрестности нескольких пользователей параллельно, не более e.workers одновременно
func (e *Engine) fanOut(ctx context.Context, ids IDSet) (map[uint]neighbourhood, error) {
	var mu sync.Mutex
	result := make(map[uint]neighbourhood, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, id := range ids.Sorted() {
		id := id
		g.Go(func() error {
			n, err := e.neighbourhood(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			result[id] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// AnyFriendships возвращает все рёбра пользователя независимо от направления и статуса
func (e *Engine) AnyFriendships(ctx context.Context, userID uint) ([]*model.Friendship, error) {
	return e.edges.EdgesOf(ctx, userID)
}

// PendingFriends - кому пользователь отправил запрос, ещё не принятый
func (e *Engine) PendingFriends(ctx context.Context, userID uint) ([]uint, error) {
	n, err := e.neighbourhood(ctx, userID)
	if err != nil {
		return nil, err
	}
	return n.pendingSent.Sorted(), nil
}

// FriendRequests - кто отправил пользователю запрос, ещё не принятый
func (e *Engine) FriendRequests(ctx context.Context, userID uint) ([]uint, error) {
	n, err := e.neighbourhood(ctx, userID)
	if err != nil {
		return nil, err
	}
	return n.pendingReceived.Sorted(), nil
}

func (e *Engine) Friends(ctx context.Context, userID uint) ([]uint, error) {
	n, err := e.neighbourhood(ctx, userID)
	if err != nil {
		return nil, err
	}
	return n.friends.Sorted(), nil
}

func (e *Engine) IsFriend(ctx context.Context, userID, otherID uint) (bool, error) {
	if userID == otherID {
		return false, nil
	}
	n, err := e.neighbourhood(ctx, userID)
	if err != nil {
		return false, err
	}
	return n.friends.Has(otherID), nil
}

func (e *Engine) MutualFriendsWith(ctx context.Context, userID, otherID uint) ([]uint, error) {
	hoods, err := e.fanOut(ctx, NewIDSet(userID, otherID))
	if err != nil {
		return nil, err
	}
	mutual := hoods[userID].friends.Intersect(hoods[otherID].friends)
	return mutual.Difference(NewIDSet(userID, otherID)).Sorted(), nil
}

// FeedAuthors - чьи посты попадают в ленту: сам пользователь и его подтверждённые друзья
func (e *Engine) FeedAuthors(ctx context.Context, userID uint) ([]uint, error) {
	n, err := e.neighbourhood(ctx, userID)
	if err != nil {
		return nil, err
	}
	return n.friends.Union(NewIDSet(userID)).Sorted(), nil
}

// secondDegree возвращает рекомендации и всех друзей друзей (включая уже знакомых)
func (e *Engine) secondDegree(ctx context.Context, userID uint, n neighbourhood) (recommended, friendsOfFriends IDSet, err error) {
	hoods, err := e.fanOut(ctx, n.friends)
	if err != nil {
		return nil, nil, err
	}

	friendsOfFriends = NewIDSet()
	for _, hood := range hoods {
		friendsOfFriends = friendsOfFriends.Union(hood.friends)
	}

	recommended = friendsOfFriends.Difference(NewIDSet(userID), n.friends, n.related)
	return recommended, friendsOfFriends, nil
}

// RecommendedFriends - друзья друзей, с которыми у пользователя нет никаких рёбер
func (e *Engine) RecommendedFriends(ctx context.Context, userID uint) ([]uint, error) {
	n, err := e.neighbourhood(ctx, userID)
	if err != nil {
		return nil, err
	}

	recommended, _, err := e.secondDegree(ctx, userID, n)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("recommended friends computed",
		zap.Uint("user_id", userID),
		zap.Int("friends", n.friends.Len()),
		zap.Int("recommended", recommended.Len()),
	)
	return recommended.Sorted(), nil
}

// NewFriends - следующий слой после рекомендаций. Третий шаг идёт по любому
// ребру участников пула, подтверждённому или нет
func (e *Engine) NewFriends(ctx context.Context, userID uint) ([]uint, error) {
	n, err := e.neighbourhood(ctx, userID)
	if err != nil {
		return nil, err
	}

	recommended, friendsOfFriends, err := e.secondDegree(ctx, userID, n)
	if err != nil {
		return nil, err
	}

	pool := recommended.Union(friendsOfFriends).Difference(NewIDSet(userID))
	hoods, err := e.fanOut(ctx, pool)
	if err != nil {
		return nil, err
	}

	reach := NewIDSet()
	for _, hood := range hoods {
		reach = reach.Union(hood.related)
	}

	discovered := reach.Difference(NewIDSet(userID), n.friends, recommended, n.related)

	e.logger.Debug("new friends computed",
		zap.Uint("user_id", userID),
		zap.Int("pool", pool.Len()),
		zap.Int("discovered", discovered.Len()),
	)
	return discovered.Sorted(), nil
}
