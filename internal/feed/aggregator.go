// Package feed собирает ленту пользователя и управляет лайками.
package feed

import (
	"context"
	"time"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/like"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/post"
	"github.com/VitaminP8/moim/internal/subscription"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/VitaminP8/moim/pkg/logger"
	"go.uber.org/zap"
)

// AuthorSource отдаёт авторов, чьи посты видит пользователь (graph.Engine)
type AuthorSource interface {
	FeedAuthors(ctx context.Context, userID uint) ([]uint, error)
}

type Aggregator struct {
	authors  AuthorSource
	posts    post.PostStorage
	likes    like.LikeStorage
	notifier subscription.Manager
	logger   *zap.Logger
}

func NewAggregator(authors AuthorSource, posts post.PostStorage, likes like.LikeStorage, notifier subscription.Manager) *Aggregator {
	return &Aggregator{
		authors:  authors,
		posts:    posts,
		likes:    likes,
		notifier: notifier,
		logger:   logger.Get(),
	}
}

func currentUser(ctx context.Context) (uint, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, nil
}

// Feed - посты пользователя и его друзей, новые первыми.
// Список авторов фиксируется один раз, посты читаются одним запросом
func (a *Aggregator) Feed(ctx context.Context) ([]*model.Post, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	authors, err := a.authors.FeedAuthors(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := a.posts.GetPostsByAuthors(authors)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("feed composed",
		zap.Uint("user_id", userID),
		zap.Int("authors", len(authors)),
		zap.Int("posts", len(posts)),
	)
	return posts, nil
}

// Like ставит лайк от текущего пользователя. Автор получает уведомление,
// только если лайк новый и поставлен не им самим
func (a *Aggregator) Like(ctx context.Context, postID uint) error {
	userID, err := currentUser(ctx)
	if err != nil {
		return err
	}

	p, err := a.posts.GetPostById(postID)
	if err != nil {
		return err
	}

	created, err := a.likes.Like(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !created || p.AuthorID == userID {
		return nil
	}

	a.notifier.Publish(p.AuthorID, &model.Notification{
		Kind:      model.NotificationPostLiked,
		ActorID:   userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	return nil
}

func (a *Aggregator) Unlike(ctx context.Context, postID uint) error {
	userID, err := currentUser(ctx)
	if err != nil {
		return err
	}
	return a.likes.Unlike(ctx, userID, postID)
}

func (a *Aggregator) IsLiked(ctx context.Context, postID uint) (bool, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return false, err
	}
	return a.likes.IsLiked(ctx, userID, postID)
}

func (a *Aggregator) Likers(ctx context.Context, postID uint) ([]uint, error) {
	return a.likes.Likers(ctx, postID)
}
