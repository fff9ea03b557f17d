package friendship

import (
	"context"
	"time"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/subscription"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/VitaminP8/moim/pkg/logger"
	"go.uber.org/zap"
)

// Service - переходы жизненного цикла дружбы от имени текущего пользователя
type Service struct {
	storage  FriendshipStorage
	notifier subscription.Manager
	logger   *zap.Logger
}

func NewService(storage FriendshipStorage, notifier subscription.Manager) *Service {
	return &Service{
		storage:  storage,
		notifier: notifier,
		logger:   logger.Get(),
	}
}

// SendRequest отправляет запрос дружбы от текущего пользователя к addresseeID
func (s *Service) SendRequest(ctx context.Context, addresseeID uint) (*model.Friendship, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	edge, err := s.storage.SendRequest(ctx, userID, addresseeID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("friend request sent",
		zap.Uint("requester_id", userID),
		zap.Uint("addressee_id", addresseeID),
		zap.Uint("friendship_id", edge.ID),
	)
	s.notifier.Publish(addresseeID, &model.Notification{
		Kind:      model.NotificationFriendRequest,
		ActorID:   userID,
		CreatedAt: time.Now(),
	})
	return edge, nil
}

// Confirm принимает запрос, который requesterID отправил текущему пользователю
func (s *Service) Confirm(ctx context.Context, requesterID uint) (*model.Friendship, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	edge, err := s.storage.Confirm(ctx, userID, requesterID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("friend request confirmed",
		zap.Uint("requester_id", requesterID),
		zap.Uint("addressee_id", userID),
		zap.Uint("friendship_id", edge.ID),
	)
	s.notifier.Publish(requesterID, &model.Notification{
		Kind:      model.NotificationFriendConfirmed,
		ActorID:   userID,
		CreatedAt: time.Now(),
	})
	return edge, nil
}
