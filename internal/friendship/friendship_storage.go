package friendship

import (
	"context"

	"github.com/VitaminP8/moim/internal/model"
)

type FriendshipStorage interface {
	SendRequest(ctx context.Context, requesterID, addresseeID uint) (*model.Friendship, error)
	// Confirm подтверждает ребро otherID -> confirmingID
	Confirm(ctx context.Context, confirmingID, otherID uint) (*model.Friendship, error)
	DestroyAllFor(ctx context.Context, userID uint) (int, error)
	EdgesOf(ctx context.Context, userID uint) ([]*model.Friendship, error)
}
