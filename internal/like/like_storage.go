package like

import "context"

type LikeStorage interface {
	// Like возвращает true, если ребро было создано этим вызовом
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Likers(ctx context.Context, postID uint) ([]uint, error)
}
