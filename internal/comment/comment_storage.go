package comment

import (
	"context"

	"github.com/VitaminP8/moim/internal/model"
)

// DefaultPageSize применяется, когда limit не задан
const DefaultPageSize = 20

type CommentStorage interface {
	CreateComment(ctx context.Context, postID uint, content string) (*model.Comment, error)
	GetComments(postID uint, limit, offset int) (*model.CommentConnection, error)
}
