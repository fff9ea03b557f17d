package post

import (
	"context"

	"github.com/VitaminP8/moim/internal/model"
)

type PostStorage interface {
	CreatePost(ctx context.Context, content string) (*model.Post, error)
	GetPostById(id uint) (*model.Post, error)
	GetAllPosts() ([]*model.Post, error)
	// GetPostsByAuthors возвращает посты авторов, новые первыми
	GetPostsByAuthors(authorIDs []uint) ([]*model.Post, error)
	DeletePostById(ctx context.Context, id uint) error
}
