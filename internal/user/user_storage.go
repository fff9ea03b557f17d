package user

import (
	"context"

	"github.com/VitaminP8/moim/internal/model"
)

type UserStorage interface {
	RegisterUser(firstName, lastName, email, password string) (*model.User, error)
	LoginUser(email, password string) (string, error) // JWT
	GetUserByID(id uint) (*model.User, error)
	GetUsersByIDs(ids []uint) ([]*model.User, error)
	UpdateUser(ctx context.Context, input model.UpdateUserInput) (*model.User, error)
	// DeleteUser удаляет текущего пользователя вместе со всем, что ему принадлежит
	DeleteUser(ctx context.Context) (*model.DeleteResult, error)
}
