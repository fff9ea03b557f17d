package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/model"

	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_secret_key_for_jwt"

func createUserContext(userID uint) context.Context {
	ctx := context.Background()
	return auth.WithUserID(ctx, userID)
}

// registerUsers регистрирует пользователей с заданными именами и возвращает их по имени
func registerUsers(t *testing.T, storage *UserMemoryStorage, names ...string) map[string]*model.User {
	t.Helper()

	users := make(map[string]*model.User, len(names))
	for _, name := range names {
		user, err := storage.RegisterUser(name, "Tester", fmt.Sprintf("%s@example.com", name), "password123")
		require.NoError(t, err)
		users[name] = user
	}
	return users
}
