package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/model"
	apperrors "github.com/VitaminP8/moim/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestUserMemoryStorage_RegisterUser(t *testing.T) {
	storage := NewUserMemoryStorage(NewDatabase(), testJWTSecret)

	t.Run("Successful user registration", func(t *testing.T) {
		user, err := storage.RegisterUser("Jen", "Barber", "Jen@Example.com ", "password123")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "Jen", user.FirstName)
		assert.Equal(t, "Barber", user.LastName)
		assert.Equal(t, "jen@example.com", user.Email)
		assert.Equal(t, "Jen Barber", user.Name())
	})

	t.Run("Register user with duplicate email", func(t *testing.T) {
		_, err := storage.RegisterUser("Roy", "Trenneman", "roy@example.com", "password123")
		require.NoError(t, err)

		_, err = storage.RegisterUser("Other", "Roy", "ROY@example.com", "anotherpassword")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeConstraintViolation))
		assert.Contains(t, err.Error(), "has already been taken")
	})

	t.Run("Register user with invalid fields", func(t *testing.T) {
		_, err := storage.RegisterUser("", "Moss", "not-an-email", "123")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeConstraintViolation))
		assert.Contains(t, err.Error(), "first_name: can't be blank")
		assert.Contains(t, err.Error(), "email: is invalid")
		assert.Contains(t, err.Error(), "password: is too short (minimum is 6 characters)")
	})
}

func TestUserMemoryStorage_LoginUser(t *testing.T) {
	storage := NewUserMemoryStorage(NewDatabase(), testJWTSecret)

	user, err := storage.RegisterUser("Moris", "Moss", "moris@example.com", "loginpassword123")
	require.NoError(t, err)

	t.Run("Successful login", func(t *testing.T) {
		token, err := storage.LoginUser("moris@example.com", "loginpassword123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		userID, err := auth.ParseToken(testJWTSecret, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		_, err := storage.LoginUser("moris@example.com", "wrongpassword")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))
	})

	t.Run("Login with unknown email", func(t *testing.T) {
		_, err := storage.LoginUser("nobody@example.com", "loginpassword123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid email or password")
	})
}

func TestUserMemoryStorage_GetUser(t *testing.T) {
	storage := NewUserMemoryStorage(NewDatabase(), testJWTSecret)
	users := registerUsers(t, storage, "jen", "roy")

	t.Run("Get existing user", func(t *testing.T) {
		user, err := storage.GetUserByID(users["jen"].ID)
		require.NoError(t, err)
		assert.Equal(t, users["jen"].Email, user.Email)
	})

	t.Run("Get not existing user", func(t *testing.T) {
		_, err := storage.GetUserByID(999)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	})

	t.Run("Get users by ids skips unknown", func(t *testing.T) {
		found, err := storage.GetUsersByIDs([]uint{users["roy"].ID, 999, users["jen"].ID})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, users["roy"].ID, found[0].ID)
		assert.Equal(t, users["jen"].ID, found[1].ID)
	})

	t.Run("Returned user is a copy", func(t *testing.T) {
		user, err := storage.GetUserByID(users["jen"].ID)
		require.NoError(t, err)
		user.FirstName = "changed"

		again, err := storage.GetUserByID(users["jen"].ID)
		require.NoError(t, err)
		assert.Equal(t, "jen", again.FirstName)
	})
}

func TestUserMemoryStorage_UpdateUser(t *testing.T) {
	storage := NewUserMemoryStorage(NewDatabase(), testJWTSecret)
	users := registerUsers(t, storage, "jen", "roy")
	ctx := createUserContext(users["jen"].ID)

	t.Run("Update name with current password", func(t *testing.T) {
		updated, err := storage.UpdateUser(ctx, model.UpdateUserInput{
			FirstName:       strPtr("Jennifer"),
			CurrentPassword: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, "Jennifer", updated.FirstName)
		assert.Equal(t, "Tester", updated.LastName)
	})

	t.Run("Update with wrong current password", func(t *testing.T) {
		_, err := storage.UpdateUser(ctx, model.UpdateUserInput{
			LastName:        strPtr("Barber"),
			CurrentPassword: "wrong-password",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "current_password: is invalid")
	})

	t.Run("Update email to taken one", func(t *testing.T) {
		_, err := storage.UpdateUser(ctx, model.UpdateUserInput{
			Email:           strPtr("roy@example.com"),
			CurrentPassword: "password123",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email: has already been taken")
	})

	t.Run("Change password and email", func(t *testing.T) {
		_, err := storage.UpdateUser(ctx, model.UpdateUserInput{
			Email:           strPtr("jen.barber@example.com"),
			Password:        strPtr("newpassword456"),
			CurrentPassword: "password123",
		})
		require.NoError(t, err)

		_, err = storage.LoginUser("jen@example.com", "password123")
		assert.Error(t, err)

		token, err := storage.LoginUser("jen.barber@example.com", "newpassword456")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Update without authorization", func(t *testing.T) {
		_, err := storage.UpdateUser(context.Background(), model.UpdateUserInput{CurrentPassword: "password123"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))
	})
}

func TestUserMemoryStorage_DeleteUser(t *testing.T) {
	db := NewDatabase()
	users := NewUserMemoryStorage(db, testJWTSecret)
	posts := NewPostMemoryStorage(db)
	comments := NewCommentMemoryStorage(db)
	likes := NewLikeMemoryStorage(db)
	friendships := NewFriendshipMemoryStorage(db)

	u := registerUsers(t, users, "jen", "roy", "moris")
	jenCtx := createUserContext(u["jen"].ID)
	royCtx := createUserContext(u["roy"].ID)

	// пост Jen с комментарием и лайком Roy
	jenPost, err := posts.CreatePost(jenCtx, "jen post")
	require.NoError(t, err)
	_, err = comments.CreateComment(royCtx, jenPost.ID, "roy on jen")
	require.NoError(t, err)
	_, err = likes.Like(royCtx, u["roy"].ID, jenPost.ID)
	require.NoError(t, err)

	// пост Roy с комментарием и лайком Jen
	royPost, err := posts.CreatePost(royCtx, "roy post")
	require.NoError(t, err)
	_, err = comments.CreateComment(jenCtx, royPost.ID, "jen on roy")
	require.NoError(t, err)
	_, err = likes.Like(jenCtx, u["jen"].ID, royPost.ID)
	require.NoError(t, err)

	_, err = friendships.SendRequest(jenCtx, u["jen"].ID, u["roy"].ID)
	require.NoError(t, err)
	_, err = friendships.SendRequest(jenCtx, u["moris"].ID, u["jen"].ID)
	require.NoError(t, err)

	t.Run("Delete cascades and reports counts", func(t *testing.T) {
		result, err := users.DeleteUser(jenCtx)
		require.NoError(t, err)
		assert.Equal(t, &model.DeleteResult{
			Users:       1,
			Posts:       1,
			Comments:    2,
			Likes:       2,
			Friendships: 2,
		}, result)
	})

	t.Run("Nothing references deleted user", func(t *testing.T) {
		_, err := users.GetUserByID(u["jen"].ID)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

		_, err = posts.GetPostById(jenPost.ID)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

		conn, err := comments.GetComments(royPost.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, conn.Items)

		likers, err := likes.Likers(royCtx, royPost.ID)
		require.NoError(t, err)
		assert.Empty(t, likers)

		for _, name := range []string{"roy", "moris"} {
			edges, err := friendships.EdgesOf(royCtx, u[name].ID)
			require.NoError(t, err)
			assert.Empty(t, edges)
		}
	})

	t.Run("Email is free again", func(t *testing.T) {
		_, err := users.RegisterUser("Jen", "Again", "jen@example.com", "password123")
		assert.NoError(t, err)
	})

	t.Run("Delete already deleted user", func(t *testing.T) {
		_, err := users.DeleteUser(jenCtx)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	})
}

func TestUserMemoryStorage_ConcurrentRegistration(t *testing.T) {
	storage := NewUserMemoryStorage(NewDatabase(), testJWTSecret)

	var wg sync.WaitGroup
	numGoroutines := 10
	ids := make(chan uint, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			user, err := storage.RegisterUser("user", strconv.Itoa(idx), "user"+strconv.Itoa(idx)+"@example.com", "password123")
			assert.NoError(t, err)
			if err == nil {
				ids <- user.ID
			}
		}(i)
	}

	wg.Wait()
	close(ids)

	seen := make(map[uint]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d выдан дважды", id)
		seen[id] = true
	}
	assert.Len(t, seen, numGoroutines)
}
