package postgres

import (
	"context"
	"strings"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/validation"
	"github.com/VitaminP8/moim/models"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/jinzhu/gorm"

	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct {
	jwtSecret string
}

func NewUserPostgresStorage(jwtSecret string) *UserPostgresStorage {
	return &UserPostgresStorage{jwtSecret: jwtSecret}
}

func toUser(u *models.User) *model.User {
	return &model.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var errEmailTaken = apperrors.Validation(map[string]string{"email": "has already been taken"})

func (s *UserPostgresStorage) RegisterUser(firstName, lastName, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := validation.ValidateRegistration(firstName, lastName, email, password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(hashedPassword),
	}

	// уникальность email проверяет индекс, а не предварительный SELECT
	err = DB.Create(user).Error
	if isUniqueViolation(err) {
		return nil, errEmailTaken
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to create user")
	}

	return toUser(user), nil
}

func (s *UserPostgresStorage) LoginUser(email, password string) (string, error) {
	var user models.User
	err := DB.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "invalid email or password")
	}
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to load user")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "invalid email or password")
	}

	tokenString, err := auth.IssueToken(s.jwtSecret, user.ID)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to issue token")
	}
	return tokenString, nil
}

func (s *UserPostgresStorage) GetUserByID(id uint) (*model.User, error) {
	var user models.User
	err := DB.First(&user, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get user by id")
	}
	return toUser(&user), nil
}

func (s *UserPostgresStorage) GetUsersByIDs(ids []uint) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	var rows []models.User
	if err := DB.Where("id IN (?)", ids).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get users")
	}

	byID := make(map[uint]*models.User, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	// порядок как во входном списке
	users := make([]*model.User, 0, len(rows))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, toUser(u))
		}
	}
	return users, nil
}

func (s *UserPostgresStorage) UpdateUser(ctx context.Context, input model.UpdateUserInput) (*model.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}
	if err := validation.ValidateUpdate(input); err != nil {
		return nil, err
	}

	var user models.User
	err = DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&user, userID).Error
		if gorm.IsRecordNotFoundError(err) {
			return apperrors.New(apperrors.ErrCodeNotFound, "user not found")
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not load user")
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)) != nil {
			return apperrors.Validation(map[string]string{"current_password": "is invalid"})
		}

		changes := map[string]interface{}{}
		if input.FirstName != nil {
			changes["first_name"] = *input.FirstName
		}
		if input.LastName != nil {
			changes["last_name"] = *input.LastName
		}
		if input.Email != nil {
			changes["email"] = *input.Email
		}
		if input.Password != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to hash password")
			}
			changes["password"] = string(hashed)
		}
		if len(changes) == 0 {
			return nil
		}

		err = tx.Model(&user).Updates(changes).Error
		if isUniqueViolation(err) {
			return errEmailTaken
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not update user")
		}
		return tx.First(&user, userID).Error
	})
	if err != nil {
		return nil, err
	}

	return toUser(&user), nil
}

func (s *UserPostgresStorage) DeleteUser(ctx context.Context) (*model.DeleteResult, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	result := &model.DeleteResult{}
	err = DB.Transaction(func(tx *gorm.DB) error {
		// строки пользователя и его постов держим до конца каскада,
		// чтобы параллельные лайки, комментарии и запросы дождались удаления
		exists, err := lockUser(tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.New(apperrors.ErrCodeNotFound, "user not found")
		}

		var posts []models.Post
		if err := forUpdate(tx).Select("id").Where("user_id = ?", userID).Find(&posts).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not list user posts")
		}
		postIDs := make([]uint, 0, len(posts))
		for _, p := range posts {
			postIDs = append(postIDs, p.ID)
		}

		// комментарии и лайки на постах пользователя плюс его собственные на чужих
		comments := tx.Unscoped().Where("user_id = ?", userID)
		likes := tx.Where("user_id = ?", userID)
		if len(postIDs) > 0 {
			comments = tx.Unscoped().Where("user_id = ? OR post_id IN (?)", userID, postIDs)
			likes = tx.Where("user_id = ? OR post_id IN (?)", userID, postIDs)
		}

		del := comments.Delete(&models.Comment{})
		if del.Error != nil {
			return apperrors.Wrap(del.Error, apperrors.ErrCodeInternalError, "could not delete comments")
		}
		result.Comments = int(del.RowsAffected)

		del = likes.Delete(&models.Like{})
		if del.Error != nil {
			return apperrors.Wrap(del.Error, apperrors.ErrCodeInternalError, "could not delete likes")
		}
		result.Likes = int(del.RowsAffected)

		del = tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Post{})
		if del.Error != nil {
			return apperrors.Wrap(del.Error, apperrors.ErrCodeInternalError, "could not delete posts")
		}
		result.Posts = int(del.RowsAffected)

		removed, err := destroyFriendships(tx, userID)
		if err != nil {
			return err
		}
		result.Friendships = removed

		del = tx.Unscoped().Where("id = ?", userID).Delete(&models.User{})
		if del.Error != nil {
			return apperrors.Wrap(del.Error, apperrors.ErrCodeInternalError, "could not delete user")
		}
		result.Users = int(del.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
