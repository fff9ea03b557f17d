package memory

import (
	"context"
	"strings"
	"time"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/validation"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	db        *Database
	jwtSecret string
}

func NewUserMemoryStorage(db *Database, jwtSecret string) *UserMemoryStorage {
	return &UserMemoryStorage{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserMemoryStorage) RegisterUser(firstName, lastName, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := validation.ValidateRegistration(firstName, lastName, email, password); err != nil {
		return nil, err
	}

	// хэшируем до захвата мьютекса: bcrypt медленный
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to hash password")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, exists := s.db.emails[email]; exists {
		return nil, apperrors.Validation(map[string]string{"email": "has already been taken"})
	}

	id := s.db.nextUserID
	s.db.nextUserID++

	user := &model.User{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: time.Now(),
	}
	s.db.users[id] = &userRecord{user: user, password: string(hashedPassword)}
	s.db.emails[email] = id

	return copyUser(user), nil
}

func (s *UserMemoryStorage) LoginUser(email, password string) (string, error) {
	s.db.mu.RLock()
	var record *userRecord
	if id, ok := s.db.emails[normalizeEmail(email)]; ok {
		record = s.db.users[id]
	}
	s.db.mu.RUnlock()

	if record == nil {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "invalid email or password")
	}

	err := bcrypt.CompareHashAndPassword([]byte(record.password), []byte(password))
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "invalid email or password")
	}

	tokenString, err := auth.IssueToken(s.jwtSecret, record.user.ID)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to issue token")
	}
	return tokenString, nil
}

func (s *UserMemoryStorage) GetUserByID(id uint) (*model.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	record, ok := s.db.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
	}
	return copyUser(record.user), nil
}

func (s *UserMemoryStorage) GetUsersByIDs(ids []uint) ([]*model.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.db.users[id]; ok {
			users = append(users, copyUser(record.user))
		}
	}
	return users, nil
}

func (s *UserMemoryStorage) UpdateUser(ctx context.Context, input model.UpdateUserInput) (*model.User, error) {
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

	var newHash string
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to hash password")
		}
		newHash = string(hashed)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	record, ok := s.db.users[userID]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(record.password), []byte(input.CurrentPassword)) != nil {
		return nil, apperrors.Validation(map[string]string{"current_password": "is invalid"})
	}

	if input.Email != nil && *input.Email != record.user.Email {
		if _, taken := s.db.emails[*input.Email]; taken {
			return nil, apperrors.Validation(map[string]string{"email": "has already been taken"})
		}
		delete(s.db.emails, record.user.Email)
		s.db.emails[*input.Email] = userID
		record.user.Email = *input.Email
	}
	if input.FirstName != nil {
		record.user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		record.user.LastName = *input.LastName
	}
	if newHash != "" {
		record.password = newHash
	}

	return copyUser(record.user), nil
}

func (s *UserMemoryStorage) DeleteUser(ctx context.Context) (*model.DeleteResult, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	record, ok := s.db.users[userID]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "user not found")
	}

	result := &model.DeleteResult{}

	// сначала посты пользователя вместе с чужими комментариями и лайками на них
	for id, p := range s.db.posts {
		if p.AuthorID == userID {
			comments, likes := s.db.deletePostLocked(id)
			result.Posts++
			result.Comments += comments
			result.Likes += likes
		}
	}

	for id, c := range s.db.comments {
		if c.AuthorID == userID {
			delete(s.db.comments, id)
			result.Comments++
		}
	}

	for postID, likers := range s.db.likes {
		if _, ok := likers[userID]; ok {
			delete(likers, userID)
			result.Likes++
			if len(likers) == 0 {
				delete(s.db.likes, postID)
			}
		}
	}

	result.Friendships = s.db.destroyFriendshipsLocked(userID)

	delete(s.db.emails, record.user.Email)
	delete(s.db.users, userID)
	result.Users = 1

	return result, nil
}
