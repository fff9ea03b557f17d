package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/models"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/jinzhu/gorm"
)

type FriendshipPostgresStorage struct{}

func NewFriendshipPostgresStorage() *FriendshipPostgresStorage {
	return &FriendshipPostgresStorage{}
}

func toFriendship(f *models.Friendship) *model.Friendship {
	return &model.Friendship{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		AddresseeID: f.AddresseeID,
		Confirmed:   f.Confirmed,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (s *FriendshipPostgresStorage) SendRequest(ctx context.Context, requesterID, addresseeID uint) (*model.Friendship, error) {
	if requesterID == addresseeID {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "cannot send a friend request to yourself")
	}

	checks := []struct {
		id      uint
		message string
	}{
		{requesterID, "requester not found"},
		{addresseeID, "addressee not found"},
	}
	// встречные запросы блокируют пару в одном порядке
	sort.Slice(checks, func(i, j int) bool { return checks[i].id < checks[j].id })

	row := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		PairKey:     pairKey(requesterID, addresseeID),
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		for _, check := range checks {
			exists, err := lockUser(tx, check.id)
			if err != nil {
				return err
			}
			if !exists {
				return apperrors.New(apperrors.ErrCodeNotFound, check.message)
			}
		}

		// параллельные встречные запросы разрешает уникальный pair_key
		err := tx.Create(row).Error
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrCodeInvalidRequest, "a friendship or request already exists between these users")
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not create friend request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toFriendship(row), nil
}

func (s *FriendshipPostgresStorage) Confirm(ctx context.Context, confirmingID, otherID uint) (*model.Friendship, error) {
	var row models.Friendship
	err := DB.Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&models.Friendship{}).
			Where("pair_key = ? AND addressee_id = ? AND confirmed = ?", pairKey(confirmingID, otherID), confirmingID, false).
			Updates(map[string]interface{}{"confirmed": true, "updated_at": time.Now()})
		if update.Error != nil {
			return apperrors.Wrap(update.Error, apperrors.ErrCodeInternalError, "could not confirm friend request")
		}
		if update.RowsAffected == 0 {
			return apperrors.New(apperrors.ErrCodeEdgeNotFound, "no pending friend request to confirm")
		}

		if err := tx.Where("pair_key = ?", pairKey(confirmingID, otherID)).First(&row).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not load friendship")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toFriendship(&row), nil
}

func destroyFriendships(tx *gorm.DB, userID uint) (int, error) {
	del := tx.Where("requester_id = ? OR addressee_id = ?", userID, userID).Delete(&models.Friendship{})
	if del.Error != nil {
		return 0, apperrors.Wrap(del.Error, apperrors.ErrCodeInternalError, "could not delete friendships")
	}
	return int(del.RowsAffected), nil
}

func (s *FriendshipPostgresStorage) DestroyAllFor(ctx context.Context, userID uint) (int, error) {
	return destroyFriendships(DB, userID)
}

func (s *FriendshipPostgresStorage) EdgesOf(ctx context.Context, userID uint) ([]*model.Friendship, error) {
	var rows []models.Friendship
	err := DB.Where("requester_id = ? OR addressee_id = ?", userID, userID).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "could not get friendships")
	}

	edges := make([]*model.Friendship, 0, len(rows))
	for i := range rows {
		edges = append(edges, toFriendship(&rows[i]))
	}
	return edges, nil
}
