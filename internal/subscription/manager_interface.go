package subscription

import "github.com/VitaminP8/moim/internal/model"

type Manager interface {
	Subscribe(userID uint) (<-chan *model.Notification, func())
	Publish(userID uint, notification *model.Notification)
}
