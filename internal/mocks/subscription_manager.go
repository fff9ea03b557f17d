package mocks

import (
	"sync"

	"github.com/VitaminP8/moim/internal/model"
)

// MockSubscriptionManager запоминает опубликованные уведомления вместо доставки
type MockSubscriptionManager struct {
	mu            sync.Mutex
	notifications map[uint][]*model.Notification // userID -> уведомления
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		notifications: make(map[uint][]*model.Notification),
	}
}

func (m *MockSubscriptionManager) Subscribe(userID uint) (<-chan *model.Notification, func()) {
	ch := make(chan *model.Notification)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }
}

func (m *MockSubscriptionManager) Publish(userID uint, notification *model.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications[userID] = append(m.notifications[userID], notification)
}

// NotificationsFor - вспомогательный метод для тестов
func (m *MockSubscriptionManager) NotificationsFor(userID uint) []*model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*model.Notification(nil), m.notifications[userID]...)
}

func (m *MockSubscriptionManager) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, list := range m.notifications {
		total += len(list)
	}
	return total
}
