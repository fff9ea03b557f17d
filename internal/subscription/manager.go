package subscription

import (
	"sync"

	"github.com/VitaminP8/moim/internal/model"
)

// сколько уведомлений ждёт чтения, прежде чем новые начнут отбрасываться
const subscriberBuffer = 16

type SubscriptionManager struct {
	mu   sync.Mutex
	subs map[uint][]chan *model.Notification // userID -> список каналов подписчиков
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[uint][]chan *model.Notification),
	}
}

func (m *SubscriptionManager) Subscribe(userID uint) (<-chan *model.Notification, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *model.Notification, subscriberBuffer)
	m.subs[userID] = append(m.subs[userID], ch)

	var once sync.Once
	// функция для отписки (можно вызывать повторно)
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()

			subscribers := m.subs[userID]
			for i, sub := range subscribers {
				if sub == ch {
					m.subs[userID] = append(subscribers[:i], subscribers[i+1:]...)
					close(ch)
					break
				}
			}
			if len(m.subs[userID]) == 0 {
				delete(m.subs, userID)
			}
		})
	}

	return ch, cancel
}

func (m *SubscriptionManager) Publish(userID uint, notification *model.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// отправка не ждёт: заполненный буфер медленного подписчика теряет уведомление
	for _, sub := range m.subs[userID] {
		select {
		case sub <- notification:
		default:
		}
	}
}
