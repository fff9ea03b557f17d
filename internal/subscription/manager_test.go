package subscription

import (
	"sync"
	"testing"
	"time"

	"github.com/VitaminP8/moim/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotification(actorID uint) *model.Notification {
	return &model.Notification{
		Kind:      model.NotificationFriendRequest,
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}
}

func TestSubscriptionManager_Subscribe(t *testing.T) {
	t.Run("Should create a subscription channel", func(t *testing.T) {
		manager := NewSubscriptionManager()

		ch, cancel := manager.Subscribe(7)
		assert.NotNil(t, ch)
		assert.NotNil(t, cancel)

		manager.mu.Lock()
		assert.Len(t, manager.subs[7], 1)
		manager.mu.Unlock()

		cancel()

		manager.mu.Lock()
		_, exists := manager.subs[7]
		manager.mu.Unlock()
		assert.False(t, exists)
	})

	t.Run("Multiple subscriptions for the same user", func(t *testing.T) {
		manager := NewSubscriptionManager()

		_, cancel1 := manager.Subscribe(7)
		_, cancel2 := manager.Subscribe(7)
		_, cancel3 := manager.Subscribe(7)

		manager.mu.Lock()
		assert.Len(t, manager.subs[7], 3)
		manager.mu.Unlock()

		cancel2()
		manager.mu.Lock()
		assert.Len(t, manager.subs[7], 2)
		manager.mu.Unlock()

		cancel1()
		cancel3()
		manager.mu.Lock()
		assert.Len(t, manager.subs, 0)
		manager.mu.Unlock()
	})

	t.Run("Cancel twice does not panic", func(t *testing.T) {
		manager := NewSubscriptionManager()

		ch, cancel := manager.Subscribe(7)
		cancel()
		assert.NotPanics(t, cancel)

		_, ok := <-ch
		assert.False(t, ok, "Channel should be closed after cancel")
	})
}

func TestSubscriptionManager_Publish(t *testing.T) {
	t.Run("Should send notification to subscriber", func(t *testing.T) {
		manager := NewSubscriptionManager()
		ch, cancel := manager.Subscribe(7)
		defer cancel()

		notification := newNotification(3)
		manager.Publish(7, notification)

		select {
		case received := <-ch:
			assert.Equal(t, notification, received)
		case <-time.After(time.Second):
			t.Fatal("Timed out waiting for notification")
		}
	})

	t.Run("Should only send to the addressed user", func(t *testing.T) {
		manager := NewSubscriptionManager()
		ch1, cancel1 := manager.Subscribe(1)
		ch2, cancel2 := manager.Subscribe(2)
		defer cancel1()
		defer cancel2()

		manager.Publish(1, newNotification(9))

		select {
		case <-ch1:
		case <-time.After(time.Second):
			t.Fatal("Subscriber 1 timed out waiting for notification")
		}

		select {
		case <-ch2:
			t.Fatal("Subscriber 2 should not receive the notification")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("Publishing without subscribers should not panic", func(t *testing.T) {
		manager := NewSubscriptionManager()
		assert.NotPanics(t, func() {
			manager.Publish(1, newNotification(2))
		})
	})

	t.Run("Full buffer drops notifications without waiting", func(t *testing.T) {
		manager := NewSubscriptionManager()
		ch, cancel := manager.Subscribe(1)
		defer cancel()

		start := time.Now()
		for i := 0; i < subscriberBuffer+5; i++ {
			manager.Publish(1, newNotification(uint(i+2)))
		}
		assert.Less(t, time.Since(start), 100*time.Millisecond)
		assert.Len(t, ch, subscriberBuffer)
	})

	t.Run("Stalled subscriber does not delay other users", func(t *testing.T) {
		manager := NewSubscriptionManager()
		_, cancelStalled := manager.Subscribe(2)
		defer cancelStalled()
		ch3, cancel3 := manager.Subscribe(3)
		defer cancel3()

		// подписчик 2 ничего не читает
		for i := 0; i < subscriberBuffer+2; i++ {
			manager.Publish(2, newNotification(9))
		}

		start := time.Now()
		manager.Publish(3, newNotification(9))
		manager.Publish(4, newNotification(9))
		_, cancel4 := manager.Subscribe(4)
		cancel4()
		assert.Less(t, time.Since(start), 50*time.Millisecond)

		select {
		case <-ch3:
		default:
			t.Fatal("Subscriber 3 should have a notification")
		}
	})
}

func TestSubscriptionManager_Concurrent(t *testing.T) {
	t.Run("Concurrent subscribes and unsubscribes", func(t *testing.T) {
		manager := NewSubscriptionManager()

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				ch, cancel := manager.Subscribe(5)
				time.Sleep(5 * time.Millisecond)
				cancel()

				_, ok := <-ch
				require.False(t, ok, "Channel should be closed after cancel")
			}()
		}
		wg.Wait()

		manager.mu.Lock()
		assert.Len(t, manager.subs[5], 0)
		manager.mu.Unlock()
	})
}
