package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VitaminP8/moim/internal/feed"
	"github.com/VitaminP8/moim/internal/friendship"
	"github.com/VitaminP8/moim/internal/graph"
	"github.com/VitaminP8/moim/internal/model"
	"github.com/VitaminP8/moim/internal/storage/memory"
	"github.com/VitaminP8/moim/internal/subscription"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test_secret_key_for_jwt"
	testAppName   = "Moim"
)

// signalingNotifier сообщает о каждой новой подписке
type signalingNotifier struct {
	*subscription.SubscriptionManager
	subscribed chan uint
}

func (n *signalingNotifier) Subscribe(userID uint) (<-chan *model.Notification, func()) {
	ch, cancel := n.SubscriptionManager.Subscribe(userID)
	n.subscribed <- userID
	return ch, cancel
}

type testAPI struct {
	router   *gin.Engine
	notifier *signalingNotifier
}

func newTestAPI(t *testing.T, limiter *RateLimiter) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := memory.NewDatabase()
	edges := memory.NewFriendshipMemoryStorage(db)
	posts := memory.NewPostMemoryStorage(db)
	notifier := &signalingNotifier{
		SubscriptionManager: subscription.NewSubscriptionManager(),
		subscribed:          make(chan uint, 8),
	}
	engine := graph.NewEngine(edges, 2)

	h := NewHandler(Deps{
		Users:    memory.NewUserMemoryStorage(db, testJWTSecret),
		Posts:    posts,
		Comments: memory.NewCommentMemoryStorage(db),
		Friends:  friendship.NewService(edges, notifier),
		Graph:    engine,
		Feed:     feed.NewAggregator(engine, posts, memory.NewLikeMemoryStorage(db), notifier),
		Notifier: notifier,
	}, testAppName, testJWTSecret)

	if limiter == nil {
		limiter = NewRateLimiter(6000, 1000)
	}
	return &testAPI{router: NewRouter(h, limiter), notifier: notifier}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signUp регистрирует пользователя и возвращает его id и токен
func (a *testAPI) signUp(t *testing.T, name string) (uint, string) {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", name)

	w := a.do(t, http.MethodPost, "/users", "", gin.H{
		"first_name": name,
		"last_name":  "Tester",
		"email":      email,
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reg struct {
		User model.User `json:"user"`
	}
	decode(t, w, &reg)

	w = a.do(t, http.MethodPost, "/login", "", gin.H{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)

	return reg.User.ID, login.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type usersResponse struct {
	Users []model.User `json:"users"`
}

func userIDs(t *testing.T, w *httptest.ResponseRecorder) []uint {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp usersResponse
	decode(t, w, &resp)
	ids := make([]uint, 0, len(resp.Users))
	for _, u := range resp.Users {
		ids = append(ids, u.ID)
	}
	return ids
}
