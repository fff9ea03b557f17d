// Package api - JSON API поверх gin.
package api

import (
	"strconv"

	"github.com/VitaminP8/moim/internal/auth"
	"github.com/VitaminP8/moim/internal/comment"
	"github.com/VitaminP8/moim/internal/feed"
	"github.com/VitaminP8/moim/internal/friendship"
	"github.com/VitaminP8/moim/internal/graph"
	"github.com/VitaminP8/moim/internal/post"
	"github.com/VitaminP8/moim/internal/subscription"
	"github.com/VitaminP8/moim/internal/user"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/VitaminP8/moim/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps - всё, чем пользуются обработчики
type Deps struct {
	Users    user.UserStorage
	Posts    post.PostStorage
	Comments comment.CommentStorage
	Friends  *friendship.Service
	Graph    *graph.Engine
	Feed     *feed.Aggregator
	Notifier subscription.Manager
}

type Handler struct {
	Deps
	appName   string
	jwtSecret string
	logger    *zap.Logger
}

func NewHandler(deps Deps, appName, jwtSecret string) *Handler {
	return &Handler{
		Deps:      deps,
		appName:   appName,
		jwtSecret: jwtSecret,
		logger:    logger.Get(),
	}
}

// FullTitle - заголовок страницы вида "Page | App"
func FullTitle(appName, page string) string {
	if page == "" {
		return appName
	}
	return page + " | " + appName
}

func currentUserID(c *gin.Context) (uint, error) {
	userID, err := auth.GetUserIDFromContext(c.Request.Context())
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, nil
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + param)
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid " + name)
	}
	return v, nil
}
