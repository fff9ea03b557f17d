package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type friendStatusResponse struct {
	Friend    bool `json:"friend"`
	Pending   bool `json:"pending"`   // текущий пользователь отправил запрос
	Requested bool `json:"requested"` // запрос пришёл текущему пользователю
	Mutual    int  `json:"mutual"`
}

// relation отдаёт одно из производных множеств графа для текущего пользователя
func (h *Handler) relation(derive func(ctx context.Context, userID uint) ([]uint, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUserID(c)
		if err != nil {
			h.respondError(c, err)
			return
		}

		ids, err := derive(c.Request.Context(), userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.respondUsers(c, ids)
	}
}

func (h *Handler) mutualFriends(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	otherID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	ids, err := h.Graph.MutualFriendsWith(c.Request.Context(), userID, otherID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondUsers(c, ids)
}

func (h *Handler) friendStatus(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	otherID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	edges, err := h.Graph.AnyFriendships(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var status friendStatusResponse
	for _, edge := range edges {
		if otherID == userID || edge.Other(userID) != otherID {
			continue
		}
		switch {
		case edge.Confirmed:
			status.Friend = true
		case edge.RequesterID == userID:
			status.Pending = true
		default:
			status.Requested = true
		}
	}

	mutual, err := h.Graph.MutualFriendsWith(c.Request.Context(), userID, otherID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status.Mutual = len(mutual)

	c.JSON(http.StatusOK, status)
}

func (h *Handler) sendFriendRequest(c *gin.Context) {
	addresseeID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	edge, err := h.Friends.SendRequest(c.Request.Context(), addresseeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"friendship": edge})
}

func (h *Handler) confirmFriendRequest(c *gin.Context) {
	requesterID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	edge, err := h.Friends.Confirm(c.Request.Context(), requesterID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friendship": edge})
}
