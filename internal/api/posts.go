package api

import (
	"net/http"

	"github.com/VitaminP8/moim/internal/comment"
	"github.com/gin-gonic/gin"
)

type contentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) createPost(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}

	p, err := h.Posts.CreatePost(c.Request.Context(), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

func (h *Handler) getPost(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	p, err := h.Posts.GetPostById(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	liked, err := h.Feed.IsLiked(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p, "liked": liked})
}

func (h *Handler) deletePost(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Posts.DeletePostById(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createComment(c *gin.Context) {
	postID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest("invalid request body"))
		return
	}

	cm, err := h.Comments.CreateComment(c.Request.Context(), postID, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": cm})
}

func (h *Handler) listComments(c *gin.Context) {
	postID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", comment.DefaultPageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		h.respondError(c, err)
		return
	}

	conn, err := h.Comments.GetComments(postID, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conn)
}

func (h *Handler) like(c *gin.Context) {
	postID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Feed.Like(c.Request.Context(), postID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": true})
}

func (h *Handler) unlike(c *gin.Context) {
	postID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Feed.Unlike(c.Request.Context(), postID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": false})
}

func (h *Handler) likers(c *gin.Context) {
	postID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	ids, err := h.Feed.Likers(c.Request.Context(), postID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondUsers(c, ids)
}

func (h *Handler) feed(c *gin.Context) {
	posts, err := h.Feed.Feed(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": FullTitle(h.appName, "Feed"), "posts": posts})
}
