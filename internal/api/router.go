package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, limiter *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.logger))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"title": FullTitle(h.appName, ""), "status": "ok"})
	})
	r.POST("/users", h.register)
	r.POST("/login", h.login)

	protected := r.Group("/")
	protected.Use(h.AuthRequired(), h.RateLimit(limiter))
	{
		protected.GET("/me", h.me)
		protected.PATCH("/me", h.updateMe)
		protected.DELETE("/me", h.deleteMe)
		protected.GET("/users/:id", h.getUser)

		protected.POST("/posts", h.createPost)
		protected.GET("/posts/:id", h.getPost)
		protected.DELETE("/posts/:id", h.deletePost)
		protected.POST("/posts/:id/comments", h.createComment)
		protected.GET("/posts/:id/comments", h.listComments)
		protected.PUT("/posts/:id/like", h.like)
		protected.DELETE("/posts/:id/like", h.unlike)
		protected.GET("/posts/:id/likers", h.likers)

		protected.GET("/feed", h.feed)

		friends := protected.Group("/friends")
		{
			friends.GET("", h.relation(h.Graph.Friends))
			friends.GET("/pending", h.relation(h.Graph.PendingFriends))
			friends.GET("/requests", h.relation(h.Graph.FriendRequests))
			friends.GET("/recommended", h.relation(h.Graph.RecommendedFriends))
			friends.GET("/new", h.relation(h.Graph.NewFriends))
			friends.GET("/mutual/:id", h.mutualFriends)
			friends.GET("/status/:id", h.friendStatus)
			friends.POST("/:id/request", h.sendFriendRequest)
			friends.POST("/:id/confirm", h.confirmFriendRequest)
		}

		protected.GET("/notifications", h.notifications)
	}

	return r
}
