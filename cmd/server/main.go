package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/moim/internal/api"
	"github.com/VitaminP8/moim/internal/comment"
	"github.com/VitaminP8/moim/internal/config"
	"github.com/VitaminP8/moim/internal/feed"
	"github.com/VitaminP8/moim/internal/friendship"
	"github.com/VitaminP8/moim/internal/graph"
	"github.com/VitaminP8/moim/internal/like"
	"github.com/VitaminP8/moim/internal/post"
	"github.com/VitaminP8/moim/internal/storage/memory"
	"github.com/VitaminP8/moim/internal/storage/postgres"
	"github.com/VitaminP8/moim/internal/subscription"
	"github.com/VitaminP8/moim/internal/user"
	"github.com/VitaminP8/moim/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	shutdownTimeout        = 10 * time.Second
	limiterCleanupInterval = time.Minute
)

func main() {
	storageType := flag.String("storage", "", "Тип хранилища: memory или postgres (по умолчанию из STORAGE)")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()
	if *storageType != "" {
		os.Setenv("STORAGE", *storageType)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		userStore    user.UserStorage
		postStore    post.PostStorage
		commentStore comment.CommentStorage
		likeStore    like.LikeStorage
		edgeStore    friendship.FriendshipStorage
	)

	switch cfg.Storage {
	case "postgres":
		if err := postgres.InitDB(cfg.GetDSN()); err != nil {
			lg.Fatal("failed to connect to database", zap.Error(err))
		}
		defer postgres.CloseDB()

		if err := postgres.Migrate(); err != nil {
			lg.Fatal("failed to migrate database", zap.Error(err))
		}

		userStore = postgres.NewUserPostgresStorage(cfg.JWTSecret)
		postStore = postgres.NewPostPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		likeStore = postgres.NewLikePostgresStorage()
		edgeStore = postgres.NewFriendshipPostgresStorage()

	case "memory":
		db := memory.NewDatabase()
		userStore = memory.NewUserMemoryStorage(db, cfg.JWTSecret)
		postStore = memory.NewPostMemoryStorage(db)
		commentStore = memory.NewCommentMemoryStorage(db)
		likeStore = memory.NewLikeMemoryStorage(db)
		edgeStore = memory.NewFriendshipMemoryStorage(db)
	}
	lg.Info("storage selected", zap.String("storage", cfg.Storage))

	notifier := subscription.NewSubscriptionManager()
	engine := graph.NewEngine(edgeStore, cfg.GraphWorkers)

	handler := api.NewHandler(api.Deps{
		Users:    userStore,
		Posts:    postStore,
		Comments: commentStore,
		Friends:  friendship.NewService(edgeStore, notifier),
		Graph:    engine,
		Feed:     feed.NewAggregator(engine, postStore, likeStore, notifier),
		Notifier: notifier,
	}, cfg.AppName, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := api.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx, limiterCleanupInterval)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, limiter),
		ReadHeaderTimeout: 10 * time.Second,
		// SSE-потоки закрываются вместе с ctx
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		lg.Info("server started", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		// блокирует до server.Shutdown() или фатальной ошибки
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
		return
	}

	lg.Info("server stopped")
}
