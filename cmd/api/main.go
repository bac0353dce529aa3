package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	v1 "github.com/tacssuki/CMUFinds-sub000/cmd/api/router/v1"
	cacheAdapter "github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/cache/adapter"
	"github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/database"
	queueAdapter "github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/queue/adapter"
	qport "github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/queue/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/infrastructure/realtime"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/auth"
	dirAdapter "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/adapter"
	dirport "github.com/tacssuki/CMUFinds-sub000/internal/pkg/directory/port"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/export"
	messagingUC "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/application/usecase"
	messagingRepo "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/persistence/repository/adapter"
	messagingHTTP "github.com/tacssuki/CMUFinds-sub000/internal/pkg/messaging/presentation/http"
	"github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/application/task"
	notifUC "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/application/usecase"
	notifRepo "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/persistence/repository/adapter"
	notificationHTTP "github.com/tacssuki/CMUFinds-sub000/internal/pkg/notification/presentation/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		logger.Fatal("failed to configure token verifier", zap.Error(err))
	}

	// Redis and asynq are optional: without REDIS_URL the process still serves
	// traffic, with profile caching disabled and notification delivery inline.
	var users dirport.UserDirectory = dirAdapter.NewPgUserDirectory(pool)
	if cache, err := cacheAdapter.NewRedisAdapter(); err != nil {
		logger.Warn("profile cache disabled", zap.Error(err))
	} else {
		defer func() { _ = cache.Close() }()
		users = dirAdapter.NewCachedUserDirectory(users, cache, logger)
	}

	var queueClient qport.Client
	var queueServer *queueAdapter.AsynqServer
	if client, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		logger.Warn("notification queue disabled, delivering inline", zap.Error(err))
	} else {
		queueClient = client
		defer func() { _ = client.Close() }()
		if srv, err := queueAdapter.NewAsynqServer(); err != nil {
			logger.Warn("notification worker disabled", zap.Error(err))
		} else {
			queueServer = srv
		}
	}

	hub := realtime.NewHub(logger)
	posts := dirAdapter.NewPgPostDirectory(pool)
	threads := messagingRepo.NewPgThreadRepository(pool)
	notifications := notifRepo.NewPgNotificationRepository(pool)

	notify := notifUC.NewNotifyUseCase(notifications, hub, logger)
	dispatcher := task.NewDispatcher(queueClient, notify, logger)

	getOrCreate := messagingUC.NewGetOrCreateThreadUseCase(threads, posts, users, hub, dispatcher, logger)
	listThreads := messagingUC.NewListThreadsUseCase(threads, posts, users, logger)
	listMessages := messagingUC.NewListMessagesUseCase(threads, users, logger)
	send := messagingUC.NewSendMessageUseCase(threads, users, hub, dispatcher, logger)
	authorize := messagingUC.NewAuthorizeThreadAccessUseCase(threads)
	exporter := export.NewExportThreadUseCase(authorize, listMessages, posts, export.NewTextRenderer(nil, logger), logger)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if queueServer != nil {
		task.RegisterDeliverNotificationTask(queueServer, notify)
		go func() {
			if err := queueServer.Run(workerCtx); err != nil {
				logger.Error("notification worker stopped", zap.Error(err))
			}
		}()
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, v1.Deps{
		Verifier: verifier,
		Messaging: messagingHTTP.Deps{
			Verifier:     verifier,
			Hub:          hub,
			GetOrCreate:  getOrCreate,
			ListThreads:  listThreads,
			ListMessages: listMessages,
			Send:         send,
			Export:       exporter,
			Logger:       logger,
		},
		Notification: notificationHTTP.Deps{
			List:        notifUC.NewListNotificationsUseCase(notifications),
			UnreadCount: notifUC.NewUnreadCountUseCase(notifications),
			MarkRead:    notifUC.NewMarkReadUseCase(notifications),
			MarkAllRead: notifUC.NewMarkAllReadUseCase(notifications),
			Delete:      notifUC.NewDeleteNotificationUseCase(notifications),
		},
	})

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCtx, stopNotify := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopNotify()
	<-sigCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	hub.Close()
	stopWorker()
	if queueServer != nil {
		_ = queueServer.Stop(shutdownCtx)
	}
	logger.Info("shutdown complete")
}
