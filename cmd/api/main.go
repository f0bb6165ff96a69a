package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"jobmarket/internal/config"
	"jobmarket/internal/database"
	"jobmarket/internal/domain/chat"
	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
	"jobmarket/internal/domain/notification"
	"jobmarket/internal/domain/notification/push"
	"jobmarket/internal/middleware"
	"jobmarket/internal/pkg/cache"
	jwtsvc "jobmarket/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	contractorRepo := contractor.NewRepository(db)
	jobRepo := job.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	notifRepo := notification.NewRepository(db)

	store := buildCacheStore(cfg)
	contractorService := contractor.NewService(contractorRepo, store)
	contractorHandler := contractor.NewHandler(contractorService)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	sender := buildPushSender(cfg)
	dispatcher := notification.NewDispatcher(contractorRepo, notifRepo, chatRepo, sender)
	notifHandler := notification.NewHandler(dispatcher, notifRepo)

	hub := chat.NewHub()
	chatService := chat.NewService(chatRepo, jobRepo, contractorRepo, hub, &pushNotifier{dispatcher: dispatcher})
	chatHandler := chat.NewHandler(chatService)
	wsHandler := chat.NewWSHandler(hub, j)

	startReconcileCron(cfg, chatService)

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		contractor.RegisterRoutes(v1, contractorHandler)
		chat.RegisterWSRoute(v1, wsHandler)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			contractor.RegisterProtectedRoutes(protected, contractorHandler)
			chat.RegisterRoutes(protected, chatHandler)
			notification.RegisterRoutes(protected, notifHandler)
		}

		// internal (webhooks, maintenance)
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(cfg.InternalToken))
		{
			notification.RegisterInternalRoutes(internal, notifHandler)
			chat.RegisterInternalRoutes(internal, chatHandler)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func buildCacheStore(cfg *config.Config) cache.Store {
	if cfg.RedisURL == "" {
		return cache.NewMemory()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	log.Println("Using redis listing cache")
	return cache.NewRedis(redis.NewClient(opts), "jobmarket:")
}

func buildPushSender(cfg *config.Config) push.Sender {
	switch cfg.PushProvider {
	case "onesignal":
		if cfg.OneSignalAppID != "" && cfg.OneSignalAPIKey != "" {
			return push.NewOneSignal(cfg.OneSignalAppID, cfg.OneSignalAPIKey, "")
		}
	default:
		if cfg.FCMServerKey != "" {
			return push.NewFCM(cfg.FCMServerKey, cfg.FCMAPIURL)
		}
	}
	log.Println("push provider not configured; dispatch endpoints will return an error")
	return nil
}

func startReconcileCron(cfg *config.Config, chatService *chat.Service) {
	if cfg.ReconcileSpec == "" {
		return
	}
	c := cron.New()
	_, err := c.AddFunc(cfg.ReconcileSpec, func() {
		result, err := chatService.ReconcileAssignedJobs(context.Background())
		if err != nil {
			log.Printf("chat_reconcile_cron_error err=%v", err)
			return
		}
		log.Printf("chat_reconcile_cron created=%d existing=%d errors=%d",
			result.Created, result.Existing, len(result.Errors))
	})
	if err != nil {
		log.Fatalf("invalid CHAT_RECONCILE_CRON spec %q: %v", cfg.ReconcileSpec, err)
	}
	c.Start()
	log.Printf("chat reconcile cron started: %s", cfg.ReconcileSpec)
}

// pushNotifier forwards stored chat messages to the dispatcher without
// blocking message delivery.
type pushNotifier struct {
	dispatcher *notification.Dispatcher
}

func (p *pushNotifier) NotifyNewMessage(_ context.Context, msg *chat.Message, _ *chat.Room) {
	go func() {
		_, err := p.dispatcher.DispatchChatMessage(context.Background(), &notification.ChatMessageEvent{
			MessageID:    msg.ID,
			RoomID:       msg.RoomID,
			SenderUserID: msg.SenderUserID,
			SenderName:   msg.SenderName,
			Content:      msg.Content,
		})
		if err != nil && err != notification.ErrMissingCredentials {
			log.Printf("chat_push_error message_id=%s err=%v", msg.ID, err)
		}
	}()
}
