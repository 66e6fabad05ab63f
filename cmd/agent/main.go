package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"dentsync/internal/adapter/api"
	"dentsync/internal/adapter/api/handler"
	agentmiddleware "dentsync/internal/adapter/api/middleware"
	"dentsync/internal/adapter/api/router"
	"dentsync/internal/adapter/restclient"
	"dentsync/internal/domain/service"
	"dentsync/internal/infrastructure/push"
	"dentsync/internal/infrastructure/ratelimit"
	"dentsync/internal/infrastructure/session"
	"dentsync/internal/infrastructure/stream"
	"dentsync/internal/usecase"
	"dentsync/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := session.Load(cfg.AuthToken)
	if err != nil {
		log.Fatalf("Failed to load session from token: %v", err)
	}
	log.Printf("Session loaded for %s (%s)", sess.UserID, sess.Role)

	restClient := restclient.NewClient(cfg.APIBaseURL, cfg.AuthToken)
	conversationRepo := restclient.NewRestConversationRepository(restClient)
	notificationRepo := restclient.NewRestNotificationRepository(restClient)
	billRepo := restclient.NewRestBillRepository(restClient)
	promotionRepo := restclient.NewRestPromotionRepository(restClient)

	pushManager := push.NewManager(push.NewDialer(cfg.PushURL, cfg.AuthToken))
	if err := pushManager.Start(ctx); err != nil {
		log.Fatalf("Failed to connect push channel: %v", err)
	}
	defer pushManager.Close()

	hub := stream.NewHub()
	hub.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	pricing := service.NewPricingService()

	messengerUseCase := usecase.NewMessengerUseCase(conversationRepo, pushManager, hub, rateLimiter, sess)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, pushManager, hub)
	billingUseCase := usecase.NewBillingUseCase(billRepo, promotionRepo, pricing, pushManager, hub, rateLimiter)

	if err := messengerUseCase.Open(ctx); err != nil {
		log.Fatalf("Failed to open messenger: %v", err)
	}
	defer messengerUseCase.Close()

	if err := notificationUseCase.Open(ctx); err != nil {
		log.Fatalf("Failed to open notification center: %v", err)
	}
	defer notificationUseCase.Close()

	if err := billingUseCase.Open(ctx); err != nil {
		log.Fatalf("Failed to open billing: %v", err)
	}
	defer billingUseCase.Close()

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	sessionMiddleware := agentmiddleware.NewSessionMiddleware(sess)

	messengerHandler := handler.NewMessengerHandler(messengerUseCase)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase)
	billingHandler := handler.NewBillingHandler(billingUseCase)
	sessionHandler := handler.NewSessionHandler()
	streamHandler := handler.NewStreamHandler(hub)

	router.Setup(e, sessionMiddleware, messengerHandler, notificationHandler, billingHandler, sessionHandler, streamHandler)

	go func() {
		<-ctx.Done()
		e.Close()
	}()

	log.Printf("Starting agent on port %s...", cfg.ListenPort)
	e.Logger.Fatal(e.Start(":" + cfg.ListenPort))
}
