package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/dancloud/chat/internal/config"
	"github.com/dancloud/chat/internal/gateway"
	"github.com/dancloud/chat/internal/handler"
	"github.com/dancloud/chat/internal/repository"
	"github.com/dancloud/chat/internal/router"
	"github.com/dancloud/chat/internal/service"
	"github.com/dancloud/chat/pkg/constant"
	"github.com/mbeoliero/kit/log"
)

func main() {
	ctx := context.TODO()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	// Initialize Redis key prefix
	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)

	// Initialize repositories
	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	// Check database connection
	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	// Run schema migration
	if err := repos.AutoMigrate(); err != nil {
		log.CtxError(ctx, "schema migration failed: %v", err)
		panic(err)
	}

	// Initialize services
	authService := service.NewAuthService(repos, cfg)
	userService := service.NewUserService(repos, authService.TokenStore())
	convService := service.NewConversationService(repos)
	msgService := service.NewMessageService(repos)

	// Initialize WebSocket gateway
	wsServer := gateway.NewWsServer(cfg, repos.Redis)
	msgService.SetNotifier(wsServer)

	wsServer.Run(ctx)
	go func() {
		if err := wsServer.Serve(); err != nil {
			log.CtxError(ctx, "websocket gateway error: %v", err)
		}
	}()

	// Initialize handlers
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Conversation: handler.NewConversationHandler(convService),
		Message:      handler.NewMessageHandler(msgService),
	}

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	// Setup routes
	router.SetupRouter(h, handlers, authService)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	// Start server in goroutine
	go func() {
		h.Spin()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	// Graceful shutdown
	if err := wsServer.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "websocket gateway shutdown error: %v", err)
	}
	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
