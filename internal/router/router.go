package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/dancloud/chat/internal/handler"
	"github.com/dancloud/chat/internal/middleware"
	"github.com/dancloud/chat/internal/service"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
}

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, authService *service.AuthService) {
	// CORS middleware
	h.Use(middleware.CORS())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes (no auth required)
	authGroup := h.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
	}
	h.POST("/auth/logout", middleware.JWTAuth(authService), handlers.Auth.Logout)

	// User routes (auth required)
	userGroup := h.Group("/user", middleware.JWTAuth(authService))
	{
		userGroup.GET("/info", handlers.User.GetUserInfo)
		userGroup.PUT("/update", handlers.User.UpdateUserInfo)
		userGroup.DELETE("/delete", handlers.User.DeleteUser)
	}

	// Conversation routes (auth required)
	convGroup := h.Group("/conversation", middleware.JWTAuth(authService))
	{
		convGroup.POST("/resolve", handlers.Conversation.Resolve)
		convGroup.GET("/list", handlers.Conversation.List)
		convGroup.GET("/info", handlers.Conversation.GetInfo)
	}

	// Message routes (auth required)
	msgGroup := h.Group("/msg", middleware.JWTAuth(authService))
	{
		msgGroup.POST("/send", handlers.Message.Send)
		msgGroup.GET("/list", handlers.Message.List)
		msgGroup.POST("/read", handlers.Message.MarkRead)
		msgGroup.PUT("/update", handlers.Message.Update)
		msgGroup.DELETE("/delete", handlers.Message.Delete)
	}
}
