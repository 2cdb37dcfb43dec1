package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"inchat/internal/ai"
	appsvc "inchat/internal/app"
	"inchat/internal/bootstrap"
	"inchat/internal/cache"
	rabbitmqClient "inchat/internal/platform/rabbitmq"
	"inchat/internal/repository"
	"inchat/internal/transport/http/handler"
	"inchat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	sessionTTL := time.Duration(app.Config.Auth.SessionExpireMinute) * time.Minute
	cookieName := app.Config.Auth.CookieName

	userRepo := repository.NewUserRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	knowledgeRepo := repository.NewKnowledgeRepository(app.MySQL)

	authSessions := cache.NewAuthSessionStore(app.Redis, sessionTTL)
	contextCache := cache.NewContextCache(app.Redis, time.Duration(app.Config.Knowledge.ContextCacheTTLSec)*time.Second)
	turnPublisher := rabbitmqClient.NewTurnPublisher(app.MQConn, app.Config.RabbitMQ.TurnAuditQueue)

	authService := appsvc.NewAuthService(userRepo, authSessions, app.Config.Auth.SessionSecret, sessionTTL)
	knowledgeService := appsvc.NewKnowledgeService(knowledgeRepo, contextCache, app.Config.Knowledge.MaxContextDocs)
	chatService := appsvc.NewChatService(
		sessionRepo,
		messageRepo,
		knowledgeService,
		turnPublisher,
		ai.NewOpenAICompatibleClient(),
		ai.ChatConfig{
			BaseURL:     app.Config.LLM.BaseURL,
			APIKey:      app.Config.LLM.APIKey,
			Model:       app.Config.LLM.Model,
			MaxTokens:   app.Config.LLM.MaxTokens,
			Temperature: app.Config.LLM.Temperature,
		},
		app.Config.LLM.MaxContextMessage,
	)

	authHandler := handler.NewAuthHandler(authService, cookieName)
	chatHandler := handler.NewChatHandler(chatService)
	knowledgeHandler := handler.NewKnowledgeHandler(knowledgeService)
	pageHandler := handler.NewPageHandler(authService, cookieName)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/", pageHandler.Index)
	router.GET("/chat", pageHandler.ChatPage)
	router.StaticFile("/login", "web/login.html")
	router.StaticFile("/register", "web/register.html")
	router.StaticFile("/admin", "web/admin_knowledge.html")
	router.GET("/healthz", healthHandler.Check)

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	authed := router.Group("/", middleware.AuthSession(authService, cookieName))
	authed.GET("/sessions", chatHandler.ListSessions)
	authed.POST("/new_chat", chatHandler.NewChat)
	authed.POST("/send_message", chatHandler.SendMessage)
	authed.GET("/get_messages/:session_id", chatHandler.GetMessages)

	// Knowledge management carries no admin gate on purpose: the behavior
	// being reimplemented exposes it unauthenticated.
	router.GET("/admin/knowledge", knowledgeHandler.ListDocuments)
	router.POST("/admin/knowledge", knowledgeHandler.AddDocument)

	return router
}
