package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/P72i1ip/llm-chat-history-api/internal/config"
	"github.com/P72i1ip/llm-chat-history-api/internal/mail"
	"github.com/P72i1ip/llm-chat-history-api/internal/middleware"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/repository"
	"github.com/P72i1ip/llm-chat-history-api/internal/security"
	"github.com/P72i1ip/llm-chat-history-api/internal/service"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	userService *service.UserService
	convService *service.ConversationService
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)

	hasher := security.NewPasswordHasher(cfg.Security.BcryptCost)
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	mailer := mail.NewQueueMailer(cache, cfg.Mail, log)

	auth := service.NewAuthService(userRepo, hasher, tokens, mailer, cfg.Security.ResetTokenTTL, log)
	users := service.NewUserService(userRepo, log)
	convs := service.NewConversationService(convRepo, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		userService: users,
		convService: convs,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	users := v1.Group("/users")
	{
		users.POST("/signup", h.Signup)
		users.POST("/login", h.Login)
		users.POST("/forgotPassword", h.ForgotPassword)
		users.PATCH("/resetPassword/:token", h.ResetPassword)

		protected := users.Group("")
		protected.Use(middleware.Auth(h.authService))
		protected.PATCH("/updateMyPassword", h.UpdateMyPassword)
		protected.PATCH("/updateMe", h.UpdateMe)
		protected.DELETE("/deleteMe", h.DeleteMe)
		protected.GET("", middleware.RequireRoles(models.RoleAdmin), h.ListUsers)
	}

	conversations := v1.Group("/conversations")
	conversations.Use(middleware.Auth(h.authService))
	{
		conversations.POST("", h.CreateConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id", h.GetConversation)
		conversations.PATCH("/:id", h.UpdateConversation)
		conversations.PATCH("/:id/messages", h.AppendMessage)
		conversations.DELETE("/:id", h.DeleteConversation)
	}
}
