package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OussemaBenslimene/Tasker/internal/auth"
	"github.com/OussemaBenslimene/Tasker/internal/client"
	"github.com/OussemaBenslimene/Tasker/internal/config"
	"github.com/OussemaBenslimene/Tasker/internal/database"
	"github.com/OussemaBenslimene/Tasker/internal/handler"
	"github.com/OussemaBenslimene/Tasker/internal/middleware"
	"github.com/OussemaBenslimene/Tasker/internal/repository"
	"github.com/OussemaBenslimene/Tasker/internal/service"
	"github.com/OussemaBenslimene/Tasker/internal/ws"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger
}

func Init(cfg *config.Config, logger *zap.Logger, db *gorm.DB) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	tokens := auth.NewTokenManager(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenLife, cfg.RefreshTokenLife,
	)

	// External clients fall back to no-ops when unconfigured so the server
	// still runs in local development.
	var mail client.MailClient
	if cfg.BrevoAPIKey != "" {
		mail = client.NewBrevoMailClient(cfg.BrevoAPIKey, cfg.AdminEmailAddress, cfg.AdminEmailName, logger)
	} else {
		logger.Warn("⚠️  BREVO_API_KEY not set, outgoing email disabled")
		mail = client.NewNoOpMailClient()
	}

	var uploader client.Uploader
	if cfg.S3Bucket != "" {
		s3Uploader, err := client.NewS3Uploader(cfg)
		if err != nil {
			return nil, err
		}
		uploader = s3Uploader
	} else {
		logger.Warn("⚠️  S3_BUCKET not set, file uploads disabled")
		uploader = client.NewNoOpUploader()
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)

	// Services
	userService := service.NewUserService(userRepo, tokens, mail, uploader, cfg.WebsiteDomain, logger)
	boardService := service.NewBoardService(boardRepo, columnRepo, cardRepo, userRepo, uploader, hub, logger)
	columnService := service.NewColumnService(columnRepo, boardRepo, cardRepo, logger)
	cardService := service.NewCardService(cardRepo, columnRepo, boardRepo, uploader, client.NewLinkProber(), logger)

	// Handlers
	userHandler := handler.NewUserHandler(userService, cfg.RefreshTokenLife)
	boardHandler := handler.NewBoardHandler(boardService)
	columnHandler := handler.NewColumnHandler(columnService)
	cardHandler := handler.NewCardHandler(cardService)
	wsHandler := handler.NewWSHandler(hub, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler(logger))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.PUT("/verify", userHandler.Verify)
			users.POST("/login", userHandler.Login)
			users.GET("/refresh_token", userHandler.RefreshToken)
			users.DELETE("/logout", userHandler.Logout)
		}

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthRequired(tokens))
		{
			authorized.PUT("/users/update", userHandler.Update)

			authorized.POST("/boards", boardHandler.Create)
			authorized.GET("/boards", boardHandler.List)
			authorized.GET("/boards/:id", boardHandler.GetDetails)
			authorized.PUT("/boards/:id", boardHandler.Update)
			authorized.DELETE("/boards/:id", boardHandler.Delete)
			authorized.PUT("/boards/supports/moving_card", boardHandler.MoveCard)
			authorized.POST("/boards/:id/invite", boardHandler.Invite)

			authorized.POST("/columns", columnHandler.Create)
			authorized.PUT("/columns/:id", columnHandler.Update)
			authorized.DELETE("/columns/:id", columnHandler.Delete)

			authorized.POST("/cards", cardHandler.Create)
			authorized.PUT("/cards/:id", cardHandler.Update)
			authorized.DELETE("/cards/:id", cardHandler.Delete)

			authorized.POST("/cards/:id/checklists", cardHandler.CreateChecklist)
			authorized.PUT("/cards/:id/checklists/:checklistId", cardHandler.UpdateChecklist)
			authorized.DELETE("/cards/:id/checklists/:checklistId", cardHandler.DeleteChecklist)
			authorized.POST("/cards/:id/checklists/:checklistId/items", cardHandler.AddChecklistItem)
			authorized.PUT("/cards/:id/checklists/:checklistId/items/:itemId", cardHandler.UpdateChecklistItem)
			authorized.DELETE("/cards/:id/checklists/:checklistId/items/:itemId", cardHandler.DeleteChecklistItem)

			authorized.POST("/cards/:id/attachments", cardHandler.AddAttachment)
			authorized.PUT("/cards/:id/attachments/:attachmentId", cardHandler.UpdateAttachment)
			authorized.DELETE("/cards/:id/attachments/:attachmentId", cardHandler.RemoveAttachment)

			authorized.GET("/ws", wsHandler.Serve)
		}
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Logger: logger,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal("❌ Failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Fatal("❌ Server forced to shutdown", zap.Error(err))
	}

	if err := database.Close(s.DB); err != nil {
		s.Logger.Warn("⚠️  Failed to close database", zap.Error(err))
	}

	s.Logger.Info("✅ Server exited properly")
}
