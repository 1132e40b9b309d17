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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jatinbhagat/decipherworld-backend/docs"

	"github.com/jatinbhagat/decipherworld-backend/config"
	"github.com/jatinbhagat/decipherworld-backend/internal/constants"
	"github.com/jatinbhagat/decipherworld-backend/internal/handlers"
	"github.com/jatinbhagat/decipherworld-backend/internal/middleware"
	"github.com/jatinbhagat/decipherworld-backend/internal/repository"
	"github.com/jatinbhagat/decipherworld-backend/internal/service"
	ws "github.com/jatinbhagat/decipherworld-backend/internal/websocket"
	"github.com/jatinbhagat/decipherworld-backend/pkg/cache"
	"github.com/jatinbhagat/decipherworld-backend/pkg/database"
	"github.com/jatinbhagat/decipherworld-backend/pkg/messaging"
	"github.com/jatinbhagat/decipherworld-backend/pkg/storage"
)

// @title Decipherworld API
// @version 1.0
// @termsOfService http://swagger.io/terms/

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded")

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Printf("Warning: Failed to initialize PostgreSQL schema: %v", err)
	} else {
		log.Println("PostgreSQL schema initialized")
	}
	cancel()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		redisClient = nil
	} else {
		log.Println("Connected to Redis")
		defer redisClient.Close()
	}

	rabbitClient, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
	if err != nil {
		log.Printf("Warning: Failed to connect to RabbitMQ: %v", err)
		rabbitClient = nil
	} else {
		log.Println("Connected to RabbitMQ")
		defer rabbitClient.Close()

		for _, queue := range []string{constants.QueueDemoRequested, constants.QueueSessionCompleted} {
			if _, err := rabbitClient.DeclareQueue(queue); err != nil {
				log.Printf("Warning: Failed to declare queue %s: %v", queue, err)
			}
		}
	}

	s3Client, err := storage.NewS3Client(&cfg.S3)
	if err != nil {
		log.Printf("Warning: Failed to connect to S3: %v", err)
		s3Client = nil
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Client.EnsureBucket(ctx); err != nil {
			log.Printf("Warning: Failed to ensure S3 bucket: %v", err)
		} else {
			log.Println("Connected to S3")
		}
		cancel()
	}

	db := pgClient.GetDB()
	sessionRepo := repository.NewSessionRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	questRepo := repository.NewQuestRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	demoRepo := repository.NewDemoRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()
	go hub.Run()
	log.Println("WebSocket hub started")

	var cacheClient service.Cache
	if redisClient != nil {
		cacheClient = redisClient
	}
	var publisher service.Publisher
	if rabbitClient != nil {
		publisher = rabbitClient
	}
	var artifacts service.ArtifactStore
	if s3Client != nil {
		artifacts = s3Client
	}

	gameService := service.NewGameService(sessionRepo, playerRepo, responseRepo, challengeRepo, cacheClient, hub, publisher)
	missionService := service.NewMissionService(sessionRepo, missionRepo, cacheClient, hub)
	questService := service.NewQuestService(sessionRepo, questRepo, artifacts, cacheClient, hub)
	articleService := service.NewArticleService(articleRepo, cacheClient)
	demoService := service.NewDemoService(demoRepo, publisher)
	notificationService := service.NewNotificationService(notificationRepo, "admin")
	adminService := service.NewAdminService(
		challengeRepo, missionRepo, questRepo, articleRepo,
		cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.JWTSecret,
	)

	if rabbitClient != nil {
		startConsumer(rabbitClient, constants.QueueDemoRequested, notificationService.HandleDemoRequested)
		startConsumer(rabbitClient, constants.QueueSessionCompleted, notificationService.HandleSessionCompleted)
	}

	gameHandler := handlers.NewGameHandler(gameService)
	missionHandler := handlers.NewMissionHandler(missionService)
	questHandler := handlers.NewQuestHandler(questService)
	articleHandler := handlers.NewArticleHandler(articleService)
	demoHandler := handlers.NewDemoHandler(demoService)
	adminHandler := handlers.NewAdminHandler(adminService, articleService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(hub, gameService)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "decipherworld-backend",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", gameHandler.CreateSession)
			sessions.GET("/:code", gameHandler.GetSession)
			sessions.POST("/:code/join", gameHandler.JoinSession)
			sessions.POST("/:code/start", gameHandler.StartSession)
			sessions.POST("/:code/action", gameHandler.SubmitAction)
			sessions.GET("/:code/leaderboard", gameHandler.Leaderboard)
			sessions.POST("/:code/complete", gameHandler.CompleteSession)
			sessions.POST("/:code/abandon", gameHandler.AbandonSession)
			sessions.GET("/:code/players/:player_session_id/badges", gameHandler.GetPlayerBadges)

			sessions.POST("/:code/missions/advance", missionHandler.AdvanceToMission)
			sessions.POST("/:code/missions/next", missionHandler.AdvanceToNextMission)
			sessions.POST("/:code/missions/complete", missionHandler.CompleteCurrentMission)
			sessions.GET("/:code/progress", missionHandler.GetProgress)

			sessions.POST("/:code/levels/:order/submit", questHandler.SubmitLevel)
			sessions.GET("/:code/quest-leaderboard", questHandler.Leaderboard)
		}

		v1.GET("/challenges", gameHandler.ListChallenges)
		v1.GET("/missions", missionHandler.ListMissions)
		v1.GET("/levels", questHandler.ListLevels)

		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.ListArticles)
			articles.GET("/popular", articleHandler.PopularArticles)
			articles.GET("/:slug", articleHandler.GetArticle)
			articles.GET("/:slug/comments", articleHandler.ListComments)
			articles.POST("/:slug/comments", articleHandler.AddComment)
			articles.POST("/:slug/like", articleHandler.ToggleLike)
			articles.POST("/:slug/share", articleHandler.TrackShare)
		}
		v1.PUT("/comments/:id", articleHandler.EditComment)
		v1.DELETE("/comments/:id", articleHandler.DeleteComment)

		v1.POST("/demo-requests", demoHandler.CreateDemoRequest)
		v1.POST("/school-demo-requests", demoHandler.CreateSchoolDemoRequest)

		v1.POST("/admin/login", adminHandler.Login)

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(cfg.Auth.JWTSecret), middleware.RequireRole("admin"))
		{
			admin.POST("/challenges", adminHandler.CreateChallenge)
			admin.PUT("/challenges/:id", adminHandler.UpdateChallenge)
			admin.DELETE("/challenges/:id", adminHandler.DeleteChallenge)
			admin.POST("/missions", adminHandler.CreateMission)
			admin.POST("/levels", adminHandler.CreateQuestLevel)
			admin.POST("/articles", adminHandler.CreateArticle)
			admin.PUT("/articles/:id", adminHandler.UpdateArticle)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.GET("/demo-requests", demoHandler.ListDemoRequests)
			admin.GET("/school-demo-requests", demoHandler.ListSchoolDemoRequests)
			admin.GET("/artifacts/*key", questHandler.DownloadArtifact)
			admin.GET("/notifications", notificationHandler.GetNotifications)
			admin.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
			admin.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
		}
	}

	router.GET("/ws/sessions/:code", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server starting on port %s...", cfg.Server.HTTPPort)
		log.Printf("Swagger doc available at http://localhost:%s/swagger/index.html", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// startConsumer drains a queue in a goroutine. Transient failures are nacked
// with requeue so the broker redelivers them; malformed payloads are dropped,
// since redelivery can never fix them.
func startConsumer(client *messaging.RabbitMQClient, queue string, handle func(context.Context, []byte) error) {
	deliveries, err := client.Consume(queue)
	if err != nil {
		log.Printf("Warning: Failed to consume %s: %v", queue, err)
		return
	}

	go func() {
		for d := range deliveries {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := handle(ctx, d.Body); err != nil {
				if errors.Is(err, service.ErrMalformedEvent) {
					log.Printf("Dropping %s message: %v", queue, err)
					d.Nack(false, false)
				} else {
					log.Printf("Failed to handle %s message, requeueing: %v", queue, err)
					d.Nack(false, true)
				}
			} else {
				d.Ack(false)
			}
			cancel()
		}
	}()
}
