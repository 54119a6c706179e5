package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"napps-server/internal/auth"
	"napps-server/internal/config"
	"napps-server/internal/db"
	"napps-server/internal/email"
	apihttp "napps-server/internal/http"
	"napps-server/internal/repository"
	"napps-server/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, _ := zap.NewProduction()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	nappRepo := repository.NewPgNappRepository(pool)

	// Sin Redis configurado las sesiones viven en memoria del proceso.
	registry := auth.NewMemoryRegistry()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory sessions", zap.Error(err))
		} else {
			registry = auth.NewRedisRegistry(redisClient)
		}
		cancel()
	}

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	gateway := auth.NewGateway(
		logger,
		auth.NewCredentialStore(userRepo),
		registry,
		auth.NewCodec(cfg.SessionSecret),
		sessionTTL,
		cfg.SessionSliding,
	)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	userSvc := service.NewUserService(logger, userRepo, emailSender)
	nappSvc := service.NewNappService(logger, nappRepo, userRepo)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:         logger,
		Auth:           apihttp.NewAuthHandler(logger, gateway),
		Users:          apihttp.NewUserHandler(logger, userSvc),
		Napps:          apihttp.NewNappHandler(logger, nappSvc),
		Comments:       apihttp.NewCommentHandler(logger),
		Resolver:       gateway,
		EnableComments: cfg.FeatureComments,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Duration("session_ttl", sessionTTL),
		zap.Bool("comments_enabled", cfg.FeatureComments),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
