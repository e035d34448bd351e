package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"socialink/internal/config"
	"socialink/internal/db"
	"socialink/internal/email"
	apihttp "socialink/internal/http"
	"socialink/internal/repository"
	"socialink/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
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

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	identityRepo := repository.NewPgIdentityRepository(pool)
	avatarRepo := repository.NewPgAvatarRepository(pool)

	var (
		tokenStore   service.RefreshTokenStore
		loginLimiter service.LoginRateLimiter
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
		}
		cancel()
	}
	if loginLimiter == nil {
		loginLimiter = service.NewLoginRateLimiter(10*time.Minute, 10)
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	provider := service.NewLocalAuthProvider(identityRepo, jwtSvc)
	sessionSvc := service.NewSessionService(logger, provider, userRepo, profileRepo, emailSender, loginLimiter)
	savedSvc := service.NewSavedProfilesService(logger, userRepo)
	avatarSvc := service.NewAvatarService(logger, avatarRepo, userRepo, cfg.PublicBaseURL)

	cookieOpts := apihttp.CookieOptions{
		Secure:   cfg.CookieSecure,
		SameSite: apihttp.ParseSameSite(cfg.CookieSameSite),
	}
	authHandler := apihttp.NewAuthHandler(logger, sessionSvc, cookieOpts)
	userHandler := apihttp.NewUserHandler(logger, userRepo, profileRepo, savedSvc)
	avatarHandler := apihttp.NewAvatarHandler(logger, avatarSvc)
	router := apihttp.NewRouter(logger, cfg.CORSOrigins, authHandler, userHandler, avatarHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
