package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/realestate-listing/internal/config"
	"github.com/iliyamo/realestate-listing/internal/database"
	"github.com/iliyamo/realestate-listing/internal/handler"
	applog "github.com/iliyamo/realestate-listing/internal/log"
	"github.com/iliyamo/realestate-listing/internal/middleware"
	"github.com/iliyamo/realestate-listing/internal/queue"
	"github.com/iliyamo/realestate-listing/internal/repository"
	"github.com/iliyamo/realestate-listing/internal/router"
	"github.com/iliyamo/realestate-listing/internal/service"
	"github.com/iliyamo/realestate-listing/internal/utils"
)

func main() {
	cfg, err := config.Load()
	log := applog.New(cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	// Redis is optional: without it the rate limiter and cache are no-ops.
	var rdb *redis.Client
	if client, err := config.NewRedisClient(ctx, cfg.Redis); err == nil {
		rdb = client
		defer rdb.Close()
	} else if !errors.Is(err, config.ErrRedisDisabled) {
		log.Warn().Err(err).Msg("redis unavailable, rate limit and cache disabled")
	}

	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	users := repository.NewUserRepo(db)
	homes := repository.NewHomeRepo(db)
	messages := repository.NewMessageRepo(db)

	authSvc := service.NewAuthService(users, tokens, cfg.BcryptCost, cfg.ProductKeySecret, log)
	gate := middleware.NewGate(tokens, service.NewIdentityResolver(users), log)

	var publisher handler.InquiryPublisher
	if cfg.RabbitMQURL != "" {
		publisher = queue.NewPublisher(cfg.RabbitMQURL)
		go func() {
			if err := queue.StartInquiryConsumer(ctx, cfg.RabbitMQURL, "logs", log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("inquiry consumer stopped")
			}
		}()
	} else {
		log.Info().Msg("RABBITMQ_URL not set, inquiry events disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.Recover(log))

	router.Register(e, gate, []router.Controller{
		router.HealthController(db),
		router.AuthController(handler.NewAuthHandler(authSvc, log), middleware.NewTokenBucket(cfg.RateLimit, rdb, log)),
		router.HomesController(handler.NewHomeHandler(homes, messages, publisher, log), middleware.NewRedisCache(cfg.Cache, rdb, log)),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
