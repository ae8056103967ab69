package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/config"
	"github.com/seckc/community-api/internal/database"
	"github.com/seckc/community-api/internal/handler"
	"github.com/seckc/community-api/internal/middleware"
	"github.com/seckc/community-api/internal/queue"
	"github.com/seckc/community-api/internal/repository"
	"github.com/seckc/community-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client turns caching and rate limiting
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	rsvpRepo := repository.NewRSVPRepo(db)
	eventRepo := repository.NewEventRepo(db)
	resourceRepo := repository.NewResourceRepo(db)
	bookmarkRepo := repository.NewBookmarkRepo(db)
	socialRepo := repository.NewSocialRepo(db)
	statsRepo := repository.NewStatsRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterPublic(e,
		handler.NewEventHandler(eventRepo),
		handler.NewResourceHandler(resourceRepo),
		handler.NewSocialHandler(socialRepo),
		handler.NewStatsHandler(statsRepo),
	)
	router.RegisterRSVP(e, handler.NewRSVPHandler(rsvpRepo), cfg.JWTSecret)
	router.RegisterAuth(e,
		handler.NewAuthHandler(cfg, userRepo, profileRepo, tokenRepo),
		handler.NewProfileHandler(profileRepo),
		cfg.JWTSecret,
	)
	router.RegisterMember(e,
		handler.NewBookmarkHandler(bookmarkRepo),
		handler.NewNotificationHandler(notificationRepo),
		cfg.JWTSecret,
	)
	router.RegisterAdmin(e, &handler.AdminHandler{
		Events:        eventRepo,
		Resources:     resourceRepo,
		Posts:         socialRepo,
		Stats:         statsRepo,
		Users:         userRepo,
		Notifications: notificationRepo,
	}, cfg.JWTSecret)

	// Seed the statistics row so the public endpoint serves stored
	// values instead of defaults from day one.
	seedCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := statsRepo.Initialize(seedCtx); err != nil {
		log.Printf("stats: initialize failed: %v", err)
	}
	cancel()

	// The consumer reconnects forever; run it alongside the server.
	go func() {
		if err := queue.StartRSVPConsumer(); err != nil {
			log.Printf("rsvp-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
