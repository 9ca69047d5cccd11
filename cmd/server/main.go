package main // Entry point package

import (
	"context" // Timeouts for cache purges triggered off-request
	"log"     // Logging library
	"strconv" // User IDs in cache key prefixes
	"time"    // Purge timeout duration

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/mikino-app/mikino-server/internal/config"     // Internal config loader
	"github.com/mikino-app/mikino-server/internal/database"   // MySQL connection helper
	"github.com/mikino-app/mikino-server/internal/handler"    // HTTP handlers
	"github.com/mikino-app/mikino-server/internal/middleware" // Rate limit and cache middleware
	"github.com/mikino-app/mikino-server/internal/queue"      // RabbitMQ consumer for ping events
	"github.com/mikino-app/mikino-server/internal/repository" // Data access layer
	"github.com/mikino-app/mikino-server/internal/router"     // Internal router setup
	"github.com/mikino-app/mikino-server/internal/session"    // Per-user session filter state
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env vars win

	cfg := config.Load() // Load environment config

	// Connect to MySQL; the service cannot run without its primary store.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: nil disables rate limiting and response caching and
	// keeps session filters in process memory.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limit, cache and session mirroring disabled")
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	attendance := repository.NewAttendanceRepo(db)
	friends := repository.NewFriendRepo(db)
	pings := repository.NewPingRepo(db)
	presets := repository.NewPresetRepo(db)

	// Session filter state, one reconciler per authenticated user.
	sessions := session.NewManager(rdb, cfg.SessionTTL, cfg.FilterApplyDelay)
	defer sessions.Shutdown()

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	showtimeH := handler.NewShowtimeHandler(showtimes, attendance, presets, sessions)
	friendH := handler.NewFriendHandler(friends, users)
	pingH := handler.NewPingHandler(pings, friends)
	presetH := handler.NewPresetHandler(presets, sessions)
	sessionH := handler.NewSessionFilterHandler(sessions)

	e := echo.New()

	// Global token bucket rate limit; per-route response cache for the
	// browse list endpoints.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	var cache echo.MiddlewareFunc
	if rdb != nil {
		cacheCfg := config.LoadCacheConfig()
		cache = middleware.NewRedisCache(cacheCfg, rdb)

		// Writes that change what a cached browse GET returns purge the
		// user's cache entries: filter promotions and attendance updates.
		purge := func(ctx context.Context, uid uint64) {
			if err := middleware.PurgeUserCache(ctx, cacheCfg, rdb, strconv.FormatUint(uid, 10)); err != nil {
				log.Printf("cache purge for user=%d: %v", uid, err)
			}
		}
		sessions.OnApply(func(uid uint64, _ session.Dimension, _ string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			purge(ctx, uid)
		})
		showtimeH.Invalidate = purge
	}

	router.RegisterRoutes(e)                     // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret) // Auth + /v1/me
	router.RegisterBrowse(e, showtimeH, cfg.JWTSecret, cache)
	router.RegisterSocial(e, friendH, pingH, cfg.JWTSecret)
	router.RegisterFilters(e, presetH, sessionH, cfg.JWTSecret)

	// Consume ping.sent events in the background; the consumer reconnects
	// on broker failures.
	go func() {
		if err := queue.StartPingConsumer(); err != nil {
			log.Printf("ping consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
