package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/table-reservation/internal/calendar"
	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/ratelimit"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/service"
)

func main() {
	// A missing .env is fine; the real environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	policy, err := config.LoadPolicy()
	if err != nil {
		log.Fatalf("config: opening hours: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenDriver(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		applied, err := database.Migrate(ctx, db, cfg.DBDriver)
		if err != nil {
			log.Fatalf("database: migrate: %v", err)
		}
		for _, name := range applied {
			log.Printf("database: applied %s", name)
		}
	}

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}
	rl := config.LoadRateLimitConfig()
	limiter := ratelimit.Build(rl.Enabled, rl.Backend, rl.Limiter, rdb)

	calCfg, err := config.LoadCalendarConfig(policy.Location())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	syncer := calendar.NewSyncer(calendar.Select(ctx, calCfg.Provider, calCfg.Google), calCfg.Timeout)

	var mailer service.Mailer
	if cfg.AMQPURL != "" {
		mailer = queue.NewPublisher(cfg.AMQPURL)
	} else {
		log.Printf("mail: no broker configured, logging confirmations")
		mailer = queue.NewLogMailer(nil)
	}

	reservations := repository.NewReservationRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	admins := repository.NewAdminUserRepo(db)

	var locker service.SlotLocker
	if cfg.SlotLock && cfg.DBDriver == database.DriverMySQL {
		locker = repository.NewSlotLocker(db, cfg.SlotLockWait)
	}
	capacity := service.NewCapacityChecker(reservations, cfg.MaxBookingsPerSlot, locker)
	svc := service.NewReservationService(reservations, restaurants, policy, capacity, syncer, mailer, cfg.DefaultRestaurantSlug)
	auth := service.NewAuthService(admins, service.FallbackAdmin{
		Username:       cfg.AdminUsername,
		PasswordHash:   cfg.AdminPasswordHash,
		Password:       cfg.AdminPassword,
		RestaurantSlug: cfg.DefaultRestaurantSlug,
	}, cfg.TokenKeys(), cfg.AdminTokenTTL)
	mgmt := service.NewManagementService(restaurants, admins, cfg.BcryptCost)

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	e := router.New(cfg.TokenKeys(), cfg.AdminManagementSecret, cfg.TrustedProxies)
	rh := handler.NewReservationHandler(svc)
	resth := handler.NewRestaurantHandler(mgmt, cache)
	router.RegisterRoutes(e, db)
	throttle := middleware.Throttle(config.LoadThrottleConfig(), rdb, "lookup")
	router.RegisterReservations(e, rh, limiter, throttle)
	router.RegisterPublic(e, resth, cache)
	router.RegisterAuth(e, handler.NewAuthHandler(auth, cfg.IsProduction()), limiter)
	router.RegisterAdmin(e, rh, resth)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.AMQPURL != "" && cfg.MailConsumer {
		consumer := &queue.Consumer{URL: cfg.AMQPURL, Sink: queue.FileSink{Path: cfg.MailLogPath}}
		g.Go(func() error { return consumer.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Printf("server stopped")
}
