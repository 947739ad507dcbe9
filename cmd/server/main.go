package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	"github.com/ExplorerSKD/BookMyShows/internal/config"
	"github.com/ExplorerSKD/BookMyShows/internal/database"
	"github.com/ExplorerSKD/BookMyShows/internal/handler"
	"github.com/ExplorerSKD/BookMyShows/internal/middleware"
	"github.com/ExplorerSKD/BookMyShows/internal/notify"
	"github.com/ExplorerSKD/BookMyShows/internal/payment"
	"github.com/ExplorerSKD/BookMyShows/internal/queue"
	"github.com/ExplorerSKD/BookMyShows/internal/repository"
	"github.com/ExplorerSKD/BookMyShows/internal/router"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Repositories.
	store := repository.NewSQLStore(db)
	users := repository.NewUserRepo(db)
	shows := repository.NewShowRepo(db)
	seats := repository.NewSeatRepo(db)
	locks := repository.NewSeatLockRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Collaborators.
	var notifier service.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	var gateway service.PaymentGateway = payment.NewStripeGateway(cfg.StripeAPIKey)
	publisher := queue.NewPublisher(cfg.RabbitURL)

	// Services.
	availability := service.NewAvailability(shows, seats, locks, bookings)
	locker := service.NewLocker(store, shows, seats, locks, bookings, cfg.SeatLockTTL)
	coordinator := service.NewCoordinator(store, shows, locks, bookings, users, gateway, notifier, publisher, cfg.Currency)
	tickets := service.NewTicketValidator(bookings)

	// Background sweep of expired seat locks.
	reaper := service.NewReaper(locks, cfg.SweepInterval)
	c := cron.New()
	if err := reaper.Schedule(c); err != nil {
		log.Fatalf("schedule reaper: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Broker consumer writes booking confirmations to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(cfg.RabbitURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Distributed rate limiting; degrades to a no-op without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users),
		Shows:    handler.NewShowHandler(availability),
		Locks:    handler.NewLockHandler(locker),
		Bookings: handler.NewBookingHandler(coordinator),
		Tickets:  handler.NewTicketHandler(tickets),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
