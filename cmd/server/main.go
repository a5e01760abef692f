package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mihaja/event-ticketing/internal/clock"
	"github.com/mihaja/event-ticketing/internal/config"
	"github.com/mihaja/event-ticketing/internal/database"
	"github.com/mihaja/event-ticketing/internal/handler"
	"github.com/mihaja/event-ticketing/internal/media"
	"github.com/mihaja/event-ticketing/internal/queue"
	"github.com/mihaja/event-ticketing/internal/repository"
	"github.com/mihaja/event-ticketing/internal/router"
	"github.com/mihaja/event-ticketing/internal/service"
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

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; caching and rate limiting disabled")
	}

	eventRepo := repository.NewEventRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	pub := queue.NewPublisher()
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	events := service.NewEventService(eventRepo)
	tickets := service.NewTicketService(ticketRepo, eventRepo)
	reservations := service.NewReservationService(reservationRepo, eventRepo, clock.NewSystem(), pub)
	users := service.NewUserService(userRepo)

	images := media.NewStore(cfg.MediaDir, cfg.MediaBaseURL)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Events:       handler.NewEventHandler(events, images),
		Tickets:      handler.NewTicketHandler(tickets),
		Reservations: handler.NewReservationHandler(reservations),
		Users:        handler.NewUserHandler(users, tokenRepo),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
