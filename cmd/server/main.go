package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/artgalerie/gallery-api/internal/ai"
	"github.com/artgalerie/gallery-api/internal/config"
	"github.com/artgalerie/gallery-api/internal/database"
	"github.com/artgalerie/gallery-api/internal/handler"
	"github.com/artgalerie/gallery-api/internal/inventory"
	"github.com/artgalerie/gallery-api/internal/mailer"
	"github.com/artgalerie/gallery-api/internal/middleware"
	"github.com/artgalerie/gallery-api/internal/queue"
	"github.com/artgalerie/gallery-api/internal/repository"
	"github.com/artgalerie/gallery-api/internal/router"
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

	// Redis is optional: a nil client disables response caching and
	// rate limiting but the API keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limit disabled")
	}

	artworkRepo := repository.NewArtworkRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	eventRepo := repository.NewEventRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	workshopRepo := repository.NewWorkshopRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	registrationRepo := repository.NewRegistrationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	resetRepo := repository.NewResetRepo(db)

	inv := inventory.New(artworkRepo, reservationRepo)
	aiClient := ai.New(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	// Consumer for reservation.created events: sends confirmation email
	// and appends to the reservation log.  Runs for the lifetime of the
	// process and reconnects on broker failures.
	go func() {
		if err := queue.StartReservationConsumer(mail); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(userRepo, tokenRepo, resetRepo, mail, cfg), cfg.JWTSecret)

	artHandler := handler.NewArtworkHandler(artworkRepo, aiClient)
	evHandler := handler.NewEventHandler(eventRepo, ratingRepo)
	wsHandler := handler.NewWorkshopHandler(workshopRepo)
	cmHandler := handler.NewCommentHandler(commentRepo, artworkRepo, aiClient)

	router.RegisterCatalog(e, artHandler, evHandler, wsHandler, cmHandler, rdb, config.LoadCacheConfig())
	router.RegisterReservations(e,
		handler.NewReservationHandler(artworkRepo, reservationRepo, inv),
		handler.NewRegistrationHandler(registrationRepo, eventRepo, workshopRepo),
		cfg.JWTSecret)
	router.RegisterAdmin(e, artHandler, evHandler, wsHandler, cmHandler, cfg.JWTSecret)
	router.RegisterAI(e, handler.NewAIHandler(aiClient), rdb, config.LoadRateLimitConfig())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
