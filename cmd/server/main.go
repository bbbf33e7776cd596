package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/database"
	"github.com/iliyamo/movie-rental/internal/handler"
	"github.com/iliyamo/movie-rental/internal/middleware"
	"github.com/iliyamo/movie-rental/internal/queue"
	"github.com/iliyamo/movie-rental/internal/repository"
	"github.com/iliyamo/movie-rental/internal/router"
	"github.com/iliyamo/movie-rental/internal/service"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; cache and rate limiting degrade to pass-through
	// when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	rentals := repository.NewRentalRepo(db)
	tokens := repository.NewTokenRepo(db)

	rentalSvc := service.NewRentalService(users, movies, rentals)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	movieHandler := handler.NewMovieHandler(movies)
	rentalHandler := handler.NewRentalHandler(rentalSvc)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, limiter)
	router.RegisterMovies(e, movieHandler, cfg.JWTSecret, cache)
	router.RegisterRentals(e, rentalHandler, cfg.JWTSecret)

	// Background consumer for rental.created events; it reconnects on its
	// own and never takes the server down.
	go func() {
		if err := queue.StartRentalConsumer(); err != nil {
			log.Printf("rental-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
