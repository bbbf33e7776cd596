package router // defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/handler"
	"github.com/iliyamo/movie-rental/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Token issuing
// endpoints live under /v1/auth with the rate limiter applied; /v1/me
// sits behind JWT authentication.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterMovies registers the catalogue routes. Browsing is public and
// cached; catalogue maintenance requires a valid access token.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	browse := e.Group("/v1/movies")
	if cache != nil {
		browse.Use(cache)
	}
	browse.GET("", m.ListMovies)
	browse.GET("/:id", m.GetMovie)

	admin := e.Group("/v1/movies")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.POST("", m.CreateMovie)
}

// RegisterRentals registers the rental routes. All of them require a
// valid access token.
func RegisterRentals(e *echo.Echo, r *handler.RentalHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/rentals", r.CreateRental)
	g.GET("/rentals", r.ListRentals)
	g.GET("/rentals/:id", r.GetRental)
	g.GET("/my-rentals", r.ListMyRentals)
}
