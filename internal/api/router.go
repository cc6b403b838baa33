package api

import (
	"net/http"

	"github.com/dom/account-store/internal/api/handlers"
	"github.com/dom/account-store/internal/api/middleware"
	"github.com/dom/account-store/internal/config"
	"github.com/dom/account-store/internal/service"
	"github.com/dom/account-store/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Locale)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	catalogHandler := handlers.NewCatalogHandler(services.Catalog)
	leadHandler := handlers.NewLeadHandler(services.Lead)
	assistantHandler := handlers.NewAssistantHandler(services.Assistant)
	notificationHandler := handlers.NewNotificationHandler(services.Notification)
	adminHandler := handlers.NewAdminHandler(services.Admin, services.Settings)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Catalog)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Storefront
		r.Route("/games", func(r chi.Router) {
			r.Get("/", catalogHandler.ListGames)
			r.Get("/{idOrSlug}", catalogHandler.GetGame)
			r.Get("/{idOrSlug}/heroes", catalogHandler.Heroes)
			r.Get("/{idOrSlug}/accounts", catalogHandler.Accounts)
		})
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/{id}", catalogHandler.GetAccount)
			r.Get("/{id}/heroes", catalogHandler.AccountHeroes)
		})
		r.Get("/contact-methods", catalogHandler.ContactMethods)
		r.Post("/leads", leadHandler.Submit)
		r.Post("/assistant/chat", assistantHandler.Chat)
		r.Get("/notifications/sample", notificationHandler.Sample)

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/games", func(r chi.Router) {
				r.Get("/", adminHandler.ListGames)
				r.Post("/", adminHandler.CreateGame)
				r.Put("/{id}", adminHandler.UpdateGame)
				r.Delete("/{id}", adminHandler.DeleteGame)
			})

			r.Route("/heroes", func(r chi.Router) {
				r.Get("/", adminHandler.ListHeroes)
				r.Post("/", adminHandler.CreateHero)
				r.Put("/{id}", adminHandler.UpdateHero)
				r.Delete("/{id}", adminHandler.DeleteHero)
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", adminHandler.ListAccounts)
				r.Post("/", adminHandler.CreateAccount)
				r.Get("/{id}", adminHandler.GetAccount)
				r.Put("/{id}", adminHandler.UpdateAccount)
				r.Patch("/{id}/status", adminHandler.UpdateAccountStatus)
				r.Delete("/{id}", adminHandler.DeleteAccount)
			})

			r.Post("/uploads", adminHandler.Upload)
			r.Get("/orders", adminHandler.ListOrders)
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Get("/settings", adminHandler.GetSettings)
			r.Put("/settings", adminHandler.UpdateSettings)
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
