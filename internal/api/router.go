package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seid21/topia-estate-be/internal/api/handlers"
	"github.com/seid21/topia-estate-be/internal/auth"
	"github.com/seid21/topia-estate-be/internal/mail"
	"github.com/seid21/topia-estate-be/internal/models"
	"github.com/seid21/topia-estate-be/internal/services"
	"github.com/seid21/topia-estate-be/internal/websocket"
)

// Deps bundles everything the router needs.
type Deps struct {
	Auth          *auth.Auth
	Hub           *websocket.Hub
	Mailer        *mail.Mailer
	Users         services.UserServiceProvider
	Properties    services.PropertyServiceProvider
	Conversations services.ConversationServiceProvider
	Messages      services.MessageServiceProvider

	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(d.Users, d.Auth, d.Mailer, d.SecureCookies)
	propertyHandler := handlers.NewPropertyHandler(d.Properties)
	conversationHandler := handlers.NewConversationHandler(d.Conversations)
	messageHandler := handlers.NewMessageHandler(d.Messages)
	contactHandler := handlers.NewContactHandler(d.Mailer)
	wsHandler := handlers.NewWebSocketHandler(d.Hub)

	// Public auth endpoints
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Post("/forgot-password", userHandler.ForgotPassword)
	r.Post("/reset-password/{token}", userHandler.ResetPassword)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog and contact form
		r.Get("/properties", propertyHandler.GetAll)
		r.Get("/properties/{id}", propertyHandler.Get)
		r.Post("/contact", contactHandler.Send)

		// Everything below requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(d.Auth.Middleware())

			r.Get("/ws", wsHandler.Serve)
			r.Get("/me", userHandler.GetMe)

			r.Post("/properties", propertyHandler.Create)
			r.Delete("/properties/{id}", propertyHandler.Delete)

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", conversationHandler.List)
				r.Post("/find-or-create", conversationHandler.FindOrCreate)
				r.Get("/with/{userID}", conversationHandler.With)
				r.Get("/{id}/messages", messageHandler.ListByConversation)
			})
			r.Post("/messages", messageHandler.Create)

			// Admin-only user management
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleAdmin))
				r.Get("/users", userHandler.GetAll)
				r.Delete("/users/{id}", userHandler.Delete)
			})
			r.Get("/users/{id}", userHandler.Get)
		})
	})

	return r
}
