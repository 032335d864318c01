package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"formforge/internal/service"
	"formforge/internal/storage"
	"formforge/internal/transport/rest/handler"
	"formforge/internal/transport/rest/middleware"
	"formforge/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	FormService     *service.FormService
	ResponseService *service.ResponseService
	ImageStore      storage.ImageStore
	WSHub           *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	uploadHandler := handler.NewUploadHandler(c.ImageStore)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.FormService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/forms/{id}", formHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/responses", responseHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket feed (public route, token in query param)
	api.HandleFunc("/ws/forms/{id}", wsHandler.FormFeed).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")

	authed.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/forms/{id}", formHandler.Update).Methods("PUT", "OPTIONS")
	authed.HandleFunc("/forms/{id}", formHandler.Delete).Methods("DELETE", "OPTIONS")

	authed.HandleFunc("/responses/form/{formId}", responseHandler.ListByForm).Methods("GET", "OPTIONS")
	authed.HandleFunc("/responses/{id}", responseHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/responses/{id}", responseHandler.Delete).Methods("DELETE", "OPTIONS")

	authed.HandleFunc("/upload", uploadHandler.Upload).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
