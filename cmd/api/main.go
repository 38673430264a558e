package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/abhishekrajput-web/task-management-application/internal/ai"
	"github.com/abhishekrajput-web/task-management-application/internal/auth"
	"github.com/abhishekrajput-web/task-management-application/internal/config"
	"github.com/abhishekrajput-web/task-management-application/internal/db"
	"github.com/abhishekrajput-web/task-management-application/internal/tasks"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("failed to connect DB: ", err)
	}
	defer database.Close()
	log.Println("connected to PostgreSQL")

	gateway := ai.NewGateway(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
	defer gateway.Close()

	store := tasks.NewPostgresStore(database)

	secret := []byte(cfg.JWTSecret)
	authMW := auth.New(secret)
	authHandler := auth.NewHandler(database, secret)
	taskHandler := tasks.NewHandler(store, database)
	aiHandler := ai.NewHandler(store, ai.NewService(gateway, gateway.Model()), database)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":   "Smart Task Manager API is running!",
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMW.Handler).Get("/me", authHandler.Me)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(authMW.Handler)
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
		r.Patch("/{id}/toggle", taskHandler.Toggle)
	})

	r.Route("/api/ai", func(r chi.Router) {
		r.Use(authMW.Handler)
		r.Use(ai.Recoverer)
		r.Post("/suggestion", aiHandler.Suggestion)
		r.Post("/improve", aiHandler.Improve)
		r.Post("/breakdown", aiHandler.Breakdown)
		r.Post("/parse-dump", aiHandler.ParseBrainDump)
		r.Post("/energy-suggestions", aiHandler.EnergySuggestions)
		r.Post("/do-it-for-me", aiHandler.DoItForMe)
		r.Post("/daily-reflection", aiHandler.DailyReflection)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	addr := ":" + cfg.Port
	log.Println("API server is running on " + addr)
	log.Fatal(http.ListenAndServe(addr, c.Handler(r)))
}
