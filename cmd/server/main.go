package main

import (
	"log"
	"net/http"
	"os"

	"github.com/catlearn/backend/internal/auth"
	"github.com/catlearn/backend/internal/content"
	"github.com/catlearn/backend/internal/database"
	"github.com/catlearn/backend/internal/generator"
	"github.com/catlearn/backend/internal/middleware"
	"github.com/catlearn/backend/internal/progress"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	contentStore := content.NewStore(db)
	contentService := content.NewService(contentStore)
	progressService := progress.NewService(progress.NewPostgresStore(db))

	// Initialize handlers
	authHandler := auth.NewHandler(db, progressService)
	contentHandler := content.NewHandler(contentService)
	progressHandler := progress.NewHandler(progressService, contentStore)
	generatorHandler := generator.NewHandler(generator.NewGenerator(), contentService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Content catalog
	protected.HandleFunc("/modules", contentHandler.ListModules).Methods("GET")
	protected.HandleFunc("/modules/{id}/lessons", contentHandler.ListLessons).Methods("GET")
	protected.HandleFunc("/lessons/{id}", contentHandler.GetLesson).Methods("GET")
	protected.HandleFunc("/lessons/{id}/quiz", contentHandler.GetQuiz).Methods("GET")
	protected.HandleFunc("/lessons/{id}/game", contentHandler.GetGame).Methods("GET")

	// Progress and scoring
	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/lessons/{id}/complete", progressHandler.CompleteLesson).Methods("POST")
	protected.HandleFunc("/progress/lessons/{id}/quiz", progressHandler.SubmitQuiz).Methods("POST")
	protected.HandleFunc("/progress/lessons/{id}/game", progressHandler.SubmitGame).Methods("POST")
	protected.HandleFunc("/progress/modules/{id}/complete", progressHandler.CompleteModule).Methods("POST")

	// Admin routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/modules", contentHandler.CreateModule).Methods("POST")
	admin.HandleFunc("/lessons", contentHandler.CreateLesson).Methods("POST")
	admin.HandleFunc("/lessons/{id}", contentHandler.UpdateLesson).Methods("PUT")
	admin.HandleFunc("/lessons/{id}/quiz", contentHandler.SaveQuiz).Methods("PUT")
	admin.HandleFunc("/lessons/{id}/game", contentHandler.SaveGame).Methods("PUT")
	admin.HandleFunc("/lessons/{id}/quiz/generate", generatorHandler.GenerateQuiz).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
