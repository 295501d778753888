package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"rebatescout/internal/service"
	"rebatescout/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	AssessmentService *service.AssessmentService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/assessments", assessmentHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{sessionId}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessments/{sessionId}", assessmentHandler.Reset).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/assessments/{sessionId}/answers/{questionId}", assessmentHandler.Answer).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/assessments/{sessionId}/advance", assessmentHandler.Advance).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{sessionId}/retreat", assessmentHandler.Retreat).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{sessionId}/save", assessmentHandler.Save).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{sessionId}/submit", assessmentHandler.Submit).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
