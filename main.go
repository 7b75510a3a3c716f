package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shelfscout/handlers"
	"shelfscout/internal/badge"
	"shelfscout/internal/crown"
	"shelfscout/internal/cycle"
	"shelfscout/internal/leaderboard"
	"shelfscout/internal/stats"
	"shelfscout/internal/store"
	"shelfscout/internal/submission"
	"shelfscout/internal/user"
	"shelfscout/internal/validation"
	"shelfscout/middleware"
	"shelfscout/services"
)

var (
	dbPool             *pgxpool.Pool
	authService        *services.AuthService
	userService        *services.UserService
	submissionService  *services.SubmissionService
	consensusService   *services.ConsensusService
	crownService       *services.CrownService
	trustService       *services.TrustService
	storeService       *services.StoreService
	leaderboardService *services.LeaderboardService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	users := user.NewPostgresRepository(dbPool)
	cycles := cycle.NewPostgresRepository(dbPool)
	stores := store.NewPostgresRepository(dbPool)
	submissions := submission.NewPostgresRepository(dbPool)
	votes := validation.NewPostgresRepository(dbPool)
	crowns := crown.NewPostgresRepository(dbPool)
	badges := badge.NewPostgresRepository(dbPool)
	statsRepo := stats.NewPostgresRepository(dbPool)
	boards := leaderboard.NewPostgresRepository(dbPool)

	badgeService := services.NewBadgeService(badges, statsRepo, cycles)
	trustService = services.NewTrustService(statsRepo, users)
	crownService = services.NewCrownService(crowns)
	authService = services.NewAuthService(users)
	userService = services.NewUserService(users, statsRepo, votes, badges)
	submissionService = services.NewSubmissionService(submissions, cycles, stores, badgeService)
	consensusService = services.NewConsensusService(submissions, votes, stores, crownService, badgeService, trustService)
	storeService = services.NewStoreService(stores)
	leaderboardService = services.NewLeaderboardService(boards, cycles)

	middleware.InitPrometheus()
	services.InitMetrics()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, trustService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	validationHandler := handlers.NewValidationHandler(consensusService)
	crownHandler := handlers.NewCrownHandler(crownService)
	storeHandler := handlers.NewStoreHandler(storeService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "shelfscout-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	protected.HandleFunc("/submissions", submissionHandler.CreateSubmission).Methods("POST")
	protected.HandleFunc("/submissions/{id}", submissionHandler.GetSubmission).Methods("GET")
	protected.HandleFunc("/stores/{storeId}/submissions", submissionHandler.GetStoreSubmissions).Methods("GET")

	protected.HandleFunc("/validation/queue", validationHandler.GetQueue).Methods("GET")
	protected.HandleFunc("/validation/stats", validationHandler.GetStats).Methods("GET")
	protected.HandleFunc("/validation/{submissionId}", validationHandler.SubmitVote).Methods("POST")

	protected.HandleFunc("/crowns/region/{regionId}", crownHandler.GetRegionCrowns).Methods("GET")
	protected.HandleFunc("/crowns/{id}/history", crownHandler.GetCrownHistory).Methods("GET")

	protected.HandleFunc("/users/me", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/users/me/submissions", submissionHandler.GetMySubmissions).Methods("GET")
	protected.HandleFunc("/users/me/crowns", crownHandler.GetMyCrowns).Methods("GET")
	protected.HandleFunc("/users/me/badges", userHandler.GetBadges).Methods("GET")
	protected.HandleFunc("/users/me/stats", userHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/users/me/trust/recalculate", userHandler.RecalculateTrust).Methods("POST")

	protected.HandleFunc("/stores/nearby", storeHandler.GetNearbyStores).Methods("GET")
	protected.HandleFunc("/stores/{id}", storeHandler.GetStore).Methods("GET")

	protected.HandleFunc("/leaderboards/regional/{regionId}", leaderboardHandler.GetRegional).Methods("GET")
	protected.HandleFunc("/leaderboards/national", leaderboardHandler.GetNational).Methods("GET")
	protected.HandleFunc("/leaderboards/weekly", leaderboardHandler.GetWeekly).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
