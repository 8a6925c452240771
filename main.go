package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"hydrateMeAPI/handlers"
	"hydrateMeAPI/internal/common/clock"
	"hydrateMeAPI/internal/config"
	"hydrateMeAPI/internal/firebaseapp"
	"hydrateMeAPI/internal/notification"
	"hydrateMeAPI/internal/repository"
	"hydrateMeAPI/middleware"
	"hydrateMeAPI/services"

	_ "net/http/pprof"
)

var (
	cfg                *config.Config
	repo               repository.Repository
	verifier           middleware.TokenVerifier
	dispatcher         *services.NotificationDispatcher
	userService        *services.UserService
	intakeService      *services.IntakeService
	achievementService *services.AchievementService
	leaderboardService *services.LeaderboardService
	statsService       *services.StatsService
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var fbApp *firebase.App
	fbApp, err = firebaseapp.NewApp(ctx, firebaseapp.Options{
		ProjectID:          cfg.FirebaseProjectID,
		EncodedCredentials: cfg.FirebaseCredentialsJSON,
		CredentialsFile:    cfg.FirebaseCredentialsFile,
	})
	if err != nil {
		if cfg.NeedsFirebase() {
			log.Fatal("Failed to initialize Firebase: ", err)
		}
		log.Printf("Warning: Could not initialize Firebase: %v", err)
	}

	repo, err = openRepository(ctx, fbApp)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}
	log.Printf("Store initialized (driver=%s)", cfg.StoreDriver)

	verifier, err = newVerifier(ctx, fbApp)
	if err != nil {
		log.Fatal("Failed to initialize auth: ", err)
	}
	log.Printf("Auth initialized (provider=%s)", cfg.AuthProvider)

	dispatcher = services.NewNotificationDispatcher(5, 100)
	dispatcher.SetPushProvider(services.LogPushProvider{})
	if fbApp != nil {
		fcmService, err := notification.NewFCMService(ctx, fbApp)
		if err != nil {
			log.Printf("Warning: Could not initialize FCM: %v", err)
		} else {
			dispatcher.SetPushProvider(fcmService)
			log.Println("FCM Push Provider initialized successfully")
		}
	}

	clk := &clock.DefaultClock{}
	achievementService = services.NewAchievementService(repo, dispatcher, clk)
	userService = services.NewUserService(repo, achievementService, dispatcher, cfg.DefaultTimezone)
	intakeService = services.NewIntakeService(repo, achievementService, dispatcher, clk)
	leaderboardService = services.NewLeaderboardService(repo, clk)
	statsService = services.NewStatsService(repo, leaderboardService, clk)

	middleware.InitPrometheus()
}

func openRepository(ctx context.Context, fbApp *firebase.App) (repository.Repository, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverFirestore:
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		return repository.NewFirestore(client)

	case config.StoreDriverRedis:
		return repository.NewRedis(&repository.RedisConfig{
			RedisClient: redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			}),
		})

	default:
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		poolConfig.MaxConns = 25
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = 30 * time.Minute
		poolConfig.HealthCheckPeriod = time.Minute

		dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, err
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, err
		}

		pg, err := repository.NewPostgres(dbPool)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	}
}

func newVerifier(ctx context.Context, fbApp *firebase.App) (middleware.TokenVerifier, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderFirebase:
		client, err := fbApp.Auth(ctx)
		if err != nil {
			return nil, err
		}
		return &middleware.FirebaseVerifier{Client: client}, nil
	case config.AuthProviderLocal:
		return &middleware.LocalVerifier{Secret: []byte(cfg.JWTKey)}, nil
	default:
		clerk.SetKey(cfg.ClerkSecretKey)
		return middleware.ClerkVerifier{}, nil
	}
}

func main() {
	defer func() {
		log.Println("Closing store...")
		if err := repo.Close(); err != nil {
			log.Printf("Store close error: %v", err)
		}
	}()

	userHandler := handlers.NewUserHandler(userService, statsService)
	intakeHandler := handlers.NewIntakeHandler(intakeService)
	socialHandler := handlers.NewSocialHandler(achievementService, leaderboardService)
	healthHandler := handlers.NewHealthHandler(repo)

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stopCleanup := make(chan struct{})
	go limiter.CleanupVisitors(stopCleanup)

	standardRouter.Use(limiter.Middleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	adminOnly := middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)
	standardRouter.Handle("/metrics", adminOnly(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(adminOnly(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", healthHandler.Health).Methods("GET")

	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(verifier))

	protected.HandleFunc("/user", userHandler.CreateUser).Methods("POST")
	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/weight", userHandler.UpdateWeight).Methods("PUT")
	protected.HandleFunc("/user/stats", userHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/user/friends", userHandler.GetFriends).Methods("GET")
	protected.HandleFunc("/user/friends", userHandler.AddFriend).Methods("POST")
	protected.HandleFunc("/user/friends", userHandler.RemoveFriend).Methods("DELETE")
	protected.HandleFunc("/user/friends/check", userHandler.CheckFriendships).Methods("GET")
	protected.HandleFunc("/user/friends/repair", userHandler.RepairFriendships).Methods("POST")

	protected.HandleFunc("/intake", intakeHandler.LogIntake).Methods("POST")
	protected.HandleFunc("/intake", intakeHandler.GetHistory).Methods("GET")
	protected.HandleFunc("/intake/presets", intakeHandler.GetPresets).Methods("GET")
	protected.HandleFunc("/progress", intakeHandler.GetProgress).Methods("GET")

	protected.HandleFunc("/achievements", socialHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/leaderboard", socialHandler.GetLeaderboard).Methods("GET")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := ":" + cfg.Port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
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
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	close(stopCleanup)
	dispatcher.Stop()

	log.Println("Server shutdown complete")
}
