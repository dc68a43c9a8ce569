// cmd/api/main.go
// Main entry point. Bootstraps all components and starts the server.

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wandermate/wandermate-backend/internal/apilock"
	"github.com/wandermate/wandermate-backend/internal/auth"
	"github.com/wandermate/wandermate-backend/internal/chat"
	"github.com/wandermate/wandermate-backend/internal/common/database"
	"github.com/wandermate/wandermate-backend/internal/common/utils"
	"github.com/wandermate/wandermate-backend/internal/config"
	"github.com/wandermate/wandermate-backend/internal/discovery"
	"github.com/wandermate/wandermate-backend/internal/matching"
	"github.com/wandermate/wandermate-backend/internal/notifications"
	"github.com/wandermate/wandermate-backend/internal/places"
	"github.com/wandermate/wandermate-backend/internal/travelhistory"
	"github.com/wandermate/wandermate-backend/internal/users"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting WanderMate API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Println("✅ Configuration loaded and valid")

	// 3. Connect to PostgreSQL
	log.Println("🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional)
	log.Println("📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without it", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Auth middleware
	authMiddleware := auth.NewMiddleware(auth.NewTokenValidator(cfg.JWTSecret))

	// 7. Users
	userRepo := users.NewPostgresRepository(db)

	// 8. Matching
	log.Println("🧮 Step 6: Initializing matching...")
	var scoreCache matching.ScoreCache
	if redisClient != nil {
		scoreCache = matching.NewRedisScoreCache(redisClient, cfg.MatchCacheTTL)
		log.Println("   ✅ Using Redis match score cache")
	} else {
		scoreCache = matching.NewNoopScoreCache()
		log.Println("   ⚠️  Match scores will not be cached")
	}
	matchingService := matching.NewService(userRepo, scoreCache, cfg.EnableMoodBoost)
	matchingHandler := matching.NewHandler(matchingService)

	// 9. Discovery
	discoveryService := discovery.NewService(userRepo, cfg.CandidatePageSize)
	discoveryHandler := discovery.NewHandler(discoveryService, cfg.MinAge, cfg.MaxAge)

	// 10. Travel history
	historyRepo := travelhistory.NewPostgresRepository(db)
	historyService := travelhistory.NewService(historyRepo, userRepo, cfg.TravelHistoryLimit)
	historyHandler := travelhistory.NewHandler(historyService)

	// 11. Push notifications
	log.Println("📱 Step 7: Initializing push notifications...")
	tokenRepo := notifications.NewPostgresTokenRepository(db)
	var pushSender notifications.PushSender
	if cfg.EnablePushNotifications {
		pushSender, err = notifications.NewFCMSender(context.Background(),
			cfg.FirebaseCredentialsPath, cfg.FirebaseCredentialsJSON, tokenRepo)
		if err != nil {
			log.Fatal("❌ Failed to initialize FCM: ", err)
		}
		log.Println("   ✅ Using FCM push sender")
	} else {
		pushSender = notifications.NewMockSender()
		log.Println("   ⚠️  Push notifications disabled, using mock sender")
	}
	notificationsHandler := notifications.NewHandler(tokenRepo)

	// 12. Chat
	log.Println("💬 Step 8: Initializing chat...")
	hub := chat.NewHub()
	go hub.Run()
	chatRepo := chat.NewPostgresRepository(db)
	chatService := chat.NewService(chatRepo, hub, pushSender)
	chatHandler := chat.NewHandler(chatService)

	// 13. API lock + places search
	log.Println("🔐 Step 9: Initializing api lock...")
	var locker apilock.Locker
	if cfg.EnableSharedLockStore && redisClient != nil {
		locker = apilock.NewRedisLocker(redisClient, cfg.LockTTL)
		log.Println("   ✅ Using shared Redis lock store")
	} else {
		locker = apilock.NewMemoryLocker()
		log.Println("   ✅ Using in-memory lock store")
	}

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	apilock.StartSweeper(sweeperCtx, locker, cfg.LockSweepInterval)

	placesClient := places.NewHTTPClient(cfg.PlacesAPIBaseURL, cfg.PlacesAPIKey)
	placesService := places.NewService(placesClient, locker, cfg.LockTTL)
	placesHandler := places.NewHandler(placesService)

	// 14. Router and routes
	log.Println("🌐 Step 10: Registering routes...")
	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	discovery.RegisterRoutes(router, discoveryHandler, authMiddleware)
	travelhistory.RegisterRoutes(router, historyHandler, authMiddleware)
	chat.RegisterRoutes(router, chatHandler, hub, chatService, authMiddleware)
	places.RegisterRoutes(router, placesHandler, authMiddleware)
	notifications.RegisterRoutes(router, notificationsHandler, authMiddleware)
	log.Println("✅ All routes registered")

	// 15. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	hub.Stop()
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown: ", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	utils.SuccessResponse(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}

// loggingMiddleware logs all requests with their status and duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations creates tables if they don't exist
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS countries (
            code VARCHAR(2) PRIMARY KEY,
            name VARCHAR(100) NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS cities (
            id UUID PRIMARY KEY,
            name VARCHAR(200) NOT NULL,
            country_code VARCHAR(2) NOT NULL REFERENCES countries(code)
        )`,

		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            username VARCHAR(100) UNIQUE NOT NULL,
            current_city_id UUID REFERENCES cities(id),
            visited_countries TEXT[] DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		`CREATE TABLE IF NOT EXISTS profiles (
            user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            first_name VARCHAR(100),
            last_name VARCHAR(100),
            gender VARCHAR(20),
            birthday DATE,
            languages TEXT[] DEFAULT '{}',
            persona JSONB
        )`,

		`CREATE TABLE IF NOT EXISTS city_visits (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            city_id UUID NOT NULL REFERENCES cities(id),
            start_date DATE,
            end_date DATE,
            verified BOOLEAN NOT NULL DEFAULT FALSE,
            source VARCHAR(50) NOT NULL DEFAULT 'manual',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		`CREATE INDEX IF NOT EXISTS idx_city_visits_user ON city_visits(user_id, start_date DESC)`,

		`CREATE TABLE IF NOT EXISTS chats (
            id UUID PRIMARY KEY,
            type VARCHAR(20) NOT NULL DEFAULT 'private',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		`CREATE TABLE IF NOT EXISTS chat_members (
            chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            last_read_at TIMESTAMPTZ,
            joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (chat_id, user_id)
        )`,

		`CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            sender_id UUID NOT NULL REFERENCES users(id),
            content TEXT NOT NULL,
            read_by TEXT[] NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		`CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS device_tokens (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            token TEXT UNIQUE NOT NULL,
            platform VARCHAR(20) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
