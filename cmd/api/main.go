// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
	"github.com/imadgeboyega/xoxo-backend/internal/chat"
	"github.com/imadgeboyega/xoxo-backend/internal/common/database"
	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
	"github.com/imadgeboyega/xoxo-backend/internal/config"
	"github.com/imadgeboyega/xoxo-backend/internal/dating"
	"github.com/imadgeboyega/xoxo-backend/internal/messaging"
	"github.com/imadgeboyega/xoxo-backend/internal/nearby"
	"github.com/imadgeboyega/xoxo-backend/internal/profile"
)

const version = "1.0.0"

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting XOXO Dating API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  %v, continuing without Redis", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("❌ Failed to run migrations:", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Auth
	log.Println("\n🔐 Step 6: Initializing auth...")
	authService := auth.NewService(auth.NewPostgresRepository(db), &auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		BCryptCost:         cfg.BCryptCost,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)

	// 7. Profiles and photo storage
	log.Println("\n👤 Step 7: Initializing profiles...")
	var photoStorage profile.Storage
	s3Storage, err := profile.NewS3Storage(profile.S3Config{
		Endpoint:  cfg.S3EndpointURL,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3BucketName,
		Region:    cfg.S3Region,
	})
	if err != nil {
		log.Printf("⚠️  Photo storage unavailable (%v), uploads disabled", err)
	} else {
		photoStorage = s3Storage
		log.Printf("✅ Photo storage ready (bucket %s)", cfg.S3BucketName)
	}
	profileService := profile.NewService(profile.NewPostgresRepository(db), photoStorage)

	// 8. Swipes and matches
	log.Println("\n💘 Step 8: Initializing matching...")
	var pairLocks *dating.PairLocker
	if cfg.MatchPairLock {
		pairLocks = dating.NewPairLocker()
		log.Println("   - In-process pair locks enabled")
	}
	datingService := dating.NewService(dating.NewPostgresRepository(db), profileService, pairLocks)

	// 9. Chat and rooms
	log.Println("\n💬 Step 9: Initializing chat...")
	chatService := chat.NewService(chat.NewPostgresRepository(db), datingService, profileService, cfg.MessageHistoryLimit)
	if cfg.SeedChatRooms {
		created, err := chatService.SeedRooms(ctx, chat.DefaultRooms)
		if err != nil {
			log.Printf("⚠️  Chat room seeding failed: %v", err)
		} else {
			log.Printf("✅ Seeded %d chat rooms", created)
		}
	}

	// 10. Nearby
	log.Println("\n📍 Step 10: Initializing nearby...")
	var presence nearby.Presence
	if redisClient != nil {
		presence = nearby.NewRedisPresence(redisClient, cfg.LocationPresenceTTL)
	}
	nearbyRepo := nearby.NewPostgresRepository(db)
	nearbyService := nearby.NewService(nearbyRepo, profileService, presence, nearby.Config{
		DefaultRadiusKM: cfg.NearbyRadiusKM,
		ChatTTL:         cfg.NearbyChatTTL,
		HistoryLimit:    cfg.MessageHistoryLimit,
	})

	// 11. Realtime
	log.Println("\n📡 Step 11: Initializing realtime hub...")
	hub := messaging.NewHub()
	var relay *messaging.RedisRelay
	var fanout messaging.Fanout
	if cfg.RealtimeRelay && redisClient != nil {
		relay = messaging.NewRedisRelay(redisClient, hub)
		fanout = relay
		log.Println("   - Redis relay enabled")
	} else {
		log.Println("   - Local delivery only")
	}
	gateway := messaging.NewGateway(hub, fanout, cfg.WSSendBuffer)

	// 12. Routes
	log.Println("\n🛣️  Step 12: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/", apiInfo).Methods("GET")
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authHandler.RegisterRoutes(router, authMiddleware)
	profile.RegisterRoutes(router, profile.NewHandler(profileService), authMiddleware)
	dating.RegisterRoutes(router, dating.NewHandler(datingService), authMiddleware)
	chat.RegisterRoutes(router, chat.NewHandler(chatService), authMiddleware)
	nearby.RegisterRoutes(router, nearby.NewHandler(nearbyService), authMiddleware)
	messaging.RegisterRoutes(router, gateway)
	messaging.RegisterHealthCheck(router, hub)
	log.Println("✅ Routes registered")

	router.Use(loggingMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// 13. Serve
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if relay != nil {
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil {
				log.Printf("⚠️  Realtime relay stopped: %v", err)
			}
			return nil
		})

		// frames fall back to local delivery until the relay is subscribed
		select {
		case <-relay.Ready():
		case <-time.After(5 * time.Second):
			log.Println("⚠️  Realtime relay not subscribed yet, delivering locally until it is")
		case <-gctx.Done():
		}
	}

	g.Go(func() error {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.NearbyChatRetention > 0 {
		sweeper := nearby.NewSweeper(nearbyRepo, cfg.NearbyChatRetention, cfg.NearbySweepInterval)
		g.Go(func() error {
			sweeper.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Println("\n⚠️  Shutdown signal received...")

		log.Println("   - Closing realtime connections...")
		hub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("❌ Server stopped with error:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// apiInfo handles GET /
func apiInfo(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "XOXO Dating API",
		"version": version,
	})
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the logger
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
