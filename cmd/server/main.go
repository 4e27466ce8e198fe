package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dorm-backend/internal/auth"
	"dorm-backend/internal/backup"
	"dorm-backend/internal/cache"
	"dorm-backend/internal/config"
	"dorm-backend/internal/database"
	"dorm-backend/internal/db"
	h "dorm-backend/internal/http"
	"dorm-backend/internal/handlers"
	"dorm-backend/internal/health"
	"dorm-backend/internal/middleware"
	"dorm-backend/internal/monitoring"
	"dorm-backend/internal/repositories"
	"dorm-backend/internal/repositories/memory"
	"dorm-backend/internal/repositories/sqlite"
	"dorm-backend/internal/services"
	"dorm-backend/internal/timeutil"
)

// liveInterval is how often the live feed pushes a snapshot without writes
const liveInterval = 30 * time.Second

// openStore connects the configured storage driver. Postgres schemas are
// migrated before the store is returned.
func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Println("Running database migrations...")
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := database.NewMigrator(pool).RunMigrations(migrateCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return repositories.NewPostgresStore(pool, cfg.Database.QueryTimeout), nil
	case "sqlite":
		s, err := sqlite.NewStore(cfg.Storage.SQLitePath, memory.WithClock(timeutil.Now))
		if err != nil {
			return nil, err
		}
		log.Printf("[SQLite] Using %s", s.Path())
		return s, nil
	default:
		log.Println("[Memory] Using in-memory store, data is lost on restart")
		return memory.New(memory.WithClock(timeutil.Now)), nil
	}
}

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	backupNow := flag.Bool("backup", false, "Upload one snapshot to the backup bucket and exit")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := timeutil.SetLocation(cfg.Server.Timezone); err != nil {
		log.Fatalf("[Config] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Storage.Driver, err)
	}
	defer store.Close()
	log.Printf("Connected to storage: %s", cfg.Storage.Driver)

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if cfg.Redis.Addr != "" {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL); err != nil {
			log.Printf("[Redis] Cache unavailable: %v (reads go straight to storage)", err)
		} else {
			log.Println("[Redis] Cache connected successfully")
		}
		defer cache.Close()
	}

	// Backups
	var exporter *backup.Exporter
	if cfg.Backup.Enabled {
		uploader, err := backup.NewS3Uploader(ctx, cfg)
		if err != nil {
			log.Fatalf("[Backup] %v", err)
		}
		exporter = backup.NewExporter(store, uploader, cfg.Backup.Prefix, timeutil.Now)
	}
	if *backupNow {
		if exporter == nil {
			log.Fatal("[Backup] backup.enabled is false")
		}
		if _, err := exporter.Run(ctx); err != nil {
			log.Fatalf("[Backup] Failed: %v", err)
		}
		return
	}
	if exporter != nil {
		go exporter.Schedule(ctx, cfg.Backup.Interval)
	}

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	engine := services.NewOccupancyEngine()

	userService := services.NewUserService(store, jwtManager)
	if err := userService.SeedAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, cfg.Seed.AdminFullName); err != nil {
		log.Fatalf("[Seed] %v", err)
	}
	buildingService := services.NewBuildingService(store)
	roomService := services.NewRoomService(store, engine)
	studentService := services.NewStudentService(store, engine)
	guestService := services.NewGuestService(store, engine, timeutil.Now)
	assetService := services.NewAssetService(store)
	billService := services.NewBillService(store, timeutil.Now)
	reportService := services.NewReportService(store)
	statsService := services.NewStatsService(store)
	notificationService := services.NewNotificationService(store, timeutil.Now)

	liveFeed := monitoring.NewLiveFeed(statsService, notificationService, liveInterval)
	go liveFeed.Run(ctx)

	// Handlers
	router := h.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewUserHandler(userService),
		handlers.NewBuildingHandler(buildingService),
		handlers.NewRoomHandler(roomService),
		handlers.NewStudentHandler(studentService),
		handlers.NewGuestHandler(guestService),
		handlers.NewAssetHandler(assetService),
		handlers.NewBillHandler(billService, reportService),
		handlers.NewStatsHandler(statsService, notificationService),
		handlers.NewHealthHandler(health.NewHealthChecker(store, cfg.Storage.Driver)),
		liveFeed,
		middleware.NewAuthMiddleware(jwtManager, store),
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(middleware.NewCORS(cfg)(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
