package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/ovasilenko/campsite/internal/config"
	"github.com/ovasilenko/campsite/internal/handlers"
	"github.com/ovasilenko/campsite/internal/images"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/middlewares"
	"github.com/ovasilenko/campsite/internal/render"
	"github.com/ovasilenko/campsite/internal/repositories"
	"github.com/ovasilenko/campsite/internal/services"
	"github.com/ovasilenko/campsite/internal/sessions"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

func main() {
	printBuildInfo()
	configPath, templatesDir := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg, templatesDir); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path
// and the templates directory.
func parseFlags() (string, string) {
	c := flag.String("c", "config.env", "Path to configuration file")
	t := flag.String("templates", "web/templates", "Path to HTML templates")
	flag.Parse()
	return *c, *t
}

// run initializes the logger, database, Redis, image store and Kafka
// writer, wires routes, and handles graceful shutdown.
func run(ctx context.Context, cfg *config.Config, templatesDir string) error {
	// Initialize logger
	if err := logger.Initialize(cfg.App.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.App.LogLevel)

	// Connect to PostgreSQL
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.Postgres.DSN())
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Image hosting client
	imageStore, err := images.NewS3Store(ctx, cfg.Images)
	if err != nil {
		logger.Log.Fatal("image store initialization failed:", err)
	}

	// Optional Kafka activity stream
	var kafkaWriter services.KafkaWriter
	if cfg.Kafka.Broker != "" {
		kw := &kafka.Writer{
			Addr:     kafka.TCP(cfg.Kafka.Broker),
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kw.Close()
		kafkaWriter = kw
		logger.Log.Infof("Kafka activity stream enabled: %s/%s", cfg.Kafka.Broker, cfg.Kafka.Topic)
	}

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	campgroundReadRepo := repositories.NewCampgroundReadRepository(db)
	campgroundWriteRepo := repositories.NewCampgroundWriteRepository(db)
	commentReadRepo := repositories.NewCommentReadRepository(db)
	commentWriteRepo := repositories.NewCommentWriteRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb, cfg.Session.TTL)

	// Initialize sessions and rendering
	sessionManager := sessions.New(sessionRepo, cfg.Session.Secret, cfg.Session.TTL)
	renderer := render.New(templatesDir)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo)
	campgroundService := services.NewCampgroundService(campgroundReadRepo, campgroundWriteRepo, imageStore, kafkaWriter)
	commentService := services.NewCommentService(commentReadRepo, commentWriteRepo, campgroundReadRepo)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(middlewares.MethodOverride)
	r.Use(middlewares.Authenticate(sessionManager))

	requireLogin := middlewares.RequireLogin(sessionManager)
	requireCampgroundOwner := middlewares.RequireCampgroundOwner(campgroundReadRepo, sessionManager)
	requireCommentOwner := middlewares.RequireCommentOwner(commentReadRepo, sessionManager)

	// Landing
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/campgrounds", http.StatusFound)
	})

	// Auth routes
	r.Get("/register", handlers.NewRegisterFormHandler(renderer, sessionManager))
	r.Post("/register", handlers.NewRegisterHandler(authService, sessionManager))
	r.Get("/login", handlers.NewLoginFormHandler(renderer, sessionManager))
	r.Post("/login", handlers.NewLoginHandler(authService, sessionManager))
	r.Get("/logout", handlers.NewLogoutHandler(sessionManager))

	// Campground routes
	r.Get("/campgrounds", handlers.NewCampgroundListHandler(campgroundService, renderer, sessionManager))
	r.With(requireLogin).Get("/campgrounds/new", handlers.NewCampgroundNewFormHandler(renderer, sessionManager))
	r.With(requireLogin).Post("/campgrounds", handlers.NewCampgroundCreateHandler(campgroundService, sessionManager))
	r.Get("/campgrounds/{id}", handlers.NewCampgroundShowHandler(campgroundService, renderer, sessionManager))
	r.With(requireCampgroundOwner).Get("/campgrounds/{id}/edit", handlers.NewCampgroundEditFormHandler(campgroundService, renderer, sessionManager))
	r.With(requireCampgroundOwner).Put("/campgrounds/{id}", handlers.NewCampgroundUpdateHandler(campgroundService, sessionManager))
	r.With(requireCampgroundOwner).Delete("/campgrounds/{id}", handlers.NewCampgroundDeleteHandler(campgroundService, sessionManager))

	// Comment routes, nested under a campground
	r.With(requireLogin).Post("/campgrounds/{id}/comments", handlers.NewCommentCreateHandler(commentService, sessionManager))
	r.With(requireCommentOwner).Get("/campgrounds/{id}/comments/{commentId}/edit", handlers.NewCommentEditFormHandler(commentService, renderer, sessionManager))
	r.With(requireCommentOwner).Put("/campgrounds/{id}/comments/{commentId}", handlers.NewCommentUpdateHandler(commentService, sessionManager))
	r.With(requireCommentOwner).Delete("/campgrounds/{id}/comments/{commentId}", handlers.NewCommentDeleteHandler(commentService, sessionManager))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.App.Host, cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
