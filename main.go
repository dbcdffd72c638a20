package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"repairshop/application/customers"
	"repairshop/application/health"
	"repairshop/application/technicians"
	"repairshop/application/tickets"
	"repairshop/config"
	"repairshop/internal/auth"
	"repairshop/internal/database"
	"repairshop/internal/form"
	"repairshop/internal/telemetry"
	"repairshop/middleware"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "repairshop:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("repairshop", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	addr := flags.String("addr", "", "listen address, overrides REPAIRSHOP_ADDR")
	issueToken := flags.String("issue-token", "", "print a signed bearer token for this email and exit")
	roles := flags.StringSlice("roles", nil, "roles granted by --issue-token")
	ttl := flags.Duration("ttl", 24*time.Hour, "lifetime of a token from --issue-token")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	envLoaded, err := config.LoadEnvFile(*envFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	if *issueToken != "" {
		token, err := auth.SignToken(cfg.JWTSecret, *issueToken, *roles, *ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	}

	z, err := NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer z.Sync()

	if !envLoaded {
		z.Warn("no env file found, using environment variables", zap.String("path", *envFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			z.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := setupDatabase(ctx, cfg, z)
	if err != nil {
		return err
	}

	dir, err := technicians.Load(cfg.TechniciansFile)
	if err != nil {
		return err
	}
	z.Info("technician directory loaded", zap.Int("count", dir.Len()))

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := SetupRouter(db, dir, cfg.JWTSecret, z)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  55 * time.Second,
		WriteTimeout: 55 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Debug {
		go monitorResources(ctx, z)
	}

	serveErr := make(chan error, 1)
	go func() {
		defer close(serveErr)
		z.Info("server starting", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	z.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewLogger builds a development logger in debug mode and a production one otherwise
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func setupDatabase(ctx context.Context, cfg config.Config, z *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database, z)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	if cfg.Seed {
		if err := database.Seed(ctx, db); err != nil {
			return nil, err
		}
		z.Info("database seeded")
	}
	return db, nil
}

func monitorResources(ctx context.Context, z *zap.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			z.Debug("resource monitor",
				zap.Uint64("alloc_mb", m.Alloc/(1024*1024)),
				zap.Uint64("sys_mb", m.Sys/(1024*1024)),
				zap.Uint32("gc_count", m.NumGC),
				zap.Int("goroutines", runtime.NumGoroutine()),
			)
		case <-ctx.Done():
			return
		}
	}
}

// SetupRouter wires middleware and every feature handler onto a new gin engine
func SetupRouter(db *gorm.DB, dir *technicians.Directory, jwtSecret string, z *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestInit())
	r.Use(middleware.Trace())
	r.Use(middleware.ResponseInit(z, telemetry.NewReporter(z)))

	provider := auth.NewContextProvider()
	schema := form.NewSchema()

	healthHandler := health.NewHandler(health.NewService(health.NewRepository(db), dir))
	customersHandler, customerRepo := customers.New(db, provider, schema, z)
	ticketsHandler := tickets.New(db, customerRepo, dir, provider, schema, z)
	techniciansHandler := technicians.NewHandler(dir, provider)

	api := r.Group("")
	healthHandler.RegisterRoutes(api)

	secured := api.Group("", middleware.RequireAuth(jwtSecret))
	customersHandler.RegisterRoutes(secured)
	ticketsHandler.RegisterRoutes(secured)
	techniciansHandler.RegisterRoutes(secured)

	return r
}
