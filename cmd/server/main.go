package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stopfrisk/internal/api"
	"stopfrisk/internal/config"
	"stopfrisk/internal/engine"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	configFile := flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	// 1. Configuration: file first, environment on top
	cfg := config.New()
	if err := cfg.Load(*configFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ParseEnv(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := log.New("sqf")
	logger.SetLevel(cfg.Level())

	// 2. Echo starts serving right away; queries answer 503 until the load lands
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(cfg.Level())
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}

	h := api.NewHandler(nil)
	h.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// 3. Background load
	g.Go(func() error {
		logger.Infof("BACKGROUND: loading %s", cfg.DataPath)
		store := engine.NewStore()
		stats, err := store.LoadFile(cfg.DataPath,
			engine.WithSkipMalformed(cfg.SkipMalformed),
			engine.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("load %s: %w", cfg.DataPath, err)
		}
		h.SetData(store, stats)
		logger.Infof("BACKGROUND: %d records across %d years ready in %v", stats.Rows, stats.Years, stats.Elapsed)
		return nil
	})

	// 4. Server
	g.Go(func() error {
		logger.Infof("Server ready on %s (data loading in background...)", cfg.Addr)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		e.Logger.Fatal(err)
	}
}
