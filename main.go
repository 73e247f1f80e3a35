package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	seed := pflag.Bool("seed", false, "fill an empty catalog with the sample menu and orders")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *seed); err != nil {
		utils.ErrorLogger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, seed bool) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	return serve(ctx, st, cfg, seed)
}

// serve owns st and closes it before returning, whatever the outcome. It
// returns nil after a graceful shutdown triggered by ctx.
func serve(ctx context.Context, st *stores, cfg *config.Config, seed bool) error {
	defer st.close()

	app := newApplication(st, cfg)
	if seed {
		if _, err := database.Seed(ctx, app.menu, app.orders); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: app.router,
	}

	serveErr := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on %s (storage: %s)", srv.Addr, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		utils.InfoLogger.Println("Received shutdown signal")
	case err = <-serveErr:
		err = fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		utils.ErrorLogger.Errorf("Graceful shutdown failed: %v", shutdownErr)
	}
	utils.InfoLogger.Println("Server stopped")
	return err
}
