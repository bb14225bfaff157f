package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/config"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides RALLY_ADDR)")
	flag.Parse()

	cfg, err := config.Load(*addr, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := cfg.Logger()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(cfg, log, pwaHandler(cfg)).routes(),
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", "addr", cfg.Addr, "backend", cfg.BackendURL.String())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

// pwaHandler serves the WASM shell and its resources from ./web.
func pwaHandler(cfg config.Config) http.Handler {
	return &app.Handler{
		Name:        cfg.AppName,
		ShortName:   cfg.AppName,
		Title:       cfg.AppName,
		Description: "Find events, RSVP, and keep up with friends.",
		Styles: []string{
			"https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css",
			"/web/app.css",
		},
	}
}
