package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/figweave/internal/api"
	"github.com/dgallion1/figweave/internal/binding"
	"github.com/dgallion1/figweave/internal/config"
	"github.com/dgallion1/figweave/internal/figma"
	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file loaded", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	fileKey, fileName, err := figma.ParseFileURL(cfg.FigmaFileURL)
	if err != nil {
		log.Error("invalid source url", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	fc := figma.NewClient(cfg.FigmaAPIBase, cfg.FigmaAPIToken, cfg.FetchTimeout, cfg.GraphicsConcurrency, log)
	resolver := binding.NewResolver(cfg.BindingTimeout)

	// Initialize HTTP server.
	srv := api.NewServer(fc, resolver, log, cfg, fileKey, fileName)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting figweave", "port", cfg.Port, "file_key", fileKey)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
