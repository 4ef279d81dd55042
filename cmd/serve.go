package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/converter/internal/handlers"
	"github.com/lehigh-university-libraries/converter/internal/i18n"
	"github.com/lehigh-university-libraries/converter/internal/imagepdf"
	"github.com/lehigh-university-libraries/converter/internal/journal"
	"github.com/lehigh-university-libraries/converter/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion web server",
		Long: `Starts the Converter HTTP API.

Image sessions collect PNG and WEBP uploads and render them into an A4 PDF.
The latex and solve endpoints send one PDF or .tex file to the configured
model and return LaTeX.`,
		Example: `  # Start server on default port 8888
  converter serve

  # Start server on custom port with OpenAI
  converter serve --port 3000 --provider openai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			svc, err := a.newBridge()
			if err != nil {
				return err
			}
			catalog, err := i18n.Load()
			if err != nil {
				return err
			}

			store := storage.New()
			handler := handlers.New(handlers.Options{
				Store:     store,
				Assembler: imagepdf.NewAssembler(imagepdf.NewImageDecoder(), imagepdf.NewFPDFBuilder, cfg.PDF.Margin),
				Bridge:    svc,
				Catalog:   catalog,
				History:   journal.New(cfg.History.Capacity),
				MaxUpload: cfg.MaxUploadBytes(),
				Language:  cfg.Language,
			})

			addr := ":" + strconv.Itoa(cfg.Server.Port)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := context.WithCancel(cmd.Context())
			defer stop()
			go expireSessions(ctx, store, cfg.Session.TTL)

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Converter available",
					"addr", addr,
					"url", "http://localhost"+addr,
					"provider", svc.Provider(),
					"model", svc.Model())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().IntP("port", "p", 8888, "Port to listen on")

	return cmd
}

// expireSessions drops idle image sessions until ctx ends.
func expireSessions(ctx context.Context, store *storage.SessionStore, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := min(ttl/4, 5*time.Minute)
	if interval <= 0 {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Expire(ttl); n > 0 {
				slog.Info("Expired idle sessions", "count", n)
			}
		}
	}
}
