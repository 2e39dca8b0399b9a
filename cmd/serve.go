package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/config"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/handlers"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/session"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/site"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port        string
		contentPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Nano Banana web server",
		Long: `Starts the Nano Banana site on the specified port.

The site serves the landing page with the image generator, the
/api/generate relay, GitHub sign-in through Supabase Auth and the
account dashboard.`,
		Example: `  # Start server on default port 8888
  nanobanana serve

  # Start server on custom port with custom landing page copy
  nanobanana serve --port 3000 --content ./content.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.LogWarnings()

			content, err := site.Load(contentPath)
			if err != nil {
				return err
			}

			handler, err := handlers.New(
				newRelay(cfg),
				session.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil),
				content,
				handlers.Options{
					SiteURL:       cfg.SiteURL,
					SiteName:      cfg.SiteName,
					SecureCookies: cfg.CookieSecure,
				},
			)
			if err != nil {
				return fmt.Errorf("failed to create handlers: %w", err)
			}

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/generate", handler.HandleGenerate)
			mux.HandleFunc("/api/placeholder", handler.HandlePlaceholder)
			mux.HandleFunc("/auth/login-start", handler.HandleLoginStart)
			mux.HandleFunc("/auth/callback", handler.HandleCallback)
			mux.HandleFunc("/auth/me", handler.HandleMe)
			mux.HandleFunc("/auth/logout", handler.HandleLogout)
			mux.HandleFunc("/auth/error", handler.HandleAuthError)
			mux.HandleFunc("/dashboard", handler.HandleDashboard)
			mux.HandleFunc("/static/", handler.HandleStatic)
			mux.HandleFunc("/", handler.HandleIndex)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.LogRequests(mux),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Nano Banana available", "addr", addr, "url", cfg.SiteURL, "provider", cfg.Provider)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
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

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&contentPath, "content", "", "YAML file with landing page copy (defaults to the built-in copy)")

	return cmd
}
