package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	routes "github.com/just-nibble/repo-quality/internal/adapters/http"
	"github.com/just-nibble/repo-quality/internal/adapters/http/handlers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr != "" {
				a.cfg.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go a.service.StartCacheSweeper(ctx, a.cfg.CacheSweepInterval)

			if a.store != nil {
				if count, err := a.store.CountAnalyses(ctx); err != nil {
					a.log.Warn().Err(err).Msg("failed to count stored analyses")
				} else {
					a.log.Info().Int64("analyses", count).Msg("analysis history loaded")
				}
			}

			// Warm the cache for the configured repository
			if repo := a.cfg.DefaultRepository; repo != "" {
				id, err := repo.Identifier()
				if err != nil {
					return err
				}
				go func() {
					metrics := a.service.AnalyzeCodeQuality(ctx, repositoryURL(id))
					a.log.Info().Str("repository", id.FullName()).Int("score", metrics.OverallScore).Msg("warm-up analysis completed")
				}()
			}

			server := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           routes.NewRouter(handlers.NewRepositoryHandler(a.service), a.log),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", server.Addr).Msg("server is running")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	return cmd
}
