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
	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/api"
	"github.com/joestump/shortlinks/internal/auth"
	"github.com/joestump/shortlinks/internal/build"
	"github.com/joestump/shortlinks/internal/handler"
	"github.com/joestump/shortlinks/internal/links"
	"github.com/joestump/shortlinks/internal/ratelimit"
	"github.com/joestump/shortlinks/internal/store"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			cfg, log := e.cfg, e.log

			userStore := store.NewUserStore(e.db)
			projectStore := store.NewProjectStore(e.db, cfg.Projects.CacheTTL)
			domainStore := store.NewDomainStore(e.db)
			tagStore := store.NewTagStore(e.db)
			linkStore := store.NewLinkStore(e.db)
			tokenStore := auth.NewSQLTokenStore(e.db)

			svc, err := links.NewService(linkStore, tagStore, domainStore, cfg.Links.DefaultDomain, log)
			if err != nil {
				return err
			}

			router := handler.NewRouter(handler.Deps{
				DB:     e.db,
				Logger: log,
				API: api.Deps{
					BearerAuth:  auth.NewBearerTokenMiddleware(tokenStore, userStore, log),
					Projects:    projectStore,
					Links:       svc,
					RateLimiter: ratelimit.New(cfg.RateLimit.Rate, cfg.RateLimit.Burst),
					Logger:      log,
					QRBaseURL:   cfg.Links.QRBaseURL,
				},
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening",
					zap.String("addr", cfg.HTTP.Addr),
					zap.String("version", build.String()),
					zap.String("default_domain", cfg.Links.DefaultDomain))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
