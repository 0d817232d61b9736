package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/walletkun/jobapp-tracker/internal/handlers"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracker web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.ListenAddr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (overrides TRACKER_LISTEN_ADDR)")
	return c
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Development() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := handlers.NewTrackerHandler(a.tracker, a.log)
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           handlers.NewRouter(handler, a.log, a.cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if _, err := a.tracker.FetchApplications(ctx); err != nil {
		a.log.Warn("initial fetch failed", zap.Error(err))
	}
	go a.tracker.Watch(ctx, a.cfg.RefreshInterval)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("tracker listening",
			zap.String("addr", a.cfg.ListenAddr),
			zap.String("api", a.cfg.APIURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
