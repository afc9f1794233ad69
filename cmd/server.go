package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/partscope/internal/dashboard"
	"github.com/ziadkadry99/partscope/internal/dispatch"
	"github.com/ziadkadry99/partscope/internal/inflight"
	"github.com/ziadkadry99/partscope/internal/server"
	"github.com/ziadkadry99/partscope/internal/status"
)

var (
	serverPort         int
	serverSecureCookie bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the catalog assistant web server",
	Long:  `Starts the partscope web server: the htmx query page, status and key management, the component detail page and a health check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		svc, err := newServices(cfg)
		if err != nil {
			return err
		}
		defer svc.db.Close()

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowAll:       cfg.AllowAllOrigins,
			RequestTimeout: cfg.DispatchTimeout() + 15*time.Second,
		}, svc.db)

		dash := dashboard.New(dashboard.Config{
			Store:           svc.store,
			Catalog:         svc.catalog,
			Chat:            svc.chat,
			Validator:       svc.openrouter,
			Prober:          status.NewProber(svc.catalog, cfg.ProbeTTL(), 0),
			Renderer:        svc.renderer,
			Tracker:         inflight.New(cfg.ReleaseAfter()),
			KeyPrefix:       cfg.Key.Prefix,
			HistoryLimit:    cfg.History.Limit,
			HistoryShown:    cfg.History.Shown,
			Policy:          dispatch.HistoryPolicy{RecordFailures: cfg.History.RecordFailures},
			DispatchTimeout: cfg.DispatchTimeout(),
			SecureCookie:    serverSecureCookie,
			FilterTarget:    cfg.FilterTarget(),
		})
		dash.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "partscope server %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", svc.db.Path())
		fmt.Fprintf(os.Stderr, "  Search backend: %s\n", svc.catalog.BaseURL())
		fmt.Fprintf(os.Stderr, "  Chat model: %s\n", cfg.Chat.Model)

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown failed", "error", err)
				return err
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	serverCmd.Flags().BoolVar(&serverSecureCookie, "secure-cookie", false, "Mark the session cookie Secure (behind HTTPS)")
	rootCmd.AddCommand(serverCmd)
}
