// Command relay runs the message-relay HTTP service (spec.md §4.1):
// room registry, issue_unique_idx/broadcast/subscribe, and a Prometheus
// /metrics endpoint. Entrypoint style grounded on luxfi-consensus's
// cmd/consensus/main.go cobra root command.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/j04n-f/mpc-waas/internal/config"
	"github.com/j04n-f/mpc-waas/internal/logger"
	"github.com/j04n-f/mpc-waas/metrics"
	"github.com/j04n-f/mpc-waas/relay"
	relayhttp "github.com/j04n-f/mpc-waas/relay/http"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "relay",
		Short: "Run the mpc-waas message relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "relay.yaml", "path to the relay's YAML config")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	m := metrics.New()
	r := relay.New(cfg.Relay.RoomTTL.Duration).WithMetrics(m)
	engine := relayhttp.Router(r, m)

	srv := &http.Server{Addr: cfg.Relay.Listen, Handler: engine}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gcTicker := time.NewTicker(cfg.Relay.RoomTTL.Duration / 2)
	defer gcTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-gcTicker.C:
				r.GC()
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("listen", cfg.Relay.Listen).Msg("relay listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("relay shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}
