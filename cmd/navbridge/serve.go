package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	naverrors "github.com/vango-dev/navbridge/internal/errors"
	"github.com/vango-dev/navbridge/pkg/server"
)

func serveCmd(flags *configFlags) *cobra.Command {
	var (
		addr      string
		dropStale bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket bridge server",
		Long: `Serve the route table to remote hosts.

Endpoints:
  GET /healthz        liveness
  GET /routes         compiled route tree
  GET /resolve?url=   resolve one URL
  GET /ws             navigation bridge over WebSocket
  GET /metrics        Prometheus metrics

Examples:
  navbridge serve
  navbridge serve --addr=:9000 --drop-stale
  navbridge serve --s3-bucket=my-config --s3-key=prod/routes.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := flags.logger(cmd, cfg)
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dropStale {
				cfg.Server.DropStale = true
			}

			srv, err := server.New(cfg.Routes, &server.ServerConfig{
				Address:     cfg.Server.Addr,
				MetricsPath: cfg.Server.MetricsPath,
				DropStale:   cfg.Server.DropStale,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			success(w, "Loaded %d pages from %s", len(cfg.Routes), cfg.Source())
			info(w, "Listening on %s", cfg.Server.Addr)
			if cfg.Server.MetricsPath != "" {
				info(w, "Metrics at %s", cfg.Server.MetricsPath)
			}
			if cfg.Server.DropStale {
				warn(w, "Stale route changes are dropped")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ListenAndServe(ctx); err != nil {
				return naverrors.New("E301").WithWhere(cfg.Server.Addr).Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&dropStale, "drop-stale", false, "Deliver only the latest navigation per connection")

	return cmd
}
