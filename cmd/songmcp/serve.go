package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-song-mcp/internal/config"
	"github.com/example/go-song-mcp/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the song generator MCP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if _, err := config.NormalizeTransport(cfg.Server.Transport); err != nil {
				return err
			}

			client := newSynthClient(cfg)
			gen := newGenerator(cfg, client)

			var voices server.VoiceLister
			if client != nil {
				voices = client
			}

			slog.Info("starting song generator",
				slog.String("addr", cfg.Server.Addr()),
				slog.String("transport", cfg.Server.Transport),
				slog.Bool("api_key_configured", client != nil),
				slog.Bool("contact_number_set", cfg.Contact.MyNumber != ""),
				slog.String("token", cfg.Server.Token),
			)

			srv := server.New(cfg, gen, voices).
				WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	defaults := config.DefaultConfig()
	config.RegisterFlags(cmd.Flags(), defaults)

	return cmd
}
