package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/go-song-mcp/internal/config"
	"github.com/example/go-song-mcp/internal/elevenlabs"
	"github.com/example/go-song-mcp/internal/server"
	"github.com/example/go-song-mcp/internal/song"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "songmcp",
		Short: "Song generator MCP command line",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSynthCmd())
	cmd.AddCommand(newVoicesCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Server.Port == 0 {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// newSynthClient builds an ElevenLabs client from the loaded configuration.
// It returns nil when no API key is set.
func newSynthClient(cfg config.Config) *elevenlabs.Client {
	if cfg.ElevenLabs.APIKey == "" {
		return nil
	}
	return elevenlabs.NewClient(cfg.ElevenLabs.APIKey,
		elevenlabs.WithBaseURL(cfg.ElevenLabs.BaseURL),
		elevenlabs.WithVoice(cfg.ElevenLabs.Voice),
		elevenlabs.WithModel(cfg.ElevenLabs.Model),
		elevenlabs.WithTimeout(cfg.ElevenLabs.Timeout()),
	)
}

// newGenerator wires the song pipeline for the given client. A nil *Client
// must stay a nil Synthesizer so the pipeline reports the missing credential.
func newGenerator(cfg config.Config, client *elevenlabs.Client) *song.Generator {
	var opts []song.Option
	if cfg.ElevenLabs.Preflight && client != nil {
		opts = append(opts, song.WithPreflight(client))
	}
	if client == nil {
		return song.NewGenerator(nil, opts...)
	}
	return song.NewGenerator(client, opts...)
}
