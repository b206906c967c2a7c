package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/go-song-mcp/internal/config"
	"github.com/example/go-song-mcp/internal/doctor"
	"github.com/example/go-song-mcp/internal/elevenlabs"
)

func newDoctorCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check credentials, upstream reachability, and the temp dir",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			client := newSynthClient(cfg)

			dcfg := doctor.Config{
				APIKeyPresent: client != nil,
				SkipUpstream:  offline || client == nil,
				TempDir:       os.TempDir(),
				ContactNumber: cfg.Contact.MyNumber,
			}
			if client != nil {
				dcfg.UpstreamStatus = func() (string, error) {
					return probeUpstreamVoices(cmd.Context(), client)
				}
			}

			result := doctor.Run(dcfg, os.Stdout)

			// Transport sanity as an additional check; Run covers the
			// environment, not the serving configuration.
			reportTransport(&result, cfg.Server.Transport, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					_, _ = fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}
				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip checks that reach the ElevenLabs API")

	return cmd
}

// probeUpstreamVoices lists voices and summarizes the result for the doctor
// report.
func probeUpstreamVoices(ctx context.Context, client *elevenlabs.Client) (string, error) {
	voices, err := client.Voices(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d voices", len(voices)), nil
}

// reportTransport prints a transport-sanity line and records a failure
// when the configured name does not normalize.
func reportTransport(result *doctor.Result, raw string, w io.Writer) {
	transport, err := config.NormalizeTransport(raw)
	if err != nil {
		result.AddFailure(fmt.Sprintf("transport: %v", err))
		_, _ = fmt.Fprintf(w, "%s transport: %v\n", doctor.FailMark, err)
		return
	}
	_, _ = fmt.Fprintf(w, "%s transport: %s\n", doctor.PassMark, transport)
}
