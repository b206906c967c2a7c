package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List ElevenLabs voices available to the configured key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			client := newSynthClient(cfg)
			if client == nil {
				return errors.New("ELEVENLABS_API_KEY not configured")
			}

			voices, err := client.Voices(cmd.Context())
			if err != nil {
				return err
			}

			for _, v := range voices {
				_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", v.ID, v.Name, v.Category)
			}
			return nil
		},
	}

	return cmd
}
