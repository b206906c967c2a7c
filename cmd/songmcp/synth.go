package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-song-mcp/internal/song"
)

func newSynthCmd() *cobra.Command {
	var (
		lyricsFlag string
		out        string
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a song from lyrics without starting the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			lyricsText, err := readLyrics(lyricsFlag, os.Stdin)
			if err != nil {
				return err
			}

			client := newSynthClient(cfg)
			gen := newGenerator(cfg, client)

			if out == "" {
				f, err := gen.GenerateFile(cmd.Context(), lyricsText)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(os.Stdout, f.Report())
				return err
			}

			s, err := gen.Generate(cmd.Context(), lyricsText)
			if err != nil {
				return err
			}

			return writeSynthOutput(out, s, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&lyricsFlag, "lyrics", "", "Lyrics to sing (reads stdin when omitted)")
	cmd.Flags().StringVar(&out, "out", "", "Output MP3 path, - for stdout (default writes a timestamped file to the temp dir)")

	return cmd
}

// readLyrics returns the flag text when present, otherwise the trimmed
// contents of stdin.
func readLyrics(lyricsFlag string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(lyricsFlag) != "" {
		return lyricsFlag, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", fmt.Errorf("either provide --lyrics or pipe lyrics on stdin")
	}
	return input, nil
}

// writeSynthOutput streams the audio to stdout when outPath is "-",
// otherwise writes it to outPath and prints the inline report.
func writeSynthOutput(outPath string, s *song.Song, stdout io.Writer) error {
	if outPath == "-" {
		_, err := stdout.Write(s.Audio)
		return err
	}

	if err := os.WriteFile(outPath, s.Audio, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	_, err := fmt.Fprintln(stdout, s.Report())
	return err
}
