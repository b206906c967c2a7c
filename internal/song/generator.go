// Package song turns free-text lyrics into synthesized audio, inline or
// on disk.
package song

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/example/go-song-mcp/internal/elevenlabs"
	"github.com/example/go-song-mcp/internal/lyrics"
)

// Synthesizer produces audio bytes from prepared lyrics.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Prober checks upstream reachability before synthesis is attempted.
type Prober interface {
	Probe(ctx context.Context) error
}

// Generator runs the song pipeline: prepare lyrics, optionally probe the
// upstream API, synthesize, and assemble the result. A nil Synthesizer
// marks the generator as unconfigured; every call then fails before any
// network traffic.
type Generator struct {
	synth   Synthesizer
	prober  Prober
	tempDir string
}

// Option configures the generator.
type Option func(*Generator)

// WithPreflight enables a connectivity probe before each synthesis call.
func WithPreflight(p Prober) Option {
	return func(g *Generator) { g.prober = p }
}

// WithTempDir overrides the directory song files are written to.
func WithTempDir(dir string) Option {
	return func(g *Generator) { g.tempDir = dir }
}

// NewGenerator returns a generator backed by synth. Passing a nil
// Synthesizer is allowed and yields a generator whose calls all fail
// with ErrNotConfigured.
func NewGenerator(synth Synthesizer, opts ...Option) *Generator {
	g := &Generator{
		synth:   synth,
		tempDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the pipeline and returns the complete audio buffer. The
// configuration check runs first, then lyric preparation, then the
// optional probe, then a single synthesis call; the first failure aborts
// the call.
func (g *Generator) Generate(ctx context.Context, raw string) (*Song, error) {
	if g.synth == nil {
		return nil, ErrNotConfigured
	}

	prepared, err := lyrics.Prepare(raw)
	if err != nil {
		return nil, err
	}

	if g.prober != nil {
		if err := g.prober.Probe(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
		}
	}

	audio, err := g.synth.Synthesize(ctx, prepared)
	if err != nil {
		return nil, &GenerationError{Kind: errorKind(err), Message: err.Error(), Err: err}
	}

	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	return &Song{Lyrics: raw, Audio: audio}, nil
}

// GenerateFile runs Generate and writes the audio to a timestamped MP3
// in the temp directory, verifying the write by re-reading file
// metadata. The file is left in place; cleanup is the host's concern.
func (g *Generator) GenerateFile(ctx context.Context, raw string) (*SongFile, error) {
	s, err := g.Generate(ctx, raw)
	if err != nil {
		return nil, err
	}

	name := "song_" + time.Now().Format("20060102_150405") + ".mp3"
	path := filepath.Join(g.tempDir, name)

	if err := os.WriteFile(path, s.Audio, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s missing after write", ErrFileVerification, path)
	}

	if info.Size() != int64(len(s.Audio)) {
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrFileVerification, path, info.Size(), len(s.Audio))
	}

	return &SongFile{Lyrics: s.Lyrics, Path: path, Size: info.Size()}, nil
}

// errorKind buckets an upstream failure for reporting. Timeouts and
// cancellations are checked before transport errors because the HTTP
// client wraps both in a *url.Error. Unknown causes fall back to the
// generic Error kind.
func errorKind(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}

	if errors.Is(err, context.Canceled) {
		return "Canceled"
	}

	var apiErr *elevenlabs.APIError
	if errors.As(err, &apiErr) {
		return "APIError"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "RequestError"
	}

	return "Error"
}
