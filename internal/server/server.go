// Package server exposes the song pipeline as an MCP tool server over
// streamable HTTP, SSE, or stdio.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/example/go-song-mcp/internal/config"
	"github.com/example/go-song-mcp/internal/elevenlabs"
	"github.com/example/go-song-mcp/internal/song"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// SongGenerator runs the song pipeline, inline or to a file.
type SongGenerator interface {
	Generate(ctx context.Context, raw string) (*song.Song, error)
	GenerateFile(ctx context.Context, raw string) (*song.SongFile, error)
}

// VoiceLister reports the voices available upstream. A nil VoiceLister
// means no API credential is configured.
type VoiceLister interface {
	Voices(ctx context.Context) ([]elevenlabs.Voice, error)
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	token    string
	myNumber string
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		token:  "devtoken",
		logger: slog.Default(),
	}
}

// Option configures the MCP toolset.
type Option func(*options)

// WithToken sets the auth token echoed by the health tool.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithContactNumber sets the contact number returned by the validate tool.
func WithContactNumber(number string) Option {
	return func(o *options) { o.myNumber = number }
}

// WithLogger sets the slog.Logger used by the tool handlers.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// Server and transport lifecycle
// ---------------------------------------------------------------------------

// Server runs the MCP toolset over the configured transport.
type Server struct {
	cfg             config.Config
	gen             SongGenerator
	voices          VoiceLister
	log             *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config, gen SongGenerator, voices VoiceLister) *Server {
	return &Server{
		cfg:             cfg,
		gen:             gen,
		voices:          voices,
		log:             slog.Default(),
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithServerLogger overrides the logger used for transport lifecycle and
// tool handler logging.
func (s *Server) WithServerLogger(l *slog.Logger) *Server {
	s.log = l
	return s
}

// Start serves the toolset until ctx is canceled. When the
// streamable-http transport fails to serve, the server retries once over
// SSE on the same address before giving up.
func (s *Server) Start(ctx context.Context) error {
	transport, err := config.NormalizeTransport(s.cfg.Server.Transport)
	if err != nil {
		return err
	}

	m := NewMCP(s.gen, s.voices,
		WithToken(s.cfg.Server.Token),
		WithContactNumber(s.cfg.Contact.MyNumber),
		WithLogger(s.log),
	)

	switch transport {
	case config.TransportStdio:
		s.log.InfoContext(ctx, "serving MCP over stdio")
		return mcpserver.NewStdioServer(m).Listen(ctx, os.Stdin, os.Stdout)
	case config.TransportSSE:
		return s.serveHTTP(ctx, s.httpHandler(m, config.TransportSSE), config.TransportSSE)
	default:
		err := s.serveHTTP(ctx, s.httpHandler(m, config.TransportStreamableHTTP), config.TransportStreamableHTTP)
		if err == nil {
			return nil
		}
		s.log.WarnContext(ctx, "streamable-http transport failed, retrying with sse",
			slog.String("error", err.Error()))
		return s.serveHTTP(ctx, s.httpHandler(m, config.TransportSSE), config.TransportSSE)
	}
}

// httpHandler mounts the MCP transport and the health endpoint on one mux.
// Streamable HTTP is served at /mcp; SSE serves its own /sse and /message
// paths.
func (s *Server) httpHandler(m *mcpserver.MCPServer, transport string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(transport))

	switch transport {
	case config.TransportStreamableHTTP:
		h := mcpserver.NewStreamableHTTPServer(m, mcpserver.WithStateLess(true))
		mux.Handle("/mcp", h)
		mux.Handle("/mcp/", h)
	default:
		mux.Handle("/", mcpserver.NewSSEServer(m))
	}

	return mux
}

func (s *Server) serveHTTP(ctx context.Context, h http.Handler, transport string) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.InfoContext(ctx, "serving MCP over http",
		slog.String("addr", httpServer.Addr),
		slog.String("transport", transport),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func healthHandler(transport string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"version":   buildVersion(),
			"transport": transport,
		})
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
