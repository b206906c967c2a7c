package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/example/go-song-mcp/internal/song"
)

const serverName = "song generator"

// toolDescription is the structured description published with the music
// tools. Clients receive it as a JSON blob in the tool metadata.
type toolDescription struct {
	Description string `json:"description"`
	UseWhen     string `json:"use_when"`
	SideEffects string `json:"side_effects,omitempty"`
}

func (d toolDescription) String() string {
	b, _ := json.Marshal(d)
	return string(b)
}

var (
	songBase64Description = toolDescription{
		Description: "Music tool: generates music and sing for you by given lyrics.",
		UseWhen:     "Use this to generate song",
		SideEffects: "Returns song audio",
	}

	songFileDescription = toolDescription{
		Description: "Music tool: generates music and sing for you by given lyrics, saved to an MP3 file.",
		UseWhen:     "Use this to generate song as a file on disk",
		SideEffects: "Writes an MP3 file to the temp directory",
	}
)

// toolset bundles the dependencies the MCP tool handlers close over.
type toolset struct {
	gen      SongGenerator
	voices   VoiceLister
	token    string
	myNumber string
	log      *slog.Logger
}

// NewMCP assembles the MCP server and registers the song tools on it.
func NewMCP(gen SongGenerator, voices VoiceLister, optFns ...Option) *mcpserver.MCPServer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	ts := &toolset{
		gen:      gen,
		voices:   voices,
		token:    opts.token,
		myNumber: opts.myNumber,
		log:      opts.logger,
	}

	m := mcpserver.NewMCPServer(serverName, buildVersion(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	m.AddTool(mcp.NewTool("generate_song_base64",
		mcp.WithDescription(songBase64Description.String()),
		mcp.WithString("lyrics", mcp.Required(), mcp.Description("lyrics of the song")),
	), ts.generateSongBase64)

	m.AddTool(mcp.NewTool("generate_song_file",
		mcp.WithDescription(songFileDescription.String()),
		mcp.WithString("lyrics", mcp.Required(), mcp.Description("lyrics of the song")),
	), ts.generateSongFile)

	m.AddTool(mcp.NewTool("test_elevenlabs_connection",
		mcp.WithDescription("Checks connectivity to the ElevenLabs API by listing available voices."),
	), ts.testConnection)

	m.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Returns the configured contact number."),
	), ts.validate)

	m.AddTool(mcp.NewTool("health",
		mcp.WithDescription("Reports that the song generator is running."),
	), ts.health)

	return m
}

func (t *toolset) generateSongBase64(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lyricsArg, err := req.RequireString("lyrics")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	callID := uuid.NewString()
	t.log.InfoContext(ctx, "generating song",
		slog.String("tool", "generate_song_base64"),
		slog.String("call_id", callID),
		slog.Int("lyrics_len", len(lyricsArg)),
	)

	start := time.Now()
	s, err := t.gen.Generate(ctx, lyricsArg)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		t.log.ErrorContext(ctx, "song generation failed",
			slog.String("tool", "generate_song_base64"),
			slog.String("call_id", callID),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		return mcp.NewToolResultText(song.FailureText(err)), nil
	}

	t.log.InfoContext(ctx, "song generated",
		slog.String("tool", "generate_song_base64"),
		slog.String("call_id", callID),
		slog.Int64("duration_ms", durationMS),
		slog.Int("audio_bytes", len(s.Audio)),
	)

	return mcp.NewToolResultText(s.Report()), nil
}

func (t *toolset) generateSongFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lyricsArg, err := req.RequireString("lyrics")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	callID := uuid.NewString()
	t.log.InfoContext(ctx, "generating song file",
		slog.String("tool", "generate_song_file"),
		slog.String("call_id", callID),
		slog.Int("lyrics_len", len(lyricsArg)),
	)

	start := time.Now()
	f, err := t.gen.GenerateFile(ctx, lyricsArg)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		t.log.ErrorContext(ctx, "song file generation failed",
			slog.String("tool", "generate_song_file"),
			slog.String("call_id", callID),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		return mcp.NewToolResultText(song.FailureText(err)), nil
	}

	t.log.InfoContext(ctx, "song file generated",
		slog.String("tool", "generate_song_file"),
		slog.String("call_id", callID),
		slog.Int64("duration_ms", durationMS),
		slog.String("path", f.Path),
		slog.Int64("size_bytes", f.Size),
	)

	return mcp.NewToolResultText(f.Report()), nil
}

func (t *toolset) testConnection(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.voices == nil {
		return mcp.NewToolResultText(song.FailureText(song.ErrNotConfigured)), nil
	}

	voices, err := t.voices.Voices(ctx)
	if err != nil {
		t.log.WarnContext(ctx, "connection test failed", slog.String("error", err.Error()))
		return mcp.NewToolResultText(song.FailureText(fmt.Errorf("%w: %v", song.ErrUpstreamUnreachable, err))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ ElevenLabs connection OK!\n🎤 Voices available: %d", len(voices))), nil
}

func (t *toolset) validate(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.myNumber == "" {
		return mcp.NewToolResultText("No phone number configured"), nil
	}
	return mcp.NewToolResultText(t.myNumber), nil
}

func (t *toolset) health(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(fmt.Sprintf("🎵 MCP Song Generator is running! Token: %s", t.token)), nil
}
