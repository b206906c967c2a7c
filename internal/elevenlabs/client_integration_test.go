package elevenlabs_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/go-song-mcp/internal/elevenlabs"
	"github.com/example/go-song-mcp/internal/testutil"
)

// TestSynthesize_LiveAPI converts a short line against the real API and
// checks the response is an MPEG stream. Requires an API key in the
// environment; skipped otherwise.
func TestSynthesize_LiveAPI(t *testing.T) {
	testutil.RequireNetwork(t)
	key := testutil.RequireAPIKey(t)

	c := elevenlabs.NewClient(key, elevenlabs.WithTimeout(60*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	audio, err := c.Synthesize(ctx, "♪ testing one two ♪")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	testutil.AssertValidMP3(t, audio)
}

// TestVoices_LiveAPI lists voices against the real API. Requires an API
// key in the environment; skipped otherwise.
func TestVoices_LiveAPI(t *testing.T) {
	testutil.RequireNetwork(t)
	key := testutil.RequireAPIKey(t)

	c := elevenlabs.NewClient(key, elevenlabs.WithTimeout(20*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	voices, err := c.Voices(ctx)
	if err != nil {
		t.Fatalf("Voices: %v", err)
	}

	if len(voices) == 0 {
		t.Fatal("want at least one voice from live API, got none")
	}

	for _, v := range voices {
		if v.ID == "" {
			t.Errorf("voice with empty id: %+v", v)
		}
	}
}
