package testutil_test

import (
	"testing"

	"github.com/example/go-song-mcp/internal/testutil"
)

func TestRequireAPIKey_ReturnsKeyWhenSet(t *testing.T) {
	t.Setenv("SONGMCP_ELEVENLABS_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "from-env")

	got := testutil.RequireAPIKey(t)
	if got != "from-env" {
		t.Errorf("RequireAPIKey = %q; want %q", got, "from-env")
	}
}

func TestRequireAPIKey_PrefersPrefixedVariable(t *testing.T) {
	t.Setenv("SONGMCP_ELEVENLABS_API_KEY", "prefixed")
	t.Setenv("ELEVENLABS_API_KEY", "bare")

	got := testutil.RequireAPIKey(t)
	if got != "prefixed" {
		t.Errorf("RequireAPIKey = %q; want %q", got, "prefixed")
	}
}

func TestRequireAPIKey_SkipsWhenAbsent(t *testing.T) {
	t.Setenv("SONGMCP_ELEVENLABS_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	testutil.RequireAPIKey(fakeT)
	if !skipped {
		t.Error("expected RequireAPIKey to skip when no key is configured")
	}
}

func TestRequireNetwork_SkipsWhenDisabled(t *testing.T) {
	t.Setenv("SONGMCP_SKIP_NETWORK_TESTS", "1")

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	testutil.RequireNetwork(fakeT)
	if !skipped {
		t.Error("expected RequireNetwork to skip when disabled")
	}
}

// skipTracker is a minimal testing.TB implementation that intercepts Skip calls.
type skipTracker struct {
	testing.TB
	onSkip func()
}

func (s *skipTracker) Helper() {}

func (s *skipTracker) Skip(_ ...any) {
	s.onSkip()
	// Do NOT call s.TB.Skip, that would actually skip the outer test.
}
