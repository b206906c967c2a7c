// Package testutil provides shared skip helpers for integration tests.
//
// Each helper calls t.Skip with a clear human-readable reason when the
// named prerequisite is absent, so integration tests remain runnable in
// partial environments without failing noisily.
//
// Typical usage:
//
//	func TestMyIntegration(t *testing.T) {
//	    key := testutil.RequireAPIKey(t)
//	    ...
//	}
package testutil

import (
	"os"
	"testing"
)

// RequireAPIKey skips the test if no ElevenLabs API key is configured in
// the environment, and returns the key otherwise. Both the bare and the
// prefixed variable names are honored, matching the config loader.
func RequireAPIKey(tb testing.TB) string {
	tb.Helper()

	for _, env := range []string{"SONGMCP_ELEVENLABS_API_KEY", "ELEVENLABS_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	tb.Skip("ElevenLabs API key not available; set ELEVENLABS_API_KEY to run live API tests")
	return ""
}

// RequireNetwork skips the test when SONGMCP_SKIP_NETWORK_TESTS is set.
// CI environments without outbound network access set this to keep the
// suite green.
func RequireNetwork(tb testing.TB) {
	tb.Helper()

	if os.Getenv("SONGMCP_SKIP_NETWORK_TESTS") != "" {
		tb.Skip("network tests disabled by SONGMCP_SKIP_NETWORK_TESTS")
	}
}
