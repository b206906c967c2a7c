// Package doctor provides environment preflight checks for songmcp.
package doctor

import (
	"fmt"
	"io"
	"os"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// StatusFunc returns a short status string or an error if the component
// is unavailable.
type StatusFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// APIKeyPresent reports whether an ElevenLabs credential is configured.
	APIKeyPresent bool
	// UpstreamStatus returns a short summary of the ElevenLabs API state,
	// typically the number of reachable voices.
	UpstreamStatus StatusFunc
	// SkipUpstream skips the ElevenLabs connectivity check (offline mode).
	SkipUpstream bool
	// TempDir is the directory song files are written to.
	TempDir string
	// ContactNumber is the configured validate-tool response.
	ContactNumber string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- elevenlabs credential --------------------------------------------
	if cfg.APIKeyPresent {
		fmt.Fprintf(w, "%s elevenlabs api key: configured\n", PassMark)
	} else {
		res.fail("elevenlabs api key: not configured")
		fmt.Fprintf(w, "%s elevenlabs api key: not configured\n", FailMark)
	}

	// ---- elevenlabs connectivity ------------------------------------------
	if cfg.SkipUpstream {
		fmt.Fprintf(w, "%s elevenlabs api: skipped\n", PassMark)
	} else {
		status, err := cfg.UpstreamStatus()
		if err != nil {
			res.fail(fmt.Sprintf("elevenlabs api: %v", err))
			fmt.Fprintf(w, "%s elevenlabs api: unreachable (%v)\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s elevenlabs api: %s\n", PassMark, status)
		}
	}

	// ---- temp directory ---------------------------------------------------
	if err := checkTempDir(cfg.TempDir); err != nil {
		res.fail(fmt.Sprintf("temp dir %q: %v", cfg.TempDir, err))
		fmt.Fprintf(w, "%s temp dir %s: not writable (%v)\n", FailMark, cfg.TempDir, err)
	} else {
		fmt.Fprintf(w, "%s temp dir writable: %s\n", PassMark, cfg.TempDir)
	}

	// ---- contact number ---------------------------------------------------
	if cfg.ContactNumber != "" {
		fmt.Fprintf(w, "%s contact number: configured\n", PassMark)
	} else {
		fmt.Fprintf(w, "%s contact number: not set\n", PassMark)
	}

	return res
}

// checkTempDir verifies song files can be created in dir by writing and
// removing a probe file.
func checkTempDir(dir string) error {
	f, err := os.CreateTemp(dir, "songmcp-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
