package song

import "errors"

// Static errors of the generation pipeline. Every failure is terminal;
// nothing in the pipeline retries.
var (
	// ErrNotConfigured is returned when no upstream client was
	// constructed, which happens when the API key is absent.
	ErrNotConfigured = errors.New("elevenlabs api key not configured")

	// ErrUpstreamUnreachable is returned when the pre-flight probe fails.
	ErrUpstreamUnreachable = errors.New("elevenlabs api is unreachable")

	// ErrEmptyAudio is returned when synthesis succeeds but yields zero bytes.
	ErrEmptyAudio = errors.New("synthesis produced no audio")

	// ErrFileVerification is returned when a written audio file cannot be
	// confirmed on disk afterwards.
	ErrFileVerification = errors.New("audio file failed post-write verification")
)

// GenerationError is an upstream synthesis failure, bucketed by Kind for
// reporting. Kind is one of APIError, RequestError, Timeout, Canceled,
// or Error.
type GenerationError struct {
	Kind    string
	Message string
	Err     error
}

func (e *GenerationError) Error() string { return e.Kind + ": " + e.Message }

func (e *GenerationError) Unwrap() error { return e.Err }
