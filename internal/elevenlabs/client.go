// Package elevenlabs is a minimal client for the ElevenLabs
// text-to-speech HTTP API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public ElevenLabs API endpoint.
	DefaultBaseURL = "https://api.elevenlabs.io"

	// DefaultVoiceID is the "Rachel" premade voice.
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

	// DefaultModelID is the multilingual v2 model.
	DefaultModelID = "eleven_multilingual_v2"

	// outputFormat is requested on every synthesis call.
	outputFormat = "mp3_44100_128"

	// Voice settings applied to every synthesis call.
	voiceStability       = 0.5
	voiceSimilarityBoost = 0.75
	voiceStyle           = 0.5

	defaultTimeout = 30 * time.Second
)

// ErrEmptyText is returned when Synthesize is called with empty text.
var ErrEmptyText = errors.New("text is empty")

// Client talks to the ElevenLabs API. It is safe for concurrent use
// after construction.
type Client struct {
	apiKey     string
	baseURL    string
	voiceID    string
	modelID    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests and proxies.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithVoice overrides the voice ID used for synthesis.
func WithVoice(id string) Option {
	return func(c *Client) { c.voiceID = id }
}

// WithModel overrides the model ID used for synthesis.
func WithModel(id string) Option {
	return func(c *Client) { c.modelID = id }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient returns a client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		voiceID:    DefaultVoiceID,
		modelID:    DefaultModelID,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-200 response from the ElevenLabs API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("elevenlabs api error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("elevenlabs api error %d: %s", e.StatusCode, e.Message)
}

// synthesisRequest is the request body for the text-to-speech endpoint.
type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesize converts text to MP3 audio. The chunked response body is
// drained completely before returning, so callers always receive either
// the full buffer or an error, never a partial one.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	body := synthesisRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: voiceSettings{
			Stability:       voiceStability,
			SimilarityBoost: voiceSimilarityBoost,
			Style:           voiceStyle,
			UseSpeakerBoost: true,
		},
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", c.baseURL, c.voiceID, outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesis response: %w", err)
	}
	return audio, nil
}

// Voice is one entry from the voices listing.
type Voice struct {
	ID       string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

// Voices lists the voices available to the configured API key.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create voices request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var vr voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode voices response: %w", err)
	}
	return vr.Voices, nil
}

// Probe checks API reachability by listing voices and discarding the
// payload. It is the pre-flight connectivity check.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Voices(ctx)
	return err
}

// apiErrorResponse is the JSON error envelope the API returns.
type apiErrorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// decodeAPIError reads a non-200 response into an *APIError. Bodies that
// are not the expected JSON envelope are reported raw.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var envelope apiErrorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Detail.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     envelope.Detail.Status,
			Message:    envelope.Detail.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(bytes.TrimSpace(raw)),
	}
}
