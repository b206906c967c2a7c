package song

import (
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// lyricsPreviewRunes bounds the lyrics excerpt in reports.
	lyricsPreviewRunes = 50

	// base64PreviewBytes bounds the audio excerpt in inline reports. The
	// excerpt is diagnostic only and never a decodable artifact.
	base64PreviewBytes = 100
)

// Song is a fully synthesized audio buffer together with the lyrics the
// caller originally supplied. Lyrics holds the raw input, not the
// normalized form, so previews show what the caller typed.
type Song struct {
	Lyrics string
	Audio  []byte
}

// Report renders the inline success report with a truncated base64
// preview of the audio.
func (s *Song) Report() string {
	encoded := base64.StdEncoding.EncodeToString(s.Audio)
	return fmt.Sprintf("✅ Song generated!\n🎵 Lyrics: %s...\n📊 Size: %d bytes\n🔗 Audio: data:audio/mpeg;base64,%s...",
		previewRunes(s.Lyrics, lyricsPreviewRunes), len(s.Audio), prefixBytes(encoded, base64PreviewBytes))
}

// SongFile describes a song written to disk.
type SongFile struct {
	Lyrics string
	Path   string
	Size   int64
}

// Report renders the file success report.
func (f *SongFile) Report() string {
	return fmt.Sprintf("✅ Song generated!\n🎵 Lyrics: %s...\n📊 Size: %d bytes\n📁 Saved to: %s",
		previewRunes(f.Lyrics, lyricsPreviewRunes), f.Size, f.Path)
}

// FailureText converts a pipeline error into the failure string handed
// back over the tool boundary. Every failure is reported as text; no
// structured error crosses to the caller.
func FailureText(err error) string {
	if errors.Is(err, ErrNotConfigured) {
		return "❌ Error: ELEVENLABS_API_KEY not configured"
	}
	return "❌ Error: " + err.Error()
}

// previewRunes returns at most n runes of s. Truncation is rune-aware
// so multi-byte lyrics never produce a broken excerpt.
func previewRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// prefixBytes returns at most n bytes of s. Base64 text is ASCII, so
// byte slicing is safe here.
func prefixBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
