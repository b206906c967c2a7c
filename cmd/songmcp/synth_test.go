package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-song-mcp/internal/song"
)

func TestReadLyrics(t *testing.T) {
	t.Run("uses flag text", func(t *testing.T) {
		got, err := readLyrics("hello", strings.NewReader("ignored"))
		if err != nil {
			t.Fatalf("readLyrics returned error: %v", err)
		}
		if got != "hello" {
			t.Fatalf("expected hello, got %q", got)
		}
	})

	t.Run("falls back to stdin", func(t *testing.T) {
		got, err := readLyrics("", strings.NewReader(" from stdin \n"))
		if err != nil {
			t.Fatalf("readLyrics returned error: %v", err)
		}
		if got != "from stdin" {
			t.Fatalf("expected trimmed stdin text, got %q", got)
		}
	})

	t.Run("fails when both empty", func(t *testing.T) {
		_, err := readLyrics("", strings.NewReader("   \n\t"))
		if err == nil {
			t.Fatal("expected error for empty input")
		}
	})
}

func TestWriteSynthOutput_Stdout(t *testing.T) {
	s := &song.Song{Lyrics: "hello", Audio: []byte{0x49, 0x44, 0x33}}

	var stdout bytes.Buffer
	if err := writeSynthOutput("-", s, &stdout); err != nil {
		t.Fatalf("writeSynthOutput stdout returned error: %v", err)
	}
	if !bytes.Equal(stdout.Bytes(), s.Audio) {
		t.Fatalf("expected raw audio bytes on stdout, got %v", stdout.Bytes())
	}
}

func TestWriteSynthOutput_File(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mp3")
	s := &song.Song{Lyrics: "hello", Audio: []byte("mp3-bytes")}

	var stdout bytes.Buffer
	if err := writeSynthOutput(out, s, &stdout); err != nil {
		t.Fatalf("writeSynthOutput file returned error: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if !bytes.Equal(got, s.Audio) {
		t.Fatalf("unexpected file contents: %q", got)
	}
	if want := s.Report() + "\n"; stdout.String() != want {
		t.Errorf("unexpected report output: got %q want %q", stdout.String(), want)
	}
}

func TestWriteSynthOutput_FileError(t *testing.T) {
	s := &song.Song{Lyrics: "hello", Audio: []byte("mp3-bytes")}

	err := writeSynthOutput(filepath.Join(t.TempDir(), "missing", "out.mp3"), s, nil)
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
