package testutil

import (
	"errors"
	"testing"
)

// AssertValidMP3 checks that data looks like an MPEG audio stream as
// returned by the synthesis API: an optional ID3v2 tag followed by a
// frame whose header carries a valid layer, bitrate, and sample rate.
func AssertValidMP3(tb testing.TB, data []byte) {
	tb.Helper()

	offset, err := findFrameSync(data)
	if err != nil {
		tb.Fatalf("MP3: %v", err)
	}

	header := data[offset : offset+4]

	layer := (header[1] >> 1) & 0x3
	if layer == 0 {
		tb.Fatalf("MP3: reserved layer in frame header at offset %d", offset)
	}

	bitrate := (header[2] >> 4) & 0xF
	if bitrate == 0xF {
		tb.Fatalf("MP3: invalid bitrate index in frame header at offset %d", offset)
	}

	sampleRate := (header[2] >> 2) & 0x3
	if sampleRate == 0x3 {
		tb.Fatalf("MP3: reserved sample rate in frame header at offset %d", offset)
	}
}

// findFrameSync returns the offset of the first MPEG frame header,
// skipping a leading ID3v2 tag when present.
func findFrameSync(data []byte) (int, error) {
	offset := 0

	if len(data) >= 10 && string(data[0:3]) == "ID3" {
		// ID3v2 size is a 4-byte syncsafe integer after the 6-byte preamble.
		size := int(data[6]&0x7F)<<21 | int(data[7]&0x7F)<<14 | int(data[8]&0x7F)<<7 | int(data[9]&0x7F)
		offset = 10 + size
	}

	if offset+4 > len(data) {
		return 0, errors.New("stream too short for a frame header")
	}

	if data[offset] != 0xFF || data[offset+1]&0xE0 != 0xE0 {
		return 0, errors.New("frame sync not found")
	}

	return offset, nil
}
