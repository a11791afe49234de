package wav

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"testing"
)

func TestEncodeHeader(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00}
	out := Encode(pcm, 24000)

	if len(out) != 44+len(pcm) {
		t.Fatalf("length = %d, want %d", len(out), 44+len(pcm))
	}
	if !bytes.Equal(out[0:4], []byte("RIFF")) {
		t.Errorf("missing RIFF magic: %q", out[0:4])
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("chunk size = %d, want %d", got, 36+len(pcm))
	}
	if !bytes.Equal(out[8:12], []byte("WAVE")) || !bytes.Equal(out[12:16], []byte("fmt ")) {
		t.Errorf("bad WAVE/fmt markers: %q %q", out[8:12], out[12:16])
	}
	if got := binary.LittleEndian.Uint16(out[20:22]); got != 1 {
		t.Errorf("audio format = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(out[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 48000 {
		t.Errorf("byte rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint16(out[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(out[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if !bytes.Equal(out[36:40], []byte("data")) {
		t.Errorf("missing data marker: %q", out[36:40])
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data length = %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(out[44:], pcm) {
		t.Error("PCM payload not copied verbatim")
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	out := Encode(nil, 16000)
	if len(out) != 44 {
		t.Errorf("length = %d, want bare 44-byte header", len(out))
	}
}

func TestDecodeBase64(t *testing.T) {
	raw := []byte{0x10, 0x20, 0x30}
	decoded, err := DecodeBase64(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Errorf("decoded = %v, want %v", decoded, raw)
	}

	if _, err := DecodeBase64("!!not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestSampleRateFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want int
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000},
		{"audio/L16;rate=8000", 8000},
		{"audio/L16", DefaultSampleRate},
		{"", DefaultSampleRate},
	}
	for _, tt := range tests {
		if got := SampleRateFromMIME(tt.mime); got != tt.want {
			t.Errorf("SampleRateFromMIME(%q) = %d, want %d", tt.mime, got, tt.want)
		}
	}
}
