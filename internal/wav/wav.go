// Package wav builds RIFF/WAVE containers around raw PCM16 mono audio, as
// returned inline by the speech endpoint.
package wav

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
)

const headerSize = 44

// DefaultSampleRate is assumed when the MIME type carries no rate parameter.
const DefaultSampleRate = 16000

var rateRe = regexp.MustCompile(`rate=(\d+)`)

// Encode wraps little-endian PCM16 mono samples in a WAV container at the
// given sample rate.
func Encode(pcm []byte, sampleRate int) []byte {
	dataLen := len(pcm)
	buf := make([]byte, headerSize+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16)                   // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	copy(buf[headerSize:], pcm)

	return buf
}

// DecodeBase64 decodes the inline base64 audio payload.
func DecodeBase64(data string) ([]byte, error) {
	pcm, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}
	return pcm, nil
}

// SampleRateFromMIME extracts the rate parameter from a MIME type such as
// "audio/L16;codec=pcm;rate=24000", falling back to DefaultSampleRate.
func SampleRateFromMIME(mimeType string) int {
	m := rateRe.FindStringSubmatch(mimeType)
	if m == nil {
		return DefaultSampleRate
	}
	rate, err := strconv.Atoi(m[1])
	if err != nil || rate <= 0 {
		return DefaultSampleRate
	}
	return rate
}
