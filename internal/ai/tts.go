package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/glucolog/glucolog/internal/apperrors"
	"github.com/glucolog/glucolog/internal/retry"
	"github.com/glucolog/glucolog/internal/wav"
)

const (
	ttsModel      = "gemini-2.5-flash-preview-tts"
	ttsVoice      = "Rasalgethi"
	defaultTTSURL = "https://generativelanguage.googleapis.com/v1beta"
)

// TTSClient synthesizes speech through the generative-language REST
// endpoint. The SDK has no audio modality, so this one call stays on plain
// HTTP.
type TTSClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryOpts  []retry.Option
}

// NewTTSClient creates a speech client.
func NewTTSClient(apiKey string) *TTSClient {
	return &TTSClient{
		apiKey:     apiKey,
		baseURL:    defaultTTSURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type ttsRequest struct {
	Contents         []ttsContent        `json:"contents"`
	GenerationConfig ttsGenerationConfig `json:"generationConfig"`
}

type ttsContent struct {
	Parts []ttsPart `json:"parts"`
}

type ttsPart struct {
	Text string `json:"text"`
}

type ttsGenerationConfig struct {
	ResponseModalities []string        `json:"responseModalities"`
	SpeechConfig       ttsSpeechConfig `json:"speechConfig"`
}

type ttsSpeechConfig struct {
	VoiceConfig ttsVoiceConfig `json:"voiceConfig"`
}

type ttsVoiceConfig struct {
	PrebuiltVoiceConfig ttsPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type ttsPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type ttsResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Synthesize converts text to a playable WAV file. The HTTP round trip goes
// through the retry wrapper; a response without inline audio is terminal.
func (c *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := ttsRequest{
		Contents: []ttsContent{{Parts: []ttsPart{{Text: text}}}},
		GenerationConfig: ttsGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: ttsSpeechConfig{
				VoiceConfig: ttsVoiceConfig{
					PrebuiltVoiceConfig: ttsPrebuiltVoice{VoiceName: ttsVoice},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, ttsModel, c.apiKey)

	raw, err := retry.Do(ctx, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("TTS API error: %d %s", resp.StatusCode, resp.Status)
		}
		return data, nil
	}, c.retryOpts...)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "gemini-tts")
	}

	var parsed ttsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.NewDataShapeError("TTS response is not valid JSON")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	inline := parsed.Candidates[0].Content.Parts[0].InlineData
	if inline.Data == "" || !strings.HasPrefix(inline.MimeType, "audio/") {
		return nil, apperrors.NewDataShapeError("TTS response carries no inline audio")
	}

	pcm, err := wav.DecodeBase64(inline.Data)
	if err != nil {
		return nil, apperrors.NewDataShapeError("TTS audio payload is not valid base64")
	}
	return wav.Encode(pcm, wav.SampleRateFromMIME(inline.MimeType)), nil
}
