package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2/google"
)

const (
	cloudTTSURL   = "https://texttospeech.googleapis.com/v1/text:synthesize"
	cloudTTSScope = "https://www.googleapis.com/auth/cloud-platform"
)

// CloudSynthesizer calls Google Cloud Text-to-Speech. Requests are
// authorized by API key when one is set, otherwise by application default
// credentials.
type CloudSynthesizer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewCloudSynthesizer builds a client. With an empty apiKey it looks up
// default Google credentials and fails if none are available.
func NewCloudSynthesizer(ctx context.Context, apiKey string) (*CloudSynthesizer, error) {
	s := &CloudSynthesizer{endpoint: cloudTTSURL, apiKey: apiKey}
	if apiKey != "" {
		s.client = &http.Client{Timeout: ttsRequestTimeout}
		return s, nil
	}

	client, err := google.DefaultClient(ctx, cloudTTSScope)
	if err != nil {
		return nil, fmt.Errorf("failed to load Google credentials: %w", err)
	}
	client.Timeout = ttsRequestTimeout
	s.client = client
	return s, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
	} `json:"audioConfig"`
}

// Synthesize requests MP3 audio for text
func (s *CloudSynthesizer) Synthesize(ctx context.Context, text string, voice Voice, speed Speed) ([]byte, error) {
	var body synthesizeRequest
	body.Input.Text = text
	body.Voice.LanguageCode = voice.LanguageCode
	body.Voice.SSMLGender = voice.Gender
	body.AudioConfig.AudioEncoding = "MP3"
	body.AudioConfig.SpeakingRate = speed.Rate

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := s.endpoint
	if s.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(s.apiKey)
	}

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio, nil
}
