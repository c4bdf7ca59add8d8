package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Synthesizer converts a phrase to MP3 audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice, speed Speed) ([]byte, error)
}

// ErrUnavailable is returned when no synthesizer is configured
var ErrUnavailable = errors.New("speech synthesis unavailable")

const (
	ttsRequestTimeout = 10 * time.Second
	translateTTSURL   = "https://translate.google.com/translate_tts"
	maxTranslateChars = 200
)

// TranslateSynthesizer uses Google Translate's text-to-speech endpoint.
// It needs no API key but offers one voice per language and no gender.
type TranslateSynthesizer struct {
	baseURL string
	client  *http.Client
}

// NewTranslateSynthesizer creates a synthesizer against the public endpoint
func NewTranslateSynthesizer() *TranslateSynthesizer {
	return &TranslateSynthesizer{
		baseURL: translateTTSURL,
		client:  &http.Client{Timeout: ttsRequestTimeout},
	}
}

// Synthesize fetches MP3 audio for text
func (s *TranslateSynthesizer) Synthesize(ctx context.Context, text string, voice Voice, speed Speed) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty phrase")
	}
	if len(text) > maxTranslateChars {
		return nil, fmt.Errorf("phrase longer than %d characters", maxTranslateChars)
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", translateLang(voice))
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len(text)))
	if speed.Rate > 0 && speed.Rate < 1 {
		params.Set("ttsspeed", strconv.FormatFloat(speed.Rate, 'f', 2, 64))
	}

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent (required by Google)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	return data, nil
}

func translateLang(v Voice) string {
	if v.LanguageCode == "en-GB" {
		return "en-GB"
	}
	return "en"
}
