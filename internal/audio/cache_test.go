package audio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSynth struct {
	calls atomic.Int32
	err   error
}

func (s *countingSynth) Synthesize(_ context.Context, text string, _ Voice, _ Speed) ([]byte, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []byte("mp3:" + text), nil
}

func TestCacheGetSynthesizesOnce(t *testing.T) {
	synth := &countingSynth{}
	cache, err := NewCache(t.TempDir(), synth)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cache.Get(ctx, "Brave. A brave dog.", DefaultVoice(), DefaultSpeed())
	require.NoError(t, err)
	second, err := cache.Get(ctx, "Brave. A brave dog.", DefaultVoice(), DefaultSpeed())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), synth.calls.Load())

	path, err := cache.Path(first)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3:Brave. A brave dog.", string(data))
}

func TestCacheKeyDependsOnVoiceAndSpeed(t *testing.T) {
	cache, err := NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	uk, err := LookupVoice("ukMale")
	require.NoError(t, err)
	slow, err := LookupSpeed("slow")
	require.NoError(t, err)

	base := cache.Filename("brave", DefaultVoice(), DefaultSpeed())
	assert.NotEqual(t, base, cache.Filename("brave", uk, DefaultSpeed()))
	assert.NotEqual(t, base, cache.Filename("brave", DefaultVoice(), slow))
	assert.NotEqual(t, base, cache.Filename("Brave", DefaultVoice(), DefaultSpeed()))
}

func TestCacheWithoutSynthesizer(t *testing.T) {
	cache, err := NewCache(t.TempDir(), nil)
	require.NoError(t, err)
	assert.False(t, cache.Enabled())

	_, err = cache.Get(context.Background(), "hello", DefaultVoice(), DefaultSpeed())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCacheSynthesisFailureLeavesNoFile(t *testing.T) {
	synth := &countingSynth{err: errors.New("quota")}
	cache, err := NewCache(t.TempDir(), synth)
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), "hello", DefaultVoice(), DefaultSpeed())
	require.Error(t, err)

	files, err := cache.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCachePathRejectsForeignNames(t *testing.T) {
	cache, err := NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	for _, name := range []string{"../etc/passwd", "speech_x.wav", "other.mp3", "sub/speech_1.mp3"} {
		_, err := cache.Path(name)
		assert.ErrorIs(t, err, ErrInvalidFilename, name)
	}
}

func TestCacheWarmRemoveAndPrune(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir, &countingSynth{})
	require.NoError(t, err)

	got, err := cache.Warm(context.Background(), []string{"one", "two", "three"}, DefaultVoice(), DefaultSpeed())
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Files that are not ours are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := cache.Files()
	require.NoError(t, err)
	assert.Len(t, files, 3)

	require.NoError(t, cache.Remove(got["one"]))
	require.NoError(t, cache.Remove(got["one"]))

	old := time.Now().Add(-48 * time.Hour)
	path, err := cache.Path(got["two"])
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(path, old, old))

	removed, err := cache.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	files, err = cache.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{got["three"]}, files)
}

func TestTranslateSynthesizer(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	s := NewTranslateSynthesizer()
	s.baseURL = srv.URL

	slow, err := LookupSpeed("verySlow")
	require.NoError(t, err)
	uk, err := LookupVoice("UK English Female")
	require.NoError(t, err)

	data, err := s.Synthesize(context.Background(), "Brave. A brave dog.", uk, slow)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))
	assert.Contains(t, gotQuery, "client=tw-ob")
	assert.Contains(t, gotQuery, "tl=en-GB")
	assert.Contains(t, gotQuery, "ttsspeed=0.65")
	assert.NotEmpty(t, gotAgent)

	_, err = s.Synthesize(context.Background(), "  ", uk, slow)
	assert.Error(t, err)
}

func TestTranslateSynthesizerStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewTranslateSynthesizer()
	s.baseURL = srv.URL

	_, err := s.Synthesize(context.Background(), "hello", DefaultVoice(), DefaultSpeed())
	assert.Error(t, err)
}

func TestCloudSynthesizerWithAPIKey(t *testing.T) {
	var gotKey string
	var gotBody synthesizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"audioContent":"SUQz"}`))
	}))
	defer srv.Close()

	s, err := NewCloudSynthesizer(context.Background(), "secret")
	require.NoError(t, err)
	s.endpoint = srv.URL

	male, err := LookupVoice("usMale")
	require.NoError(t, err)
	fast, err := LookupSpeed("fast")
	require.NoError(t, err)

	data, err := s.Synthesize(context.Background(), "Great job!", male, fast)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "MALE", gotBody.Voice.SSMLGender)
	assert.Equal(t, "en-US", gotBody.Voice.LanguageCode)
	assert.Equal(t, 1.4, gotBody.AudioConfig.SpeakingRate)
	assert.Equal(t, "Great job!", gotBody.Input.Text)
}

func TestLookupVoice(t *testing.T) {
	v, err := LookupVoice("US English Female")
	require.NoError(t, err)
	assert.Equal(t, DefaultVoiceKey, v.Key)

	_, err = LookupVoice("robot")
	assert.Error(t, err)
	_, err = LookupSpeed("ludicrous")
	assert.Error(t, err)
	assert.Len(t, Voices(), 4)
	assert.Len(t, Speeds(), 4)
}
