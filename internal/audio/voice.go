package audio

import (
	"fmt"
	"strings"
)

// Voice describes a selectable speaking voice
type Voice struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	LanguageCode string `json:"languageCode"`
	Gender       string `json:"gender"`
}

// Speed is a named speaking rate
type Speed struct {
	Key  string  `json:"key"`
	Rate float64 `json:"rate"`
}

const (
	DefaultVoiceKey = "usFemale"
	DefaultSpeedKey = "normal"
)

var voices = []Voice{
	{Key: "usFemale", Name: "US English Female", LanguageCode: "en-US", Gender: "FEMALE"},
	{Key: "ukFemale", Name: "UK English Female", LanguageCode: "en-GB", Gender: "FEMALE"},
	{Key: "usMale", Name: "US English Male", LanguageCode: "en-US", Gender: "MALE"},
	{Key: "ukMale", Name: "UK English Male", LanguageCode: "en-GB", Gender: "MALE"},
}

var speeds = []Speed{
	{Key: "fast", Rate: 1.4},
	{Key: "normal", Rate: 1.0},
	{Key: "slow", Rate: 0.85},
	{Key: "verySlow", Rate: 0.65},
}

// Voices returns every available voice
func Voices() []Voice {
	return append([]Voice(nil), voices...)
}

// Speeds returns every available speaking rate
func Speeds() []Speed {
	return append([]Speed(nil), speeds...)
}

// LookupVoice finds a voice by key or display name
func LookupVoice(s string) (Voice, error) {
	for _, v := range voices {
		if strings.EqualFold(v.Key, s) || strings.EqualFold(v.Name, s) {
			return v, nil
		}
	}
	return Voice{}, fmt.Errorf("unknown voice %q", s)
}

// LookupSpeed finds a speaking rate by key
func LookupSpeed(s string) (Speed, error) {
	for _, sp := range speeds {
		if strings.EqualFold(sp.Key, s) {
			return sp, nil
		}
	}
	return Speed{}, fmt.Errorf("unknown speed %q", s)
}

// DefaultVoice is US English Female
func DefaultVoice() Voice {
	v, _ := LookupVoice(DefaultVoiceKey)
	return v
}

// DefaultSpeed is the normal rate
func DefaultSpeed() Speed {
	sp, _ := LookupSpeed(DefaultSpeedKey)
	return sp
}
